// internal/staking/service.go
package staking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

// Ledger is what the staking service needs from a chain connection.
type Ledger interface {
	ledger.StakingReader
	ledger.StakingWriter
}

// PriceQuoter serves the reward token's USD price.
type PriceQuoter interface {
	Get(ctx context.Context) (float64, bool)
}

type Config struct {
	Holder          ledger.Address
	RewardDecimals  int
	BlockTime       time.Duration
	RefreshInterval time.Duration
}

const (
	DefaultBlockTime       = 2 * time.Second
	DefaultRefreshInterval = 6 * time.Second
)

// Position is a holder's NFT staking view. Every refresh replaces it whole.
type Position struct {
	Seq       uint64
	UpdatedAt time.Time
	Holder    ledger.Address

	Owned       []uint64
	Staked      []uint64
	StakedCount uint64
	ApprovedAll bool

	RewardTokenPrice float64
	PendingReward    float64
	PendingRewardUSD float64
	PoolBalance      float64
	PoolBalanceUSD   float64

	Timeline metrics.StakingTimeline
}

type Service struct {
	cfg       Config
	ledger    Ledger
	price     PriceQuoter
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	seq     uint64
	current Position
}

func NewService(cfg Config, l Ledger, price PriceQuoter, publisher events.Publisher, logger *zap.Logger) *Service {
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = DefaultBlockTime
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{
		cfg:       cfg,
		ledger:    l,
		price:     price,
		publisher: publisher,
		logger:    logger.Named("staking"),
		now:       time.Now,
	}
}

// Current returns the last refreshed position.
func (s *Service) Current() Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh reads the staking contract and the NFT collection and replaces the
// position. On a failed read the previous position stays current.
func (s *Service) Refresh(ctx context.Context) (Position, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	state, err := s.ledger.ReadStakingState(ctx, s.cfg.Holder)
	if err != nil {
		s.logger.Error("Failed to read staking state", zap.Error(err))
		return s.Current(), err
	}

	var price float64
	if s.price != nil {
		price, _ = s.price.Get(ctx)
	}

	now := s.now()
	pending := units.Normalize(state.PendingReward, s.cfg.RewardDecimals)
	pool := units.Normalize(state.PoolBalance, s.cfg.RewardDecimals)
	pos := Position{
		Seq:              seq,
		UpdatedAt:        now,
		Holder:           s.cfg.Holder,
		Owned:            state.OwnedIDs,
		Staked:           state.StakedIDs,
		StakedCount:      state.StakedCount,
		ApprovedAll:      state.ApprovedAll,
		RewardTokenPrice: price,
		PendingReward:    pending,
		PendingRewardUSD: pending * price,
		PoolBalance:      pool,
		PoolBalanceUSD:   pool * price,
		Timeline:         metrics.Timeline(state.CurrentBlock, state.BonusEndBlock, s.cfg.BlockTime, now),
	}

	s.mu.Lock()
	if seq < s.current.Seq {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale staking refresh", zap.Uint64("seq", seq))
		return s.Current(), nil
	}
	s.current = pos
	s.mu.Unlock()

	if err := s.publisher.Publish(events.SnapshotEvent{
		BaseEvent: events.NewBase(events.StakingSnapshot, now),
		Seq:       seq,
		Payload:   pos,
	}); err != nil {
		s.logger.Debug("Staking snapshot not published", zap.Error(err))
	}
	return pos, nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Stake deposits ids, granting approval-for-all first when it is missing.
func (s *Service) Stake(ctx context.Context, ids []uint64) (ledger.TxResult, error) {
	return s.submit(ctx, "stake", ids, s.ledger.SubmitStake)
}

// Withdraw unstakes ids and collects their rewards.
func (s *Service) Withdraw(ctx context.Context, ids []uint64) (ledger.TxResult, error) {
	return s.submit(ctx, "withdraw", ids, s.ledger.SubmitWithdraw)
}

func (s *Service) submit(ctx context.Context, action string, ids []uint64, fn func(context.Context, []uint64) (ledger.TxResult, error)) (ledger.TxResult, error) {
	var (
		tx  ledger.TxResult
		err error
	)
	if len(ids) == 0 {
		err = ledger.ErrEmptySelection
	} else {
		tx, err = fn(ctx, ids)
	}

	ev := events.ActionEvent{
		BaseEvent: events.NewBase(events.ActionSucceeded, s.now()),
		Action:    action,
		TxHash:    tx.Hash,
		Err:       err,
	}
	if err != nil {
		ev.EventType = events.ActionFailed
		s.logger.Error("Staking action failed", zap.String("action", action), zap.Uint64s("ids", ids), zap.Error(err))
	} else {
		s.logger.Info("Staking action confirmed", zap.String("action", action), zap.Uint64s("ids", ids), zap.String("tx", tx.Hash))
	}
	if pubErr := s.publisher.Publish(ev); pubErr != nil {
		s.logger.Debug("Action notification not published", zap.Error(pubErr))
	}

	if err == nil {
		s.Refresh(ctx)
	}
	return tx, err
}
