package pools

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

var ErrInvalidFee = errors.New("deployment fee must be a non-negative amount")

// Ledger is what the pool service needs from a chain connection.
type Ledger interface {
	ledger.PoolFactory
	ReadNativeBalance(ctx context.Context, holder ledger.Address) (*big.Int, error)
}

type Config struct {
	Account        ledger.Address // "" on a read-only connection
	Factory        ledger.Address
	NativeDecimals int
}

// Overview is the pool factory page: deployed pools, the current fee and the
// balances of the account and of the factory.
type Overview struct {
	Pools          []ledger.Address
	FeeRaw         *big.Int
	Fee            float64
	AccountBalance float64
	FactoryBalance float64
}

type Service struct {
	cfg       Config
	ledger    Ledger
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(cfg Config, l Ledger, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{
		cfg:       cfg,
		ledger:    l,
		publisher: publisher,
		logger:    logger.Named("pools"),
	}
}

// Overview reads everything concurrently. Unlike the presale refresh it has
// no previous value to fall back to, so the first failure is returned.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		o              Overview
		accountBalance *big.Int
		factoryBalance *big.Int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pools, err := s.ledger.ReadDeployedPools(gCtx)
		o.Pools = pools
		return err
	})
	g.Go(func() error {
		fee, err := s.ledger.ReadDeploymentFee(gCtx)
		o.FeeRaw = fee
		return err
	})
	if s.cfg.Account != "" {
		g.Go(func() error {
			var err error
			accountBalance, err = s.ledger.ReadNativeBalance(gCtx, s.cfg.Account)
			return err
		})
	}
	if s.cfg.Factory != "" {
		g.Go(func() error {
			var err error
			factoryBalance, err = s.ledger.ReadNativeBalance(gCtx, s.cfg.Factory)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to read pool factory", zap.Error(err))
		return Overview{}, err
	}

	o.Fee = units.Normalize(o.FeeRaw, s.cfg.NativeDecimals)
	o.AccountBalance = units.Normalize(accountBalance, s.cfg.NativeDecimals)
	o.FactoryBalance = units.Normalize(factoryBalance, s.cfg.NativeDecimals)
	return o, nil
}

// Deploy pays the current deployment fee and deploys a pool.
func (s *Service) Deploy(ctx context.Context, p ledger.PoolDeployment) (ledger.TxResult, error) {
	return s.submit(ctx, "deploy pool", func(ctx context.Context) (ledger.TxResult, error) {
		fee, err := s.ledger.ReadDeploymentFee(ctx)
		if err != nil {
			return ledger.TxResult{}, fmt.Errorf("read deployment fee: %w", err)
		}
		return s.ledger.DeployPool(ctx, p, fee)
	})
}

// AdminDeploy deploys a pool without a fee; only the factory owner may.
func (s *Service) AdminDeploy(ctx context.Context, p ledger.PoolDeployment) (ledger.TxResult, error) {
	return s.submit(ctx, "admin deploy pool", func(ctx context.Context) (ledger.TxResult, error) {
		return s.ledger.DeployPoolWithoutFee(ctx, p)
	})
}

// UpdateFee sets the deployment fee, given in whole native coins.
func (s *Service) UpdateFee(ctx context.Context, fee string) (ledger.TxResult, error) {
	return s.submit(ctx, "update deployment fee", func(ctx context.Context) (ledger.TxResult, error) {
		raw, err := units.ToRaw(fee, s.cfg.NativeDecimals)
		if err != nil {
			return ledger.TxResult{}, fmt.Errorf("%w: %v", ErrInvalidFee, err)
		}
		return s.ledger.UpdateDeploymentFee(ctx, raw)
	})
}

func (s *Service) WithdrawFunds(ctx context.Context) (ledger.TxResult, error) {
	return s.submit(ctx, "withdraw funds", s.ledger.WithdrawFunds)
}

func (s *Service) submit(ctx context.Context, action string, fn func(context.Context) (ledger.TxResult, error)) (ledger.TxResult, error) {
	tx, err := fn(ctx)

	eventType := events.ActionSucceeded
	if err != nil {
		eventType = events.ActionFailed
		s.logger.Error("Pool action failed", zap.String("action", action), zap.Error(err))
	} else {
		s.logger.Info("Pool action confirmed", zap.String("action", action), zap.String("tx", tx.Hash))
	}

	if pubErr := s.publisher.Publish(events.ActionEvent{
		BaseEvent: events.NewBase(eventType, time.Now()),
		Action:    action,
		TxHash:    tx.Hash,
		Err:       err,
	}); pubErr != nil {
		s.logger.Debug("Action notification not published", zap.Error(pubErr))
	}
	return tx, err
}
