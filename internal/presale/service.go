// internal/presale/service.go
package presale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

// Ledger is what the presale service needs from a chain connection.
type Ledger interface {
	ledger.PresaleReader
	ledger.PresaleWriter
}

// PriceQuoter serves the native coin's USD price. *price.Fetcher implements it.
type PriceQuoter interface {
	Get(ctx context.Context) (float64, bool)
}

// Config parametrizes one presale deployment.
type Config struct {
	Account         ledger.Address // "" on a read-only connection
	TokenDecimals   int
	StableDecimals  int
	NativeDecimals  int
	TargetDate      time.Time // overrides the on-chain end date when set
	RefreshInterval time.Duration
}

const DefaultRefreshInterval = 15 * time.Second

// Service refreshes the presale read model and dispatches presale actions.
type Service struct {
	cfg         Config
	ledger      Ledger
	nativePrice PriceQuoter
	store       *Store
	publisher   events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires a presale service. nativePrice and publisher may be nil.
func NewService(cfg Config, l Ledger, nativePrice PriceQuoter, publisher events.Publisher, logger *zap.Logger) *Service {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{
		cfg:         cfg,
		ledger:      l,
		nativePrice: nativePrice,
		store:       NewStore(),
		publisher:   publisher,
		logger:      logger.Named("presale"),
		now:         time.Now,
	}
}

func (s *Service) Store() *Store {
	return s.store
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

// Refresh runs one read cycle. Reads are issued concurrently; a failed read
// keeps the value of the previous snapshot. The returned error joins every
// read failure of the cycle and never means the snapshot is unusable.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	seq := s.store.Begin()
	prev, _ := s.store.Latest()

	var (
		params      ledger.PresaleParameters
		status      ledger.PresaleStatus
		contrib     ledger.Contribution
		nativePrice float64
		paramsErr   error
		statusErr   error
		contribErr  error
	)

	// Each read is judged on its own, so none of them fails the group.
	var g errgroup.Group
	g.Go(func() error {
		params, paramsErr = s.ledger.ReadAllocationBreakdown(ctx)
		return nil
	})
	g.Go(func() error {
		status, statusErr = s.ledger.ReadStatus(ctx)
		return nil
	})
	g.Go(func() error {
		contrib, contribErr = s.ledger.ReadContribution(ctx, s.cfg.Account)
		return nil
	})
	if s.nativePrice != nil {
		g.Go(func() error {
			nativePrice, _ = s.nativePrice.Get(ctx)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		// Cancelled mid-cycle: nothing is committed.
		return prev, ctx.Err()
	}

	snap := prev
	snap.Seq = seq
	snap.UpdatedAt = s.now()
	snap.Account = s.cfg.Account
	snap.ReadErrors = nil

	var errs []error
	if paramsErr != nil {
		errs = append(errs, fmt.Errorf("allocation breakdown: %w", paramsErr))
	} else {
		snap.Parameters = s.normalizeParameters(params)
	}
	if statusErr != nil {
		errs = append(errs, fmt.Errorf("status: %w", statusErr))
	} else {
		snap.Status = status
	}
	if contribErr != nil {
		errs = append(errs, fmt.Errorf("contribution: %w", contribErr))
	} else {
		snap.Contribution = Contribution{
			Native:   units.Normalize(contrib.Native, s.cfg.NativeDecimals),
			Stable:   units.Normalize(contrib.Stable, s.cfg.StableDecimals),
			TotalUSD: units.Normalize(contrib.TotalUSD, s.cfg.StableDecimals),
		}
	}
	if s.nativePrice != nil {
		snap.NativePriceUSD = nativePrice
	}
	for _, err := range errs {
		s.logger.Error("Presale read failed, keeping previous value", zap.Error(err))
		snap.ReadErrors = append(snap.ReadErrors, err.Error())
	}

	s.derive(&snap)

	if !s.store.Commit(snap) {
		s.logger.Debug("Discarding stale presale refresh", zap.Uint64("seq", seq))
		latest, _ := s.store.Latest()
		return latest, errors.Join(errs...)
	}

	if err := s.publisher.Publish(events.SnapshotEvent{
		BaseEvent: events.NewBase(events.PresaleSnapshot, snap.UpdatedAt),
		Seq:       snap.Seq,
		Payload:   snap,
	}); err != nil {
		s.logger.Debug("Snapshot not published", zap.Error(err))
	}
	return snap, errors.Join(errs...)
}

// derive recomputes every figure that depends on the read values. The minimum
// launch price falls back to the one carried by snap from the last commit.
func (s *Service) derive(snap *Snapshot) {
	snap.Metrics = metrics.ComputeDeployment(snap.Parameters.Inputs(), snap.Metrics.MinLaunchPrice)
	snap.Position = metrics.Position(metrics.PositionInputs{
		NativeContribution:    snap.Contribution.Native,
		NativePriceUSD:        snap.NativePriceUSD,
		StableContribution:    snap.Contribution.Stable,
		TotalContributionsUSD: snap.Contribution.TotalUSD,
		TotalTokensOffered:    snap.Parameters.PresaleOffered,
	})
	snap.SoftCapProgress = metrics.SoftCapProgress(snap.Contribution.TotalUSD, snap.Parameters.SoftCap)
	snap.SoftCapReached = metrics.SoftCapReached(snap.Contribution.TotalUSD, snap.Parameters.SoftCap)

	target := s.cfg.TargetDate
	if target.IsZero() {
		target = snap.Parameters.EndDate
	}
	snap.TimeLeft = metrics.TimeLeft{}
	if !target.IsZero() {
		snap.TimeLeft = metrics.Countdown(target, snap.UpdatedAt)
	}
}

func (s *Service) normalizeParameters(p ledger.PresaleParameters) Parameters {
	return Parameters{
		TotalSupply:    units.Normalize(p.TotalTokens, s.cfg.TokenDecimals),
		Burn:           units.Normalize(p.BurnTokens, s.cfg.TokenDecimals),
		LiquidityPool:  units.Normalize(p.LiquidityPoolTokens, s.cfg.TokenDecimals),
		DevMarketing:   units.Normalize(p.DevMarketingTokens, s.cfg.TokenDecimals),
		PresaleOffered: units.Normalize(p.PresaleOffered, s.cfg.TokenDecimals),
		PresaleRaised:  units.Normalize(p.PresaleRaisedUSD, s.cfg.StableDecimals),
		SoftCap:        units.Normalize(p.SoftCapUSD, s.cfg.StableDecimals),
		HardCap:        units.Normalize(p.HardCapUSD, s.cfg.StableDecimals),
		LiquidityInUSD: units.Normalize(p.LiquidityInUSD, s.cfg.StableDecimals),
		EndDate:        p.EndDate,
	}
}

// Contributors reads the contributor list and returns it largest first with
// each share of the running total.
func (s *Service) Contributors(ctx context.Context) ([]metrics.ContributorShare, error) {
	var (
		list  []ledger.Contributor
		total ledger.Contribution
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.ledger.ReadContributors(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.ledger.ReadContribution(gCtx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to read contributors", zap.Error(err))
		return nil, err
	}

	shares := make([]metrics.ContributorShare, 0, len(list))
	for _, c := range list {
		shares = append(shares, metrics.ContributorShare{
			Address:         string(c.Address),
			ContributionUSD: units.Normalize(c.TotalUSD, s.cfg.StableDecimals),
		})
	}
	return metrics.ContributorShares(shares, units.Normalize(total.TotalUSD, s.cfg.StableDecimals)), nil
}
