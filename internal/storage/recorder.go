package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/storage/models"
)

// Recorder persists presale snapshots and action outcomes published on the bus.
type Recorder struct {
	store  Storage
	logger *zap.Logger
	sub    events.Subscription
}

func NewRecorder(store Storage, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.Named("recorder"),
	}
}

// Attach starts recording. Call Detach to stop.
func (r *Recorder) Attach(s events.Subscriber) {
	r.sub = events.SubscribeAll(s, r, events.PresaleSnapshot, events.ActionSucceeded, events.ActionFailed)
}

func (r *Recorder) Detach() {
	if r.sub != nil {
		r.sub.Unsubscribe()
		r.sub = nil
	}
}

// Handle implements events.Handler.
func (r *Recorder) Handle(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.SnapshotEvent:
		snap, ok := ev.Payload.(presale.Snapshot)
		if !ok {
			return nil
		}
		if err := r.store.SavePresaleSnapshot(ctx, SnapshotRecord(snap)); err != nil {
			r.logger.Error("Failed to record presale snapshot", zap.Uint64("seq", snap.Seq), zap.Error(err))
			return err
		}
	case events.ActionEvent:
		if err := r.store.SaveAction(ctx, ActionRecord(ev)); err != nil {
			r.logger.Error("Failed to record action", zap.String("action", ev.Action), zap.Error(err))
			return err
		}
	}
	return nil
}

// SnapshotRecord flattens a presale snapshot into its history row.
func SnapshotRecord(s presale.Snapshot) *models.PresaleSnapshot {
	return &models.PresaleSnapshot{
		Seq:             s.Seq,
		Account:         string(s.Account),
		Phase:           s.Phase(),
		TotalSupply:     s.Parameters.TotalSupply,
		PresaleOffered:  s.Parameters.PresaleOffered,
		PresaleRaised:   s.Parameters.PresaleRaised,
		SoftCap:         s.Parameters.SoftCap,
		HardCap:         s.Parameters.HardCap,
		ContributedUSD:  s.Contribution.TotalUSD,
		MinLaunchPrice:  s.Metrics.MinLaunchPrice,
		LaunchPrice:     s.Metrics.ActualLaunchPrice,
		MarketCap:       s.Metrics.MarketCap,
		LiquidityValue:  s.Metrics.TotalLiquidityValue,
		SoftCapProgress: s.SoftCapProgress,
		NativePriceUSD:  s.NativePriceUSD,
		TakenAt:         s.UpdatedAt,
	}
}

func ActionRecord(e events.ActionEvent) *models.Action {
	a := &models.Action{
		Action:     e.Action,
		TxHash:     e.TxHash,
		Status:     models.ActionStatusSuccess,
		OccurredAt: e.Timestamp(),
	}
	if e.Err != nil {
		a.Status = models.ActionStatusFailed
		a.ErrorMessage = e.Err.Error()
	}
	return a
}
