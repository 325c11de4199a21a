package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/storage/models"
)

type memStorage struct {
	snapshots []*models.PresaleSnapshot
	actions   []*models.Action
	err       error
}

func (m *memStorage) SavePresaleSnapshot(_ context.Context, s *models.PresaleSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *memStorage) RecentSnapshots(_ context.Context, limit int) ([]*models.PresaleSnapshot, error) {
	return m.snapshots, nil
}

func (m *memStorage) SaveAction(_ context.Context, a *models.Action) error {
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, a)
	return nil
}

func (m *memStorage) RecentActions(_ context.Context, limit int) ([]*models.Action, error) {
	return m.actions, nil
}

func (m *memStorage) RunMigrations(context.Context) error { return nil }
func (m *memStorage) Close() error                        { return nil }

var _ Storage = (*memStorage)(nil)

func TestRecorderStoresSnapshotsAndActions(t *testing.T) {
	store := &memStorage{}
	bus := events.NewBus(zaptest.NewLogger(t), 8)
	rec := NewRecorder(store, zaptest.NewLogger(t))
	rec.Attach(bus)

	at := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	snap := presale.Snapshot{
		Seq:        3,
		UpdatedAt:  at,
		Account:    "0xabc",
		Parameters: presale.Parameters{TotalSupply: 1000000, SoftCap: 5000},
		Status:     ledger.PresaleStatus{ClaimEnabled: true},
		Metrics:    metrics.DeploymentMetrics{MinLaunchPrice: 0.075, ActualLaunchPrice: 0.08, MarketCap: 80000},
	}

	ctx := context.Background()
	require.NoError(t, bus.PublishSync(ctx, events.SnapshotEvent{BaseEvent: events.NewBase(events.PresaleSnapshot, at), Seq: 3, Payload: snap}))
	require.NoError(t, bus.PublishSync(ctx, events.ActionEvent{BaseEvent: events.NewBase(events.ActionFailed, at), Action: "claim", Err: errors.New("execution reverted")}))

	require.Len(t, store.snapshots, 1)
	got := store.snapshots[0]
	assert.Equal(t, uint64(3), got.Seq)
	assert.Equal(t, "claim open", got.Phase)
	assert.Equal(t, 0.08, got.LaunchPrice)
	assert.Equal(t, at, got.TakenAt)

	require.Len(t, store.actions, 1)
	assert.Equal(t, models.ActionStatusFailed, store.actions[0].Status)
	assert.Equal(t, "execution reverted", store.actions[0].ErrorMessage)

	rec.Detach()
	require.NoError(t, bus.PublishSync(ctx, events.ActionEvent{BaseEvent: events.NewBase(events.ActionSucceeded, at), Action: "claim"}))
	assert.Len(t, store.actions, 1)
}

func TestRecorderIgnoresForeignPayload(t *testing.T) {
	store := &memStorage{}
	rec := NewRecorder(store, zaptest.NewLogger(t))

	err := rec.Handle(context.Background(), events.SnapshotEvent{BaseEvent: events.NewBase(events.PresaleSnapshot, time.Now()), Payload: "not a snapshot"})
	assert.NoError(t, err)
	assert.Empty(t, store.snapshots)
}

func TestRecorderSurfacesStorageErrors(t *testing.T) {
	store := &memStorage{err: errors.New("connection refused")}
	rec := NewRecorder(store, zaptest.NewLogger(t))

	err := rec.Handle(context.Background(), events.ActionEvent{BaseEvent: events.NewBase(events.ActionSucceeded, time.Now()), Action: "stake", TxHash: "0x1"})
	assert.Error(t, err)
}
