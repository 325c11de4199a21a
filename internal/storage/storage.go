// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/rovshanmuradov/launchpad/internal/storage/models"
)

// Storage keeps presale history and the action log.
type Storage interface {
	// Snapshots
	SavePresaleSnapshot(ctx context.Context, s *models.PresaleSnapshot) error
	RecentSnapshots(ctx context.Context, limit int) ([]*models.PresaleSnapshot, error)

	// Actions
	SaveAction(ctx context.Context, a *models.Action) error
	RecentActions(ctx context.Context, limit int) ([]*models.Action, error)

	RunMigrations(ctx context.Context) error
	Close() error
}
