// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/storage"
	"github.com/rovshanmuradov/launchpad/internal/storage/models"
)

const migrationLockID = 101

var ErrMigrationInProgress = errors.New("another migration is in progress")

// postgresStorage implements storage.Storage on lib/pq.
type postgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStorage connects, verifies the connection and creates missing tables.
func NewStorage(ctx context.Context, dsn string, logger *zap.Logger) (storage.Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &postgresStorage{db: db, logger: logger.Named("postgres")}
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// RunMigrations creates the tables under an advisory lock.
func (p *postgresStorage) RunMigrations(ctx context.Context) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var locked bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockID).Scan(&locked); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !locked {
		return ErrMigrationInProgress
	}
	defer conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockID)

	queries := []string{
		`CREATE TABLE IF NOT EXISTS presale_snapshots (
            id BIGSERIAL PRIMARY KEY,
            seq BIGINT NOT NULL,
            account VARCHAR(42) NOT NULL DEFAULT '',
            phase VARCHAR(20) NOT NULL,
            total_supply DOUBLE PRECISION NOT NULL,
            presale_offered DOUBLE PRECISION NOT NULL,
            presale_raised DOUBLE PRECISION NOT NULL,
            soft_cap DOUBLE PRECISION NOT NULL,
            hard_cap DOUBLE PRECISION NOT NULL,
            contributed_usd DOUBLE PRECISION NOT NULL,
            min_launch_price DOUBLE PRECISION NOT NULL,
            launch_price DOUBLE PRECISION NOT NULL,
            market_cap DOUBLE PRECISION NOT NULL,
            liquidity_value DOUBLE PRECISION NOT NULL,
            soft_cap_progress DOUBLE PRECISION NOT NULL,
            native_price_usd DOUBLE PRECISION NOT NULL,
            taken_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_presale_snapshots_taken_at ON presale_snapshots (taken_at DESC)`,
		`CREATE TABLE IF NOT EXISTS actions (
            id BIGSERIAL PRIMARY KEY,
            action VARCHAR(64) NOT NULL,
            tx_hash VARCHAR(66) NOT NULL DEFAULT '',
            status VARCHAR(20) NOT NULL,
            error_message TEXT NOT NULL DEFAULT '',
            occurred_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}
	for _, q := range queries {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return nil
}

func (p *postgresStorage) SavePresaleSnapshot(ctx context.Context, s *models.PresaleSnapshot) error {
	query := `
        INSERT INTO presale_snapshots (
            seq, account, phase, total_supply, presale_offered, presale_raised,
            soft_cap, hard_cap, contributed_usd, min_launch_price, launch_price,
            market_cap, liquidity_value, soft_cap_progress, native_price_usd, taken_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
        )
        RETURNING id, created_at
    `

	err := p.db.QueryRowContext(ctx, query,
		int64(s.Seq),
		s.Account,
		s.Phase,
		s.TotalSupply,
		s.PresaleOffered,
		s.PresaleRaised,
		s.SoftCap,
		s.HardCap,
		s.ContributedUSD,
		s.MinLaunchPrice,
		s.LaunchPrice,
		s.MarketCap,
		s.LiquidityValue,
		s.SoftCapProgress,
		s.NativePriceUSD,
		s.TakenAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save presale snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots, newest first.
func (p *postgresStorage) RecentSnapshots(ctx context.Context, limit int) ([]*models.PresaleSnapshot, error) {
	query := `
        SELECT id, seq, account, phase, total_supply, presale_offered, presale_raised,
               soft_cap, hard_cap, contributed_usd, min_launch_price, launch_price,
               market_cap, liquidity_value, soft_cap_progress, native_price_usd,
               taken_at, created_at
        FROM presale_snapshots
        ORDER BY taken_at DESC, id DESC
        LIMIT $1
    `

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query presale snapshots: %w", err)
	}
	defer rows.Close()

	var result []*models.PresaleSnapshot
	for rows.Next() {
		var (
			s   models.PresaleSnapshot
			seq int64
		)
		err := rows.Scan(
			&s.ID,
			&seq,
			&s.Account,
			&s.Phase,
			&s.TotalSupply,
			&s.PresaleOffered,
			&s.PresaleRaised,
			&s.SoftCap,
			&s.HardCap,
			&s.ContributedUSD,
			&s.MinLaunchPrice,
			&s.LaunchPrice,
			&s.MarketCap,
			&s.LiquidityValue,
			&s.SoftCapProgress,
			&s.NativePriceUSD,
			&s.TakenAt,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan presale snapshot: %w", err)
		}
		s.Seq = uint64(seq)
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presale snapshot rows: %w", err)
	}
	return result, nil
}

func (p *postgresStorage) SaveAction(ctx context.Context, a *models.Action) error {
	query := `
        INSERT INTO actions (action, tx_hash, status, error_message, occurred_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := p.db.QueryRowContext(ctx, query, a.Action, a.TxHash, a.Status, a.ErrorMessage, a.OccurredAt).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save action: %w", err)
	}
	return nil
}

// RecentActions returns up to limit actions, newest first.
func (p *postgresStorage) RecentActions(ctx context.Context, limit int) ([]*models.Action, error) {
	query := `
        SELECT id, action, tx_hash, status, error_message, occurred_at, created_at
        FROM actions
        ORDER BY occurred_at DESC, id DESC
        LIMIT $1
    `

	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var result []*models.Action
	for rows.Next() {
		var a models.Action
		if err := rows.Scan(&a.ID, &a.Action, &a.TxHash, &a.Status, &a.ErrorMessage, &a.OccurredAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action rows: %w", err)
	}
	return result, nil
}

func (p *postgresStorage) Close() error {
	return p.db.Close()
}

var _ storage.Storage = (*postgresStorage)(nil)
