// Package app assembles the services of one launchpad session from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/config"
	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/ledger/evm"
	"github.com/rovshanmuradov/launchpad/internal/ledger/solana"
	"github.com/rovshanmuradov/launchpad/internal/pools"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/price"
	"github.com/rovshanmuradov/launchpad/internal/staking"
	"github.com/rovshanmuradov/launchpad/internal/storage"
	"github.com/rovshanmuradov/launchpad/internal/storage/postgres"
)

var (
	ErrNoRPC           = errors.New("rpc_url is not configured")
	ErrPresaleDisabled = errors.New("contracts.presale is not configured")
	ErrStakingDisabled = errors.New("contracts.staking is not configured")
	ErrPoolsDisabled   = errors.New("contracts.pool_factory is not configured")
	ErrStorageDisabled = errors.New("postgres_url is not configured")
	ErrSolanaDisabled  = errors.New("solana.rpc_url and solana.mint are not configured")
)

const busBuffer = 256

// App holds the wired services. Optional parts are nil when their
// configuration is missing.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Client      *evm.Client
	Bus         *events.Bus
	NativePrice *price.Fetcher
	RewardPrice *price.Fetcher

	Presale *presale.Service
	Staking *staking.Service
	Pools   *pools.Service

	Solana  *solana.SPLReader
	Storage storage.Storage

	recorder *storage.Recorder
	shutdown *ShutdownHandler
}

// New connects to the chain and builds every configured service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.RPCURL == "" {
		return nil, ErrNoRPC
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		shutdown: NewShutdownHandler(logger, 10*time.Second),
	}

	client, err := evm.Connect(ctx, evmConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	a.Client = client
	a.shutdown.AddFunc("evm", func() error {
		client.Close()
		return nil
	})

	a.Bus = events.NewBus(logger, busBuffer)

	if cfg.PostgresURL != "" {
		store, err := postgres.NewStorage(ctx, cfg.PostgresURL, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Storage = store
		a.recorder = storage.NewRecorder(store, logger)
		a.recorder.Attach(a.Bus)
		a.shutdown.Add("storage", store)
	}

	// Registered after storage so queued snapshots are recorded before it closes.
	a.shutdown.AddFunc("bus", func() error {
		return a.Bus.Shutdown(context.Background())
	})

	if cfg.Solana.RPCURL != "" && cfg.Solana.Mint != "" {
		a.Solana = solana.NewSPLReader(cfg.Solana.RPCURL, logger)
	}

	account := client.Account()
	if account == "" {
		account = ledger.Address(cfg.Account)
	}

	a.NativePrice = price.NewFetcher("native", price.NewOracleSource(client, cfg.Decimals.Oracle), cfg.Price.Interval, logger)
	a.RewardPrice = price.NewFetcher("reward token", rewardSource(cfg), cfg.Price.Interval, logger)

	if cfg.Contracts.Presale != "" {
		target, _, _ := cfg.Presale.Target() // validated on load
		a.Presale = presale.NewService(presale.Config{
			Account:         account,
			TokenDecimals:   cfg.Decimals.Token,
			StableDecimals:  cfg.Decimals.Stable,
			NativeDecimals:  cfg.Decimals.Native,
			TargetDate:      target,
			RefreshInterval: cfg.Presale.RefreshInterval,
		}, client, a.NativePrice, a.Bus, logger)
	}

	if cfg.Contracts.Staking != "" {
		a.Staking = staking.NewService(staking.Config{
			Holder:          account,
			RewardDecimals:  cfg.Decimals.Reward,
			BlockTime:       cfg.Staking.BlockTime,
			RefreshInterval: cfg.Staking.RefreshInterval,
		}, client, a.RewardPrice, a.Bus, logger)
	}

	if cfg.Contracts.PoolFactory != "" {
		a.Pools = pools.NewService(pools.Config{
			Account:        account,
			Factory:        ledger.Address(cfg.Contracts.PoolFactory),
			NativeDecimals: cfg.Decimals.Native,
		}, client, a.Bus, logger)
	}

	logger.Info("Session ready",
		zap.String("account", string(account)),
		zap.Bool("signer", client.Account() != ""),
		zap.String("chain_id", client.ChainID().String()),
		zap.Bool("presale", a.Presale != nil),
		zap.Bool("staking", a.Staking != nil),
		zap.Bool("pools", a.Pools != nil),
		zap.Bool("history", a.Storage != nil))
	return a, nil
}

func evmConfig(cfg *config.Config) evm.Config {
	return evm.Config{
		RPCURL:     cfg.RPCURL,
		PrivateKey: cfg.PrivateKey,
		ChainID:    cfg.ChainID,
		Contracts: evm.Contracts{
			Presale:      cfg.Contracts.Presale,
			PresaleToken: cfg.Contracts.PresaleToken,
			Stable:       cfg.Contracts.Stable,
			Staking:      cfg.Contracts.Staking,
			NFT:          cfg.Contracts.NFT,
			PoolFactory:  cfg.Contracts.PoolFactory,
		},
		StakingPageSize: cfg.Staking.PageSize,
	}
}

// rewardSource quotes the reward token from the price API when one is
// configured, else from the fixed calculator price.
func rewardSource(cfg *config.Config) price.Source {
	if cfg.Price.URL == "" {
		return price.StaticSource(cfg.Rewards.TokenPrice)
	}
	return price.NewHTTPSource(cfg.Price.URL, price.ParseKeyPath(cfg.Price.KeyPath), cfg.Price.Timeout)
}

func (a *App) RequirePresale() (*presale.Service, error) {
	if a.Presale == nil {
		return nil, ErrPresaleDisabled
	}
	return a.Presale, nil
}

func (a *App) RequireStaking() (*staking.Service, error) {
	if a.Staking == nil {
		return nil, ErrStakingDisabled
	}
	return a.Staking, nil
}

func (a *App) RequirePools() (*pools.Service, error) {
	if a.Pools == nil {
		return nil, ErrPoolsDisabled
	}
	return a.Pools, nil
}

func (a *App) RequireStorage() (storage.Storage, error) {
	if a.Storage == nil {
		return nil, ErrStorageDisabled
	}
	return a.Storage, nil
}

// Watch runs the price pollers and every configured refresh loop until ctx ends.
func (a *App) Watch(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	for _, f := range []*price.Fetcher{a.NativePrice, a.RewardPrice} {
		poller := price.NewPoller(gCtx, f, a.Bus, a.Logger)
		g.Go(func() error {
			poller.Start()
			return nil
		})
	}
	if a.Presale != nil {
		g.Go(func() error { return a.Presale.Run(gCtx) })
	}
	if a.Staking != nil {
		g.Go(func() error { return a.Staking.Run(gCtx) })
	}
	return g.Wait()
}

// RefreshAll runs one refresh of every configured read model.
func (a *App) RefreshAll(ctx context.Context) error {
	var errs []error
	if a.Presale != nil {
		if _, err := a.Presale.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("presale: %w", err))
		}
	}
	if a.Staking != nil {
		if _, err := a.Staking.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("staking: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Close() error {
	return a.shutdown.Shutdown(context.Background())
}
