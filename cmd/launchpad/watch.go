package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/app"
	"github.com/rovshanmuradov/launchpad/internal/logger"
	"github.com/rovshanmuradov/launchpad/internal/ui"
)

const (
	logBufferSize = 500
	updateBuffer  = 128
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "open the live presale and staking dashboard",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			buf := logger.NewBuffer(logBufferSize)
			log, err := newLogger(cmd, cfg, false, buf)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(ctx, cfg, log.WithComponent("watch"))
			if err != nil {
				return err
			}
			defer a.Close()

			target, _, _ := cfg.Presale.Target()
			sender := ui.NewUpdateSender(make(chan tea.Msg, updateBuffer), log.Logger)
			defer sender.Close()
			bridge := ui.NewBridge(sender)
			bridge.Attach(a.Bus)
			defer bridge.Detach()

			network := "read-only"
			if a.Client != nil {
				network = fmt.Sprintf("chain %s", a.Client.ChainID())
			}
			account := cfg.Account
			if a.Client != nil && a.Client.Account() != "" {
				account = string(a.Client.Account())
			}

			createUI := func() (tea.Model, []tea.ProgramOption) {
				return ui.NewDashboard(ui.DashboardConfig{
					Network: network,
					Account: account,
					Target:  target,
					Refresh: a.RefreshAll,
					Updates: sender.Updates(),
					Logs:    buf,
					Logger:  log.Logger,
				}), []tea.ProgramOption{tea.WithAltScreen()}
			}

			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			g, gCtx := errgroup.WithContext(watchCtx)
			g.Go(func() error {
				return a.Watch(gCtx)
			})
			g.Go(func() error {
				defer cancel()
				return ui.NewRecoveryHandler(log.Logger, createUI).Run(gCtx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Dashboard stopped with error", zap.Error(err))
				return err
			}
			log.Info("Dashboard closed")
			return nil
		},
	}
}
