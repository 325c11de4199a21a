package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/app"
	"github.com/rovshanmuradov/launchpad/internal/config"
	"github.com/rovshanmuradov/launchpad/internal/logger"
	"github.com/rovshanmuradov/launchpad/internal/presale"
)

type actionFunc = func(ctx context.Context, cmd *cli.Command) error

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to the configured log file. Console output is opt-in so it
// does not interleave with command output; buf, when set, feeds the dashboard.
func newLogger(cmd *cli.Command, cfg *config.Config, console bool, buf *logger.Buffer) (*logger.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.Log.File
	logCfg.Development = cfg.Log.Development || cmd.Bool("debug")
	logCfg.Console = console
	logCfg.Buffer = buf
	return logger.New(logCfg)
}

// withApp loads the configuration, connects and hands the session to fn.
func withApp(fn func(ctx context.Context, cmd *cli.Command, a *app.App) error) actionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, cfg, cmd.Bool("verbose"), nil)
		if err != nil {
			return err
		}
		defer log.Sync()
		defer log.TrackPerformance(cmd.Name)()

		a, err := app.New(ctx, cfg, log.WithOperation(cmd.Name))
		if err != nil {
			log.Error("Failed to start session", zap.Error(err))
			return err
		}
		defer a.Close()

		return fn(ctx, cmd, a)
	}
}

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// table prints aligned label/value rows.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// parseIDs reads the token ids given as arguments.
func parseIDs(args []string) ([]uint64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one token id is required")
	}
	ids := make([]uint64, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one token id is required")
	}
	return ids, nil
}

// report prints the outcome of a presale action and returns its error.
func report(w io.Writer, res presale.ActionResult) error {
	if res.Err != nil {
		return fmt.Errorf("%s: %w", res.Action, res.Err)
	}
	fmt.Fprintf(w, "%s confirmed: %s\n", res.Action, res.TxHash)
	return nil
}
