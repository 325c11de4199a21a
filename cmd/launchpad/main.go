package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "launchpad",
		Usage:  "presale, staking and pool factory client",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML/JSON/TOML config file; LAUNCHPAD_* variables override it",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "also print log entries to stdout",
			},
		},
		Commands: []*cli.Command{
			watchCommand(),
			presaleCommand(),
			deploymentCommand(),
			contributorsCommand(),
			historyCommand(),
			stakingCommand(),
			poolsCommand(),
			priceCommand(),
			supplyCommand(),
			rewardsCommand(),
			planCommand(),
			contributeCommand(),
			approveCommand(),
			claimCommand(),
			stakeCommand(),
			withdrawCommand(),
			adminCommand(),
		},
	}
}
