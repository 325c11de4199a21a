package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rovshanmuradov/launchpad/internal/app"
	"github.com/rovshanmuradov/launchpad/internal/export"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/pools"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/staking"
	"github.com/rovshanmuradov/launchpad/internal/ui/component"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

func presaleCommand() *cli.Command {
	return &cli.Command{
		Name:  "presale",
		Usage: "show the presale status and the account's position",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePresale()
			if err != nil {
				return err
			}
			snap, err := svc.Refresh(ctx)
			if err != nil {
				return err
			}
			return printPresale(out(cmd), snap)
		}),
	}
}

func printPresale(w io.Writer, s presale.Snapshot) error {
	t := newTable(w)
	t.row("Phase", s.Phase())
	if !s.Parameters.EndDate.IsZero() {
		t.row("Ends", s.Parameters.EndDate.UTC().Format(time.RFC3339))
	}
	t.row("Time left", component.CountdownText(s.TimeLeft))
	t.row("Raised", units.FormatUSD(s.Parameters.PresaleRaised))
	t.row("Soft cap", fmt.Sprintf("%s (%s, reached: %s)",
		units.FormatUSD(s.Parameters.SoftCap), units.FormatPercent(s.SoftCapProgress), yesNo(s.SoftCapReached)))
	t.row("Hard cap", units.FormatUSD(s.Parameters.HardCap))
	t.row("Tokens offered", units.FormatAmount(s.Parameters.PresaleOffered, 2))
	t.row("Native price", units.FormatUSD(s.NativePriceUSD))
	if s.Account != "" {
		t.row("Account", string(s.Account))
		t.row("Contributed", fmt.Sprintf("%s native + %s stable",
			units.FormatAmount(s.Contribution.Native, 6), units.FormatAmount(s.Contribution.Stable, 2)))
		t.row("Contribution", fmt.Sprintf("%s (%s)",
			units.FormatUSD(s.Position.ContributionUSD), units.FormatPercent(s.Position.ContributionPercentage)))
		t.row("Expected tokens", units.FormatAmount(s.Position.ExpectedTokens, 2))
	}
	for _, readErr := range s.ReadErrors {
		t.row("Stale", readErr)
	}
	return t.flush()
}

func deploymentCommand() *cli.Command {
	return &cli.Command{
		Name:  "deployment",
		Usage: "show launch prices, liquidity and the supply allocation",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePresale()
			if err != nil {
				return err
			}
			snap, err := svc.Refresh(ctx)
			if err != nil {
				return err
			}
			return printDeployment(out(cmd), snap.Parameters, snap.Metrics)
		}),
	}
}

func printDeployment(w io.Writer, p presale.Parameters, m metrics.DeploymentMetrics) error {
	t := newTable(w)
	t.row("Total supply", units.FormatAmount(p.TotalSupply, 2))
	t.row("Unreleased tokens", units.FormatAmount(m.UnreleasedTokens, 2))
	t.row("To be released", units.FormatAmount(m.ToBeReleasedTokens, 2))
	t.row("Min launch price", units.FormatCompactPrice(m.MinLaunchPrice, 4))
	t.row("Launch price", units.FormatCompactPrice(m.ActualLaunchPrice, 4))
	t.row("Liquidity value", units.FormatUSD(m.TotalLiquidityValue))
	t.row("Market cap", units.FormatUSD(m.MarketCap))
	t.row("")
	for _, slice := range component.AllocationSlices(m.Allocation) {
		t.row(slice.Label, units.FormatPercent(slice.Percent))
	}
	for _, warning := range m.Warnings {
		t.row("Warning", warning)
	}
	return t.flush()
}

func contributorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "contributors",
		Usage: "list contributors by USD contribution, optionally exporting them",
		Flags: exportFlags(),
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePresale()
			if err != nil {
				return err
			}
			shares, err := svc.Contributors(ctx)
			if err != nil {
				return err
			}

			w := out(cmd)
			if cmd.String("export") != "" {
				opts, err := exportOptions(cmd)
				if err != nil {
					return err
				}
				path, err := export.NewExporter(a.Logger).ExportContributors(shares, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "exported to", path)
				return nil
			}
			return printContributors(w, shares, int(cmd.Int("limit")))
		}),
	}
}

func printContributors(w io.Writer, shares []metrics.ContributorShare, limit int) error {
	summary := export.Summarize(shares)
	t := newTable(w)
	t.row("#", "Address", "USD", "Share")
	for i, s := range shares {
		if limit > 0 && i >= limit {
			break
		}
		t.row(fmt.Sprint(i+1), s.Address, units.FormatUSD(s.ContributionUSD), units.FormatPercent(s.Percentage))
	}
	if err := t.flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d contributors, %s total, top ten hold %s\n",
		summary.Contributors, units.FormatUSD(summary.TotalUSD), units.FormatPercent(summary.TopTenShare))
	return err
}

func historyCommand() *cli.Command {
	flags := append(exportFlags(), &cli.BoolFlag{
		Name:  "actions",
		Usage: "list recorded actions instead of snapshots",
	})
	return &cli.Command{
		Name:  "history",
		Usage: "show recorded presale snapshots or actions",
		Flags: flags,
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			store, err := a.RequireStorage()
			if err != nil {
				return err
			}
			limit := int(cmd.Int("limit"))
			if limit <= 0 {
				limit = 20
			}
			w := out(cmd)

			if cmd.Bool("actions") {
				actions, err := store.RecentActions(ctx, limit)
				if err != nil {
					return err
				}
				t := newTable(w)
				t.row("Time", "Action", "Status", "Tx", "Error")
				for _, act := range actions {
					t.row(act.OccurredAt.UTC().Format(time.RFC3339), act.Action, act.Status, act.TxHash, act.ErrorMessage)
				}
				return t.flush()
			}

			snaps, err := store.RecentSnapshots(ctx, limit)
			if err != nil {
				return err
			}
			if cmd.String("export") != "" {
				opts, err := exportOptions(cmd)
				if err != nil {
					return err
				}
				path, err := export.NewExporter(a.Logger).ExportSnapshots(snaps, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "exported to", path)
				return nil
			}
			t := newTable(w)
			t.row("Time", "Phase", "Raised", "Launch price", "Market cap", "Soft cap")
			for _, s := range snaps {
				t.row(s.TakenAt.UTC().Format(time.RFC3339), s.Phase, units.FormatUSD(s.PresaleRaised),
					units.FormatCompactPrice(s.LaunchPrice, 4), units.FormatUSD(s.MarketCap), units.FormatPercent(s.SoftCapProgress))
			}
			return t.flush()
		}),
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "export", Usage: "write a csv or json file instead of printing"},
		&cli.StringFlag{Name: "out", Value: ".", Usage: "export directory"},
		&cli.FloatFlag{Name: "min-usd", Usage: "skip contributors below this USD amount"},
		&cli.IntFlag{Name: "limit", Usage: "maximum rows to print"},
	}
}

func exportOptions(cmd *cli.Command) (export.ExportOptions, error) {
	format, err := export.ParseFormat(cmd.String("export"))
	if err != nil {
		return export.ExportOptions{}, err
	}
	return export.ExportOptions{
		Format:    format,
		OutputDir: cmd.String("out"),
		MinUSD:    cmd.Float("min-usd"),
	}, nil
}

func stakingCommand() *cli.Command {
	return &cli.Command{
		Name:  "staking",
		Usage: "show staked NFTs, pending rewards and the pool timeline",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequireStaking()
			if err != nil {
				return err
			}
			pos, err := svc.Refresh(ctx)
			if err != nil {
				return err
			}
			return printStaking(out(cmd), pos)
		}),
	}
}

func printStaking(w io.Writer, p staking.Position) error {
	t := newTable(w)
	if p.Holder != "" {
		t.row("Holder", string(p.Holder))
	}
	t.row("Owned", fmt.Sprint(p.Owned))
	t.row("Staked", fmt.Sprintf("%v (%d)", p.Staked, p.StakedCount))
	t.row("Approved for staking", yesNo(p.ApprovedAll))
	t.row("Reward price", units.FormatCompactPrice(p.RewardTokenPrice, 4))
	t.row("Pending reward", fmt.Sprintf("%s (%s)", units.FormatAmount(p.PendingReward, 4), units.FormatUSD(p.PendingRewardUSD)))
	t.row("Pool balance", fmt.Sprintf("%s (%s)", units.FormatAmount(p.PoolBalance, 2), units.FormatUSD(p.PoolBalanceUSD)))
	t.row("Blocks", fmt.Sprintf("%d / %d", p.Timeline.CurrentBlock, p.Timeline.EndBlock))
	if p.Timeline.Exceeded {
		t.row("Rewards", "ended")
	} else {
		t.row("Remaining blocks", fmt.Sprint(p.Timeline.RemainingBlocks))
		t.row("Estimated end", p.Timeline.EstimatedEnd.UTC().Format(time.RFC3339))
	}
	return t.flush()
}

func poolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "pools",
		Usage: "list deployed pools and the deployment fee",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePools()
			if err != nil {
				return err
			}
			o, err := svc.Overview(ctx)
			if err != nil {
				return err
			}
			return printPools(out(cmd), o)
		}),
	}
}

func printPools(w io.Writer, o pools.Overview) error {
	t := newTable(w)
	t.row("Deployment fee", units.FormatAmount(o.Fee, 6))
	t.row("Account balance", units.FormatAmount(o.AccountBalance, 6))
	t.row("Factory balance", units.FormatAmount(o.FactoryBalance, 6))
	t.row("Pools", fmt.Sprint(len(o.Pools)))
	for i, addr := range o.Pools {
		t.row(fmt.Sprintf("  %d", i+1), string(addr))
	}
	return t.flush()
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "quote the native coin and the reward token",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			t := newTable(out(cmd))
			for _, f := range []interface {
				Name() string
				Get(context.Context) (float64, bool)
			}{a.NativePrice, a.RewardPrice} {
				v, cached := f.Get(ctx)
				note := ""
				if cached {
					note = "cached"
				}
				t.row(f.Name(), units.FormatCompactPrice(v, 4), note)
			}
			return t.flush()
		}),
	}
}

func supplyCommand() *cli.Command {
	return &cli.Command{
		Name:      "supply",
		Usage:     "read the Solana mint supply, and an owner's balance when given",
		ArgsUsage: "[owner]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "decimals", Value: 9, Usage: "mint decimals"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			if a.Solana == nil {
				return app.ErrSolanaDisabled
			}
			mint := ledger.Address(a.Config.Solana.Mint)
			decimals := int(cmd.Int("decimals"))

			supply, err := a.Solana.ReadTotalSupply(ctx, mint)
			if err != nil {
				return err
			}
			t := newTable(out(cmd))
			t.row("Mint", string(mint))
			t.row("Supply", units.FormatAmount(units.Normalize(supply, decimals), 4))
			if owner := cmd.Args().First(); owner != "" {
				balance, err := a.Solana.ReadBalance(ctx, mint, ledger.Address(owner))
				if err != nil {
					return err
				}
				t.row("Balance", units.FormatAmount(units.Normalize(balance, decimals), 4))
			}
			return t.flush()
		}),
	}
}
