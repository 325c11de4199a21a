package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/rovshanmuradov/launchpad/internal/config"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

// The calculators run offline; they read the config but never connect.

func rewardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rewards",
		Usage: "project daily staking rewards for a fixed per-block emission",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "per-block", Usage: "reward per block in the smallest unit"},
			&cli.IntFlag{Name: "decimals", Usage: "reward token decimals"},
			&cli.FloatFlag{Name: "price", Usage: "reward token price in USD"},
			&cli.FloatFlag{Name: "block-time", Usage: "seconds per block"},
			&cli.FloatFlag{Name: "total", Usage: "whole tokens available to the pool"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := metrics.RewardRate(rewardInputs(cmd, cfg.Rewards))
			if err != nil {
				return err
			}
			return printRewards(out(cmd), p)
		},
	}
}

// rewardInputs starts from the config and applies the flags that were set.
func rewardInputs(cmd *cli.Command, rc config.RewardsConfig) metrics.RewardInputs {
	in := metrics.RewardInputs{
		RewardPerBlockRaw: rc.TokenPerBlockRaw,
		Decimals:          rc.Decimals,
		TokenPrice:        rc.TokenPrice,
		SecondsPerBlock:   rc.BlockTime,
		TotalPoolTokens:   rc.TotalTokens,
	}
	if cmd.IsSet("per-block") {
		in.RewardPerBlockRaw = cmd.String("per-block")
	}
	if cmd.IsSet("decimals") {
		in.Decimals = int(cmd.Int("decimals"))
	}
	if cmd.IsSet("price") {
		in.TokenPrice = cmd.Float("price")
	}
	if cmd.IsSet("block-time") {
		in.SecondsPerBlock = cmd.Float("block-time")
	}
	if cmd.IsSet("total") {
		in.TotalPoolTokens = cmd.Float("total")
	}
	return in
}

func printRewards(w io.Writer, p metrics.RewardProjection) error {
	t := newTable(w)
	t.row("Tokens per block", units.FormatAmount(p.TokenPerBlock, 9))
	t.row("Blocks per day", units.FormatAmount(p.BlocksPerDay, 0))
	t.row("Rewards per day", units.FormatAmount(p.RewardsPerDay, 4))
	t.row("USD per day", units.FormatUSD(p.USDPerDay))
	t.row("Days to earn $1", units.FormatAmount(p.DaysToEarnOneDollar, 4))
	t.row("Days the pool can run", units.FormatAmount(p.DaysPoolCanRun, 2))
	return t.flush()
}

func planCommand() *cli.Command {
	defaults := metrics.DefaultPlannerInputs()
	return &cli.Command{
		Name:  "plan",
		Usage: "estimate presale and launch figures before deployment",
		Flags: []cli.Flag{
			&cli.FloatFlag{Name: "total", Usage: "total token supply"},
			&cli.FloatFlag{Name: "released", Usage: "percent of supply released at launch"},
			&cli.FloatFlag{Name: "presale", Usage: "percent of supply sold in the presale"},
			&cli.FloatFlag{Name: "liquidity", Value: defaults.LiquidityPercent, Usage: "percent of launch value sent to liquidity"},
			&cli.FloatFlag{Name: "boost", Usage: "owner liquidity boost in USD"},
			&cli.FloatFlag{Name: "earnings", Usage: "expected presale earnings in USD"},
			&cli.FloatFlag{Name: "min-soft-cap", Usage: "soft cap in USD"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := metrics.PlanTokenomics(metrics.PlannerInputs{
				TotalTokens:       cmd.Float("total"),
				PercentReleased:   cmd.Float("released"),
				PresalePercentage: cmd.Float("presale"),
				LiquidityPercent:  cmd.Float("liquidity"),
				OwnerBoostUSD:     cmd.Float("boost"),
				PresaleEarnings:   cmd.Float("earnings"),
				MinSoftCap:        cmd.Float("min-soft-cap"),
			})
			return printPlan(out(cmd), p)
		},
	}
}

func printPlan(w io.Writer, p metrics.TokenomicsPlan) error {
	t := newTable(w)
	t.row("Presale tokens", units.FormatAmount(p.PresaleTokens, 0))
	t.row("Presale price", units.FormatCompactPrice(p.PresalePrice, 4))
	t.row("Released tokens", units.FormatAmount(p.ReleasedTokens, 0))
	t.row("Launch price", units.FormatCompactPrice(p.LaunchPrice, 4))
	t.row("Liquidity value", units.FormatUSD(p.LiquidityValue))
	t.row("DEX liquidity", fmt.Sprintf("%s tokens + %s", units.FormatAmount(p.DexLiquidityTokens, 0), units.FormatUSD(p.DexLiquidityUSD)))
	t.row("FDV", units.FormatUSD(p.FDV))
	t.row("Market cap", units.FormatUSD(p.MarketCap))
	t.row("Tokens per $100 presale", units.FormatAmount(p.TokensPer100Presale, 0))
	t.row("Tokens per $100 launch", units.FormatAmount(p.TokensPer100Launch, 0))
	t.row("Soft cap reached", yesNo(p.SoftCapReached))
	return t.flush()
}
