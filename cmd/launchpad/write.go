package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/urfave/cli/v3"

	"github.com/rovshanmuradov/launchpad/internal/app"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

func contributeCommand() *cli.Command {
	return &cli.Command{
		Name:      "contribute",
		Usage:     "contribute native coins, or stablecoins with --stable",
		ArgsUsage: "<amount>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stable", Usage: "contribute stablecoins; approve first"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePresale()
			if err != nil {
				return err
			}
			amount := cmd.Args().First()
			if amount == "" {
				return presale.ErrInvalidAmount
			}
			if cmd.Bool("stable") {
				return report(out(cmd), svc.ContributeStable(ctx, amount))
			}
			return report(out(cmd), svc.ContributeNative(ctx, amount))
		}),
	}
}

func approveCommand() *cli.Command {
	return &cli.Command{
		Name:      "approve",
		Usage:     "approve the presale to spend stablecoins, unlimited when no amount is given",
		ArgsUsage: "[amount]",
		Action: presaleAction(func(ctx context.Context, cmd *cli.Command, svc *presale.Service) presale.ActionResult {
			return svc.ApproveStable(ctx, cmd.Args().First())
		}),
	}
}

func claimCommand() *cli.Command {
	return &cli.Command{
		Name:  "claim",
		Usage: "claim tokens, or refund when the presale was cancelled",
		Action: presaleAction(func(ctx context.Context, _ *cli.Command, svc *presale.Service) presale.ActionResult {
			return svc.ClaimOrRefund(ctx)
		}),
	}
}

func stakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "stake",
		Usage:     "stake NFTs by token id",
		ArgsUsage: "<id>...",
		Action:    stakingAction("stake"),
	}
}

func withdrawCommand() *cli.Command {
	return &cli.Command{
		Name:      "withdraw",
		Usage:     "withdraw staked NFTs by token id",
		ArgsUsage: "<id>...",
		Action:    stakingAction("withdraw"),
	}
}

func stakingAction(action string) actionFunc {
	return withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
		ids, err := parseIDs(cmd.Args().Slice())
		if err != nil {
			return err
		}
		svc, err := a.RequireStaking()
		if err != nil {
			return err
		}

		var tx ledger.TxResult
		if action == "stake" {
			tx, err = svc.Stake(ctx, ids)
		} else {
			tx, err = svc.Withdraw(ctx, ids)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "%s confirmed: %s\n", action, tx.Hash)
		return nil
	})
}

func presaleAction(fn func(ctx context.Context, cmd *cli.Command, svc *presale.Service) presale.ActionResult) actionFunc {
	return withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
		svc, err := a.RequirePresale()
		if err != nil {
			return err
		}
		return report(out(cmd), fn(ctx, cmd, svc))
	})
}

func adminCommand() *cli.Command {
	simple := func(name, usage string, fn func(*presale.Service, context.Context) presale.ActionResult) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Action: presaleAction(func(ctx context.Context, _ *cli.Command, svc *presale.Service) presale.ActionResult {
				return fn(svc, ctx)
			}),
		}
	}

	return &cli.Command{
		Name:  "admin",
		Usage: "owner-only presale and pool factory actions",
		Commands: []*cli.Command{
			simple("enable-claim", "open token claims", (*presale.Service).EnableClaim),
			simple("end", "end the presale", (*presale.Service).EndPresale),
			simple("cancel", "cancel the presale and allow refunds", (*presale.Service).CancelPresale),
			simple("withdraw-contributions", "withdraw raised funds", (*presale.Service).WithdrawContributions),
			simple("withdraw-tokens", "withdraw unsold tokens", (*presale.Service).WithdrawRemainingTokens),
			simple("fund", "transfer the offered tokens to the presale", (*presale.Service).FundPresale),
			updateParamsCommand(),
			deployPoolCommand("deploy-pool", "deploy a staking pool, paying the current fee", false),
			deployPoolCommand("admin-deploy", "deploy a staking pool without a fee", true),
			updateFeeCommand(),
			withdrawFundsCommand(),
		},
	}
}

func updateParamsCommand() *cli.Command {
	names := []string{"liquidity-tokens", "liquidity-usd", "burn", "dev-marketing", "hard-cap", "soft-cap", "offered"}
	flags := make([]cli.Flag, 0, len(names))
	for _, name := range names {
		flags = append(flags, &cli.StringFlag{Name: name, Required: true})
	}
	return &cli.Command{
		Name:  "update-params",
		Usage: "set the presale parameters; token figures in whole tokens, USD figures in dollars",
		Flags: flags,
		Action: presaleAction(func(ctx context.Context, cmd *cli.Command, svc *presale.Service) presale.ActionResult {
			return svc.UpdateParameters(ctx, presale.ParameterInput{
				LiquidityPoolTokens: cmd.String("liquidity-tokens"),
				LiquidityInUSD:      cmd.String("liquidity-usd"),
				BurnTokens:          cmd.String("burn"),
				DevMarketingTokens:  cmd.String("dev-marketing"),
				HardCapUSD:          cmd.String("hard-cap"),
				SoftCapUSD:          cmd.String("soft-cap"),
				PresaleOffered:      cmd.String("offered"),
			})
		}),
	}
}

var poolAddressFlags = []string{"staked-token", "reward-token", "admin", "project-tax-address", "tax-address"}

var poolAmountFlags = []string{"reward-per-block", "start-block", "bonus-end-block", "pool-limit", "tax", "project-tax"}

func deployPoolCommand(name, usage string, withoutFee bool) *cli.Command {
	var flags []cli.Flag
	for _, f := range poolAddressFlags {
		flags = append(flags, &cli.StringFlag{Name: f, Required: true})
	}
	for _, f := range poolAmountFlags {
		flags = append(flags, &cli.StringFlag{Name: f, Value: "0", Usage: "integer in the smallest unit"})
	}

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePools()
			if err != nil {
				return err
			}
			p, err := poolDeployment(cmd.String)
			if err != nil {
				return err
			}

			var tx ledger.TxResult
			if withoutFee {
				tx, err = svc.AdminDeploy(ctx, p)
			} else {
				tx, err = svc.Deploy(ctx, p)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "pool deployed: %s\n", tx.Hash)
			return nil
		}),
	}
}

// poolDeployment reads the deployment arguments through get, which returns a
// flag value by name.
func poolDeployment(get func(name string) string) (ledger.PoolDeployment, error) {
	amounts := make(map[string]*big.Int, len(poolAmountFlags))
	for _, name := range poolAmountFlags {
		v, err := units.ParseRaw(get(name))
		if err != nil {
			return ledger.PoolDeployment{}, fmt.Errorf("--%s: %w", name, err)
		}
		amounts[name] = v
	}
	for _, name := range poolAddressFlags {
		if get(name) == "" {
			return ledger.PoolDeployment{}, fmt.Errorf("--%s is required", name)
		}
	}

	return ledger.PoolDeployment{
		StakedToken:       ledger.Address(get("staked-token")),
		RewardToken:       ledger.Address(get("reward-token")),
		Admin:             ledger.Address(get("admin")),
		ProjectTaxAddress: ledger.Address(get("project-tax-address")),
		TaxAddress:        ledger.Address(get("tax-address")),
		RewardPerBlock:    amounts["reward-per-block"],
		StartBlock:        amounts["start-block"],
		BonusEndBlock:     amounts["bonus-end-block"],
		PoolLimitPerUser:  amounts["pool-limit"],
		Tax:               amounts["tax"],
		ProjectTax:        amounts["project-tax"],
	}, nil
}

func updateFeeCommand() *cli.Command {
	return &cli.Command{
		Name:      "update-fee",
		Usage:     "set the pool deployment fee in whole native coins",
		ArgsUsage: "<fee>",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePools()
			if err != nil {
				return err
			}
			tx, err := svc.UpdateFee(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "fee updated: %s\n", tx.Hash)
			return nil
		}),
	}
}

func withdrawFundsCommand() *cli.Command {
	return &cli.Command{
		Name:  "withdraw-funds",
		Usage: "withdraw collected deployment fees",
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			svc, err := a.RequirePools()
			if err != nil {
				return err
			}
			tx, err := svc.WithdrawFunds(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "funds withdrawn: %s\n", tx.Hash)
			return nil
		}),
	}
}
