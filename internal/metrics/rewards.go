package metrics

import (
	"fmt"

	"github.com/rovshanmuradov/launchpad/internal/units"
)

const secondsPerDay = 86400

// RewardInputs describe a staking pool emitting a fixed reward per block.
type RewardInputs struct {
	RewardPerBlockRaw string  // smallest-unit integer string
	Decimals          int     // reward token decimals
	TokenPrice        float64 // USD
	SecondsPerBlock   float64
	TotalPoolTokens   float64 // whole tokens available to the pool
}

// DefaultRewardInputs are the reward calculator defaults (9-decimal token on a 2s chain).
func DefaultRewardInputs() RewardInputs {
	return RewardInputs{
		RewardPerBlockRaw: "9000000",
		Decimals:          9,
		TokenPrice:        0.015,
		SecondsPerBlock:   2,
		TotalPoolTokens:   1000000,
	}
}

// RewardProjection holds daily emission figures for a reward pool.
type RewardProjection struct {
	TokenPerBlock       float64
	BlocksPerDay        float64
	RewardsPerDay       float64
	USDPerDay           float64
	DaysToEarnOneDollar float64
	DaysPoolCanRun      float64
}

// RewardRate projects daily rewards. Division by zero is not guarded and yields
// +Inf or NaN, e.g. DaysToEarnOneDollar is +Inf when the token price is zero.
func RewardRate(in RewardInputs) (RewardProjection, error) {
	tokenPerBlock, err := units.NormalizeString(in.RewardPerBlockRaw, in.Decimals)
	if err != nil {
		return RewardProjection{}, fmt.Errorf("reward per block: %w", err)
	}

	var p RewardProjection
	p.TokenPerBlock = tokenPerBlock
	p.BlocksPerDay = secondsPerDay / in.SecondsPerBlock
	p.RewardsPerDay = p.TokenPerBlock * p.BlocksPerDay
	p.USDPerDay = p.RewardsPerDay * in.TokenPrice
	p.DaysToEarnOneDollar = 1 / p.USDPerDay

	// Both sides are scaled to the smallest unit; the factor cancels out.
	scale := units.Pow10(in.Decimals)
	p.DaysPoolCanRun = (in.TotalPoolTokens * scale) / (p.RewardsPerDay * scale)

	return p, nil
}
