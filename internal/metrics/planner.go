package metrics

import "math"

// PlannerInputs drive the pre-launch tokenomics planner. Percentages are 0..100.
type PlannerInputs struct {
	TotalTokens       float64
	PercentReleased   float64
	PresalePercentage float64
	LiquidityPercent  float64
	OwnerBoostUSD     float64
	PresaleEarnings   float64 // USD
	MinSoftCap        float64 // USD
}

// DefaultPlannerInputs sends all launch value to liquidity.
func DefaultPlannerInputs() PlannerInputs {
	return PlannerInputs{LiquidityPercent: 100}
}

// TokenomicsPlan is the planner output. Token counts and USD totals are floored
// to whole units, prices are not.
type TokenomicsPlan struct {
	PresaleTokens       float64
	PresalePrice        float64
	ReleasedTokens      float64
	LaunchPrice         float64
	LiquidityValue      float64 // both sides of the pair
	DexLiquidityTokens  float64
	DexLiquidityUSD     float64
	FDV                 float64
	MarketCap           float64
	TokensPer100Presale float64
	TokensPer100Launch  float64
	SoftCapReached      bool
}

// PlanTokenomics estimates presale and launch figures before any contract exists.
// Zero token counts produce Inf/NaN prices, which propagate unchanged.
func PlanTokenomics(in PlannerInputs) TokenomicsPlan {
	var p TokenomicsPlan

	p.PresaleTokens = math.Floor(in.TotalTokens * (in.PresalePercentage / 100))
	p.PresalePrice = in.PresaleEarnings / p.PresaleTokens

	p.ReleasedTokens = math.Floor(in.TotalTokens * (in.PercentReleased / 100))
	launchValue := in.OwnerBoostUSD + in.PresaleEarnings
	p.LaunchPrice = launchValue / p.ReleasedTokens

	single := launchValue * (in.LiquidityPercent / 100)
	p.LiquidityValue = 2 * single
	p.DexLiquidityTokens = math.Floor(single / p.LaunchPrice)
	p.DexLiquidityUSD = math.Floor(single)

	p.FDV = math.Floor(2 * (in.TotalTokens * p.LaunchPrice))
	p.MarketCap = math.Floor(2 * (p.ReleasedTokens * p.LaunchPrice))

	p.SoftCapReached = in.PresaleEarnings >= in.MinSoftCap

	p.TokensPer100Presale = math.Floor(100 / p.PresalePrice)
	p.TokensPer100Launch = math.Floor(100 / p.LaunchPrice)

	return p
}
