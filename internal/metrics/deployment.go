// internal/metrics/deployment.go
package metrics

// DeploymentInputs are the normalized presale figures feeding the deployment calculator.
type DeploymentInputs struct {
	TotalSupply    float64 // token total supply, whole tokens
	Burn           float64
	LiquidityPool  float64 // tokens seeded into the LP at launch
	DevMarketing   float64
	PresaleOffered float64
	PresaleRaised  float64 // USD
	SoftCap        float64 // USD
	HardCap        float64 // USD
	LiquidityInUSD float64 // owner-provided boost, USD
}

// Allocation is the supply breakdown expressed as percent of total supply.
type Allocation struct {
	Burn          float64
	LiquidityPool float64
	Presale       float64
	DevMarketing  float64
	Unreleased    float64
	ToBeReleased  float64
}

// DeploymentMetrics is the presentation-ready result of one computation.
type DeploymentMetrics struct {
	UnreleasedTokens    float64
	ToBeReleasedTokens  float64
	MinLaunchPrice      float64
	ActualLaunchPrice   float64
	TotalLiquidityValue float64
	MarketCap           float64
	Allocation          Allocation
	Warnings            []string
}

const (
	WarnNegativeUnreleased = "allocations exceed total supply: unreleased tokens are negative"
	WarnZeroSupply         = "total supply is zero: percentages are undefined"
	WarnNoLiquidityPrice   = "minimum launch price not computable: liquidity tokens or liquidity value is zero"
)

// ComputeDeployment runs the calculation steps in order; later steps use the
// values of earlier ones. previousMin is reported when the inputs cannot
// produce a minimum launch price. No clamping is applied: out-of-range inputs
// show up in the result and in Warnings.
func ComputeDeployment(in DeploymentInputs, previousMin float64) DeploymentMetrics {
	var m DeploymentMetrics

	m.UnreleasedTokens = in.TotalSupply - in.Burn - in.LiquidityPool - in.PresaleOffered - in.DevMarketing
	m.ToBeReleasedTokens = in.TotalSupply - m.UnreleasedTokens
	if m.UnreleasedTokens < 0 {
		m.Warnings = append(m.Warnings, WarnNegativeUnreleased)
	}

	initialLiquidity := in.LiquidityInUSD + in.SoftCap
	m.MinLaunchPrice = previousMin
	if initialLiquidity > 0 && in.LiquidityPool > 0 {
		m.MinLaunchPrice = initialLiquidity / in.LiquidityPool
	} else {
		m.Warnings = append(m.Warnings, WarnNoLiquidityPrice)
	}

	m.ActualLaunchPrice = LaunchPrice(m.MinLaunchPrice, in.PresaleRaised, in.SoftCap, in.PresaleOffered)
	m.TotalLiquidityValue = m.ActualLaunchPrice * (in.LiquidityPool + in.PresaleOffered)
	m.MarketCap = m.ActualLaunchPrice * in.TotalSupply

	if in.TotalSupply == 0 {
		m.Warnings = append(m.Warnings, WarnZeroSupply)
	}
	m.Allocation = Allocation{
		Burn:          Percent(in.Burn, in.TotalSupply),
		LiquidityPool: Percent(in.LiquidityPool, in.TotalSupply),
		Presale:       Percent(in.PresaleOffered, in.TotalSupply),
		DevMarketing:  Percent(in.DevMarketing, in.TotalSupply),
		Unreleased:    Percent(m.UnreleasedTokens, in.TotalSupply),
		ToBeReleased:  Percent(m.ToBeReleasedTokens, in.TotalSupply),
	}

	return m
}

// LaunchPrice applies the linear bonding-curve adjustment: every dollar raised
// above the soft cap adds raisedOver/presaleOffered to the minimum price.
func LaunchPrice(minPrice, raised, softCap, presaleOffered float64) float64 {
	if raised > softCap && presaleOffered > 0 {
		return minPrice + (raised-softCap)/presaleOffered
	}
	return minPrice
}

// Percent is part / whole x 100 with no zero guard.
func Percent(part, whole float64) float64 {
	return part / whole * 100
}
