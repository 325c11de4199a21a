package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDeployment() DeploymentInputs {
	return DeploymentInputs{
		TotalSupply:    1000000,
		Burn:           50000,
		LiquidityPool:  200000,
		PresaleOffered: 100000,
		DevMarketing:   50000,
		PresaleRaised:  4000,
		SoftCap:        5000,
		HardCap:        20000,
		LiquidityInUSD: 10000,
	}
}

func TestDeploymentExampleScenario(t *testing.T) {
	m := ComputeDeployment(exampleDeployment(), 0)

	assert.InDelta(t, 600000, m.UnreleasedTokens, 1e-9)
	assert.InDelta(t, 400000, m.ToBeReleasedTokens, 1e-9)
	assert.InDelta(t, 0.075, m.MinLaunchPrice, 1e-12)
	assert.InDelta(t, 0.075, m.ActualLaunchPrice, 1e-12)
	assert.InDelta(t, 0.075*300000, m.TotalLiquidityValue, 1e-6)
	assert.InDelta(t, 75000, m.MarketCap, 1e-6)
	assert.Empty(t, m.Warnings)

	assert.InDelta(t, 5, m.Allocation.Burn, 1e-9)
	assert.InDelta(t, 20, m.Allocation.LiquidityPool, 1e-9)
	assert.InDelta(t, 10, m.Allocation.Presale, 1e-9)
	assert.InDelta(t, 5, m.Allocation.DevMarketing, 1e-9)
	assert.InDelta(t, 60, m.Allocation.Unreleased, 1e-9)
	assert.InDelta(t, 40, m.Allocation.ToBeReleased, 1e-9)
}

func TestDeploymentAboveSoftCap(t *testing.T) {
	in := exampleDeployment()
	in.PresaleRaised = 8000

	m := ComputeDeployment(in, 0)

	// 3,000 over the cap spread across 100,000 presale tokens
	assert.InDelta(t, 0.075, m.MinLaunchPrice, 1e-12)
	assert.InDelta(t, 0.105, m.ActualLaunchPrice, 1e-12)
	assert.InDelta(t, 105000, m.MarketCap, 1e-6)
}

func TestDeploymentIsDeterministic(t *testing.T) {
	in := exampleDeployment()
	in.PresaleRaised = 12345

	first := ComputeDeployment(in, 0.075)
	second := ComputeDeployment(in, 0.075)
	assert.Equal(t, first, second)
}

func TestDeploymentKeepsPreviousMinLaunchPrice(t *testing.T) {
	first := ComputeDeployment(exampleDeployment(), 0)

	in := exampleDeployment()
	in.LiquidityPool = 0
	m := ComputeDeployment(in, first.MinLaunchPrice)

	assert.InDelta(t, 0.075, m.MinLaunchPrice, 1e-12)
	assert.Contains(t, m.Warnings, WarnNoLiquidityPrice)
}

func TestDeploymentPreviousMinLaunchPrice(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*DeploymentInputs)
		previousMin float64
		want        float64
	}{
		{name: "computable price replaces previous", mutate: func(*DeploymentInputs) {}, previousMin: 0.5, want: 0.075},
		{name: "no liquidity tokens", mutate: func(in *DeploymentInputs) { in.LiquidityPool = 0 }, previousMin: 0.5, want: 0.5},
		{name: "no liquidity value", mutate: func(in *DeploymentInputs) { in.LiquidityInUSD, in.SoftCap = 0, 0 }, previousMin: 0.2, want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := exampleDeployment()
			tt.mutate(&in)
			m := ComputeDeployment(in, tt.previousMin)
			assert.InDelta(t, tt.want, m.MinLaunchPrice, 1e-12)
		})
	}
}

func TestDeploymentStartsAtZeroMinLaunchPrice(t *testing.T) {
	in := exampleDeployment()
	in.LiquidityInUSD = 0
	in.SoftCap = 0

	m := ComputeDeployment(in, 0)
	assert.Equal(t, 0.0, m.MinLaunchPrice)
	assert.Contains(t, m.Warnings, WarnNoLiquidityPrice)
}

func TestDeploymentNegativeUnreleasedIsPreserved(t *testing.T) {
	in := exampleDeployment()
	in.DevMarketing = 700000

	m := ComputeDeployment(in, 0)

	assert.InDelta(t, -50000, m.UnreleasedTokens, 1e-9)
	assert.InDelta(t, -5, m.Allocation.Unreleased, 1e-9)
	assert.Contains(t, m.Warnings, WarnNegativeUnreleased)
}

func TestDeploymentZeroSupply(t *testing.T) {
	m := ComputeDeployment(DeploymentInputs{}, 0)

	assert.Contains(t, m.Warnings, WarnZeroSupply)
	assert.True(t, math.IsNaN(m.Allocation.Burn))
}

func TestLaunchPriceMonotonicInRaised(t *testing.T) {
	const (
		minPrice = 0.075
		softCap  = 5000.0
		offered  = 100000.0
	)

	prev := LaunchPrice(minPrice, 0, softCap, offered)
	for raised := 0.0; raised <= 50000; raised += 250 {
		got := LaunchPrice(minPrice, raised, softCap, offered)
		require.GreaterOrEqual(t, got, prev, "raised=%v", raised)
		prev = got
	}
}

func TestLaunchPriceWithoutPresaleTokens(t *testing.T) {
	assert.Equal(t, 0.075, LaunchPrice(0.075, 8000, 5000, 0))
}

func TestAllocationPercentagesSumToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		in := DeploymentInputs{
			Burn:           float64(rng.Intn(1e7)),
			LiquidityPool:  float64(rng.Intn(1e7) + 1),
			PresaleOffered: float64(rng.Intn(1e7)),
			DevMarketing:   float64(rng.Intn(1e7)),
			SoftCap:        5000,
			LiquidityInUSD: 10000,
		}
		unreleased := float64(rng.Intn(1e7))
		in.TotalSupply = in.Burn + in.LiquidityPool + in.PresaleOffered + in.DevMarketing + unreleased

		a := ComputeDeployment(in, 0).Allocation
		sum := a.Burn + a.LiquidityPool + a.Presale + a.DevMarketing + a.Unreleased
		assert.InDelta(t, 100, sum, 1e-9)
	}
}
