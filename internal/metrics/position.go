package metrics

import "sort"

// PositionInputs is one participant's presale contribution plus the presale totals.
type PositionInputs struct {
	NativeContribution    float64 // ETH
	NativePriceUSD        float64
	StableContribution    float64 // USDT/USDC, counted 1:1 as USD
	TotalContributionsUSD float64
	TotalTokensOffered    float64
}

// ContributionPosition is the participant's share of the presale.
type ContributionPosition struct {
	ContributionUSD        float64
	ContributionPercentage float64
	ExpectedTokens         float64
}

// Position aggregates a participant's contribution. The share is 0 (not NaN)
// when total contributions are zero.
func Position(in PositionInputs) ContributionPosition {
	var p ContributionPosition
	p.ContributionUSD = in.NativeContribution*in.NativePriceUSD + in.StableContribution
	if in.TotalContributionsUSD > 0 {
		p.ContributionPercentage = p.ContributionUSD / in.TotalContributionsUSD * 100
	}
	p.ExpectedTokens = p.ContributionPercentage / 100 * in.TotalTokensOffered
	return p
}

// SoftCapProgress returns raised / softCap x 100, or 0 when no soft cap is set.
func SoftCapProgress(raised, softCap float64) float64 {
	if softCap <= 0 {
		return 0
	}
	return raised / softCap * 100
}

// SoftCapReached reports whether progress hit 100%.
func SoftCapReached(raised, softCap float64) bool {
	return SoftCapProgress(raised, softCap) >= 100
}

// ContributorShare is one contributor's USD total and percent of the whole.
type ContributorShare struct {
	Address         string  `json:"address"`
	ContributionUSD float64 `json:"contribution_usd"`
	Percentage      float64 `json:"percentage"`
}

// ContributorShares returns a sorted copy of contributors, largest first, with
// Percentage filled in relative to totalUSD.
func ContributorShares(contributors []ContributorShare, totalUSD float64) []ContributorShare {
	shares := make([]ContributorShare, len(contributors))
	copy(shares, contributors)
	for i := range shares {
		shares[i].Percentage = 0
		if totalUSD > 0 {
			shares[i].Percentage = shares[i].ContributionUSD / totalUSD * 100
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].ContributionUSD > shares[j].ContributionUSD
	})
	return shares
}

// TruncateAddress shortens an address to "0x..abcdef".
func TruncateAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:2] + ".." + addr[len(addr)-6:]
}
