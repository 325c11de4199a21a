package ledger

import (
	"math/big"
	"time"
)

// Address is a hex account or contract address, 0x-prefixed.
type Address string

// PresaleParameters is the raw allocation breakdown read from the presale contract.
// Token amounts use the presale token's decimals, USD amounts the stablecoin's.
type PresaleParameters struct {
	TotalTokens         *big.Int // token totalSupply
	BurnTokens          *big.Int
	LiquidityPoolTokens *big.Int
	DevMarketingTokens  *big.Int
	PresaleOffered      *big.Int
	LiquidityInUSD      *big.Int
	PresaleRaisedUSD    *big.Int
	SoftCapUSD          *big.Int
	HardCapUSD          *big.Int
	EndDate             time.Time
}

// PresaleStatus are the presale lifecycle flags.
type PresaleStatus struct {
	ClaimEnabled bool
	Successful   bool
	Cancelled    bool
}

// Contribution is one participant's raw contribution plus the running total.
type Contribution struct {
	Native   *big.Int // wei
	Stable   *big.Int // stablecoin smallest unit
	TotalUSD *big.Int // all contributors, stablecoin decimals
}

// Contributor is one entry of the contributor list.
type Contributor struct {
	Address  Address
	TotalUSD *big.Int
}

// StakingState is the raw NFT staking view for one holder.
type StakingState struct {
	CurrentBlock  uint64
	BonusEndBlock uint64
	PendingReward *big.Int
	StakedIDs     []uint64
	StakedCount   uint64
	OwnedIDs      []uint64 // owned in wallet, staked excluded
	RewardToken   Address
	PoolBalance   *big.Int // reward tokens held by the staking contract
	ApprovedAll   bool
}

// PoolDeployment are the constructor arguments of a new staking pool. Numeric
// fields are passed through unscaled.
type PoolDeployment struct {
	StakedToken       Address
	RewardToken       Address
	Admin             Address
	ProjectTaxAddress Address
	TaxAddress        Address
	RewardPerBlock    *big.Int
	StartBlock        *big.Int
	BonusEndBlock     *big.Int
	PoolLimitPerUser  *big.Int
	Tax               *big.Int
	ProjectTax        *big.Int
}

// TxResult identifies a mined transaction.
type TxResult struct {
	Hash        string
	BlockNumber uint64
	GasUsed     uint64
}
