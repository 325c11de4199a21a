// Package ledger describes the on-chain capabilities the presale, staking and
// pool services need. Implementations live in sub-packages; services and tests
// depend only on these interfaces.
package ledger

import (
	"context"
	"math/big"
)

// BalanceReader reads token and native balances.
type BalanceReader interface {
	ReadBalance(ctx context.Context, token, holder Address) (*big.Int, error)
	ReadNativeBalance(ctx context.Context, holder Address) (*big.Int, error)
	ReadTotalSupply(ctx context.Context, token Address) (*big.Int, error)
}

// PresaleReader reads the presale contract.
type PresaleReader interface {
	ReadAllocationBreakdown(ctx context.Context) (PresaleParameters, error)
	ReadStatus(ctx context.Context) (PresaleStatus, error)
	// ReadContribution returns zero contributions for an empty participant.
	ReadContribution(ctx context.Context, participant Address) (Contribution, error)
	ReadContributors(ctx context.Context) ([]Contributor, error)
	ReadOraclePrice(ctx context.Context) (*big.Int, error)
}

// ParameterUpdate are the owner-settable presale figures in raw units.
type ParameterUpdate struct {
	LiquidityPoolTokens *big.Int
	LiquidityInUSD      *big.Int
	BurnTokens          *big.Int
	DevMarketingTokens  *big.Int
	HardCapUSD          *big.Int
	SoftCapUSD          *big.Int
	PresaleOffered      *big.Int
}

// PresaleWriter submits presale transactions. Every method submits exactly one
// transaction and waits for it to be mined; nothing is retried.
type PresaleWriter interface {
	SubmitContribution(ctx context.Context, nativeWei *big.Int) (TxResult, error)
	SubmitStableContribution(ctx context.Context, amount *big.Int) (TxResult, error)
	ApproveStable(ctx context.Context, amount *big.Int) (TxResult, error)
	StableAllowance(ctx context.Context, owner Address) (*big.Int, error)
	SubmitClaim(ctx context.Context) (TxResult, error)
	SubmitRefund(ctx context.Context) (TxResult, error)

	UpdateParameters(ctx context.Context, p ParameterUpdate) (TxResult, error)
	EnableClaim(ctx context.Context) (TxResult, error)
	EndPresale(ctx context.Context) (TxResult, error)
	CancelPresale(ctx context.Context) (TxResult, error)
	WithdrawContributions(ctx context.Context) (TxResult, error)
	WithdrawRemainingTokens(ctx context.Context) (TxResult, error)
	// FundPresale transfers presale tokens from the signer to the presale contract.
	FundPresale(ctx context.Context, amount *big.Int) (TxResult, error)
}

// StakingReader reads the NFT staking contract and its NFT collection.
type StakingReader interface {
	ReadStakingState(ctx context.Context, holder Address) (StakingState, error)
}

// StakingWriter stakes and withdraws NFTs.
type StakingWriter interface {
	// SubmitStake grants approval-for-all first when it is missing, then deposits.
	SubmitStake(ctx context.Context, ids []uint64) (TxResult, error)
	SubmitWithdraw(ctx context.Context, ids []uint64) (TxResult, error)
}

// PoolFactory reads and deploys staking pools.
type PoolFactory interface {
	ReadDeployedPools(ctx context.Context) ([]Address, error)
	ReadDeploymentFee(ctx context.Context) (*big.Int, error)
	DeployPool(ctx context.Context, p PoolDeployment, fee *big.Int) (TxResult, error)
	DeployPoolWithoutFee(ctx context.Context, p PoolDeployment) (TxResult, error)
	UpdateDeploymentFee(ctx context.Context, fee *big.Int) (TxResult, error)
	WithdrawFunds(ctx context.Context) (TxResult, error)
}

// Session is the connected wallet, if any.
type Session interface {
	// Account returns the signer address, or "" on a read-only connection.
	Account() Address
	ChainID() *big.Int
	BlockNumber(ctx context.Context) (uint64, error)
}

// Ledger bundles every capability of one chain connection.
type Ledger interface {
	Session
	BalanceReader
	PresaleReader
	PresaleWriter
	StakingReader
	StakingWriter
	PoolFactory
}
