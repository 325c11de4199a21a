package evm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func newSimulated(t *testing.T) (*simulated.Backend, ledger.Address) {
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	balance, _ := new(big.Int).SetString("5000000000000000000", 10)
	sim := simulated.NewBackend(types.GenesisAlloc{addr: {Balance: balance}})
	t.Cleanup(func() { _ = sim.Close() })
	return sim, ledger.Address(addr.Hex())
}

func TestABIsDeclareCalledMethods(t *testing.T) {
	methods := map[string][]string{
		"presale": {"claimEnabled", "presaleCancelled", "presaleSuccessful", "getLatestETHPrice",
			"ethContributions", "usdtContributions", "totalContributionsUSD", "totalTokensOfferedPresale",
			"burnTokens", "initialTokenQty", "devMarketingTokens", "initialValueToAddInUSD",
			"presaleValueRaised", "softCapUSD", "hardCapUSD", "presaleEndDate", "getContributors",
			"contributeWithETH", "contributeWithUSDT", "claimTokens", "refund", "updateParameters",
			"enableClaimTokens", "endPresale", "cancelPresale", "withdrawContributions", "withdrawRemainingTokens"},
		"staking": {"bonusEndBlock", "pendingReward", "getUserStakedTokens", "getUserStakedTokensCount",
			"rewardToken", "deposit", "withdraw"},
		"factory": {"getDeployedPools", "deploymentFee", "deployNewPoolWithFee", "deployNewPoolWithoutFee",
			"updateDeploymentFee", "withdrawFunds"},
	}
	parsed := map[string]abi.ABI{
		"presale": presaleABI,
		"staking": stakingABI,
		"factory": poolFactoryABI,
	}

	for name, list := range methods {
		for _, m := range list {
			_, ok := parsed[name].Methods[m]
			assert.True(t, ok, "%s.%s", name, m)
		}
	}
	assert.True(t, presaleABI.Methods["contributeWithETH"].IsPayable())
	assert.Len(t, poolFactoryABI.Methods["deployNewPoolWithFee"].Inputs, 11)
}

func TestConnectReadOnly(t *testing.T) {
	sim, funded := newSimulated(t)

	c, err := NewClient(context.Background(), sim.Client(), Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, ledger.Address(""), c.Account())
	assert.Equal(t, int64(1337), c.ChainID().Int64())

	bal, err := c.ReadNativeBalance(context.Background(), funded)
	require.NoError(t, err)
	assert.Equal(t, "5000000000000000000", bal.String())

	_, err = c.SubmitClaim(context.Background())
	assert.ErrorIs(t, err, ledger.ErrReadOnly)
}

func TestConnectWithSigner(t *testing.T) {
	sim, funded := newSimulated(t)

	c, err := NewClient(context.Background(), sim.Client(), Config{PrivateKey: "0x" + testKey}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, funded, c.Account())

	_, err = c.SubmitClaim(context.Background())
	assert.ErrorIs(t, err, ledger.ErrNotConfigured, "no presale address")

	_, err = c.SubmitStake(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrEmptySelection)
}

func TestConnectLogsAccount(t *testing.T) {
	sim, funded := newSimulated(t)

	tests := []struct {
		name     string
		cfg      Config
		account  string
		readOnly bool
	}{
		{name: "read only", cfg: Config{}, account: "", readOnly: true},
		{name: "signer", cfg: Config{PrivateKey: "0x" + testKey}, account: string(funded), readOnly: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			_, err := NewClient(context.Background(), sim.Client(), tt.cfg, zap.New(core))
			require.NoError(t, err)

			entries := logs.FilterMessage("Connected").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.account, fields["account"])
			assert.Equal(t, tt.readOnly, fields["read_only"])
		})
	}
}

func TestConnectRejectsBadInput(t *testing.T) {
	sim, _ := newSimulated(t)

	_, err := NewClient(context.Background(), sim.Client(), Config{PrivateKey: "zz"}, zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = NewClient(context.Background(), sim.Client(), Config{Contracts: Contracts{Presale: "0x123"}}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestUnconfiguredReadsFail(t *testing.T) {
	sim, funded := newSimulated(t)
	c, err := NewClient(context.Background(), sim.Client(), Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.ReadStatus(context.Background())
	assert.ErrorIs(t, err, ledger.ErrNotConfigured)

	_, err = c.ReadStakingState(context.Background(), funded)
	assert.ErrorIs(t, err, ledger.ErrNotConfigured)
}

func TestExcludeIDs(t *testing.T) {
	assert.Equal(t, []uint64{1, 4}, excludeIDs([]uint64{1, 2, 3, 4}, []uint64{2, 3, 9}))
	assert.Equal(t, []uint64{}, excludeIDs(nil, []uint64{1}))
}

func TestPoolArgs(t *testing.T) {
	p := ledger.PoolDeployment{
		StakedToken:       "0x1111111111111111111111111111111111111111",
		RewardToken:       "0x2222222222222222222222222222222222222222",
		Admin:             "0x3333333333333333333333333333333333333333",
		ProjectTaxAddress: "0x4444444444444444444444444444444444444444",
		TaxAddress:        "0x5555555555555555555555555555555555555555",
		RewardPerBlock:    big.NewInt(9000000),
	}
	args, err := poolArgs(p)
	require.NoError(t, err)
	require.Len(t, args, 11)
	assert.Equal(t, big.NewInt(9000000), args[5])
	assert.Equal(t, new(big.Int), args[10])

	_, err = poolArgs(ledger.PoolDeployment{})
	assert.Error(t, err)
}
