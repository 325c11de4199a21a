package solana

import (
	"context"
	"errors"
	"math/big"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

type fakeRPC struct {
	supply   string
	accounts map[solanago.PublicKey]string
	lamports uint64
	err      error
	empty    bool // node answers without a result
}

func (f *fakeRPC) GetTokenSupply(context.Context, solanago.PublicKey, rpc.CommitmentType) (*rpc.GetTokenSupplyResult, error) {
	if f.err != nil || f.empty {
		return nil, f.err
	}
	return &rpc.GetTokenSupplyResult{Value: &rpc.UiTokenAmount{Amount: f.supply, Decimals: 9}}, nil
}

func (f *fakeRPC) GetTokenAccountsByOwner(context.Context, solanago.PublicKey, *rpc.GetTokenAccountsConfig, *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := &rpc.GetTokenAccountsResult{}
	for key := range f.accounts {
		res.Value = append(res.Value, &rpc.TokenAccount{Pubkey: key})
	}
	return res, nil
}

func (f *fakeRPC) GetTokenAccountBalance(_ context.Context, account solanago.PublicKey, _ rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	return &rpc.GetTokenAccountBalanceResult{Value: &rpc.UiTokenAmount{Amount: f.accounts[account]}}, nil
}

func (f *fakeRPC) GetBalance(context.Context, solanago.PublicKey, rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if f.err != nil || f.empty {
		return nil, f.err
	}
	return &rpc.GetBalanceResult{Value: f.lamports}, nil
}

func TestSPLReaderSupplyAndBalance(t *testing.T) {
	mint := solanago.NewWallet().PublicKey().String()
	owner := solanago.NewWallet().PublicKey().String()

	fake := &fakeRPC{
		supply: "1000000000000000",
		accounts: map[solanago.PublicKey]string{
			solanago.NewWallet().PublicKey(): "1500000000",
			solanago.NewWallet().PublicKey(): "500000000",
		},
		lamports: 2500000000,
	}
	r := NewSPLReaderWithRPC(fake, zaptest.NewLogger(t))

	supply, err := r.ReadTotalSupply(context.Background(), ledger.Address(mint))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000", supply.String())

	bal, err := r.ReadBalance(context.Background(), ledger.Address(mint), ledger.Address(owner))
	require.NoError(t, err)
	assert.Equal(t, "2000000000", bal.String())

	lamports, err := r.ReadNativeBalance(context.Background(), ledger.Address(owner))
	require.NoError(t, err)
	assert.Equal(t, "2500000000", lamports.String())
}

func TestSPLReaderErrors(t *testing.T) {
	r := NewSPLReaderWithRPC(&fakeRPC{err: errors.New("node down")}, zaptest.NewLogger(t))

	_, err := r.ReadTotalSupply(context.Background(), "not-base58-0OIl")
	assert.Error(t, err)

	_, err = r.ReadTotalSupply(context.Background(), ledger.Address(solanago.NewWallet().PublicKey().String()))
	var callErr *ledger.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "getTokenSupply", callErr.Method)
}

func TestSPLReaderEmptyResults(t *testing.T) {
	r := NewSPLReaderWithRPC(&fakeRPC{empty: true}, zaptest.NewLogger(t))
	key := ledger.Address(solanago.NewWallet().PublicKey().String())

	tests := []struct {
		name   string
		method string
		read   func() (*big.Int, error)
	}{
		{
			name:   "total supply",
			method: "getTokenSupply",
			read:   func() (*big.Int, error) { return r.ReadTotalSupply(context.Background(), key) },
		},
		{
			name:   "native balance",
			method: "getBalance",
			read:   func() (*big.Int, error) { return r.ReadNativeBalance(context.Background(), key) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.read()
			assert.Nil(t, v)
			var callErr *ledger.CallError
			require.ErrorAs(t, err, &callErr)
			assert.Equal(t, tt.method, callErr.Method)
		})
	}
}
