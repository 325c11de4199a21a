// internal/ledger/solana/reader.go
package solana

import (
	"context"
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

// DefaultDecimals is the usual SPL mint precision.
const DefaultDecimals = 9

// RPC is the part of the solana-go client the reader calls.
type RPC interface {
	GetTokenSupply(ctx context.Context, mint solanago.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenSupplyResult, error)
	GetTokenAccountsByOwner(ctx context.Context, owner solanago.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error)
	GetTokenAccountBalance(ctx context.Context, account solanago.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetBalance(ctx context.Context, account solanago.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
}

// SPLReader reads SPL token supply and balances. Addresses are base58.
type SPLReader struct {
	rpc        RPC
	commitment rpc.CommitmentType
	logger     *zap.Logger
}

var _ ledger.BalanceReader = (*SPLReader)(nil)

// NewSPLReader creates a reader against rpcURL.
func NewSPLReader(rpcURL string, logger *zap.Logger) *SPLReader {
	return NewSPLReaderWithRPC(rpc.New(rpcURL), logger)
}

func NewSPLReaderWithRPC(client RPC, logger *zap.Logger) *SPLReader {
	return &SPLReader{
		rpc:        client,
		commitment: rpc.CommitmentConfirmed,
		logger:     logger.Named("spl-reader"),
	}
}

// ReadTotalSupply returns the mint supply in base units.
func (r *SPLReader) ReadTotalSupply(ctx context.Context, mint ledger.Address) (*big.Int, error) {
	mintKey, err := solanago.PublicKeyFromBase58(string(mint))
	if err != nil {
		return nil, fmt.Errorf("invalid mint %q: %w", mint, err)
	}

	res, err := r.rpc.GetTokenSupply(ctx, mintKey, r.commitment)
	if err != nil {
		return nil, ledger.NewCallError(err, "spl", "getTokenSupply")
	}
	if res == nil || res.Value == nil {
		return nil, ledger.NewCallError(fmt.Errorf("empty supply result"), "spl", "getTokenSupply")
	}
	return parseAmount(res.Value.Amount)
}

// ReadBalance sums every token account owner holds for mint.
func (r *SPLReader) ReadBalance(ctx context.Context, mint, owner ledger.Address) (*big.Int, error) {
	mintKey, err := solanago.PublicKeyFromBase58(string(mint))
	if err != nil {
		return nil, fmt.Errorf("invalid mint %q: %w", mint, err)
	}
	ownerKey, err := solanago.PublicKeyFromBase58(string(owner))
	if err != nil {
		return nil, fmt.Errorf("invalid owner %q: %w", owner, err)
	}

	accounts, err := r.rpc.GetTokenAccountsByOwner(ctx, ownerKey,
		&rpc.GetTokenAccountsConfig{Mint: &mintKey},
		&rpc.GetTokenAccountsOpts{Commitment: r.commitment, Encoding: solanago.EncodingBase64})
	if err != nil {
		return nil, ledger.NewCallError(err, "spl", "getTokenAccountsByOwner")
	}

	total := new(big.Int)
	if accounts == nil {
		return total, nil
	}
	for _, acc := range accounts.Value {
		bal, err := r.rpc.GetTokenAccountBalance(ctx, acc.Pubkey, r.commitment)
		if err != nil {
			return nil, ledger.NewCallError(err, "spl", "getTokenAccountBalance")
		}
		if bal == nil || bal.Value == nil {
			continue
		}
		amount, err := parseAmount(bal.Value.Amount)
		if err != nil {
			return nil, err
		}
		total.Add(total, amount)
	}

	r.logger.Debug("SPL balance",
		zap.String("mint", string(mint)),
		zap.String("owner", string(owner)),
		zap.Int("accounts", len(accounts.Value)),
		zap.String("amount", total.String()))

	return total, nil
}

// ReadNativeBalance returns lamports.
func (r *SPLReader) ReadNativeBalance(ctx context.Context, holder ledger.Address) (*big.Int, error) {
	key, err := solanago.PublicKeyFromBase58(string(holder))
	if err != nil {
		return nil, fmt.Errorf("invalid account %q: %w", holder, err)
	}
	res, err := r.rpc.GetBalance(ctx, key, r.commitment)
	if err != nil {
		return nil, ledger.NewCallError(err, "solana", "getBalance")
	}
	if res == nil {
		return nil, ledger.NewCallError(fmt.Errorf("empty balance result"), "solana", "getBalance")
	}
	return new(big.Int).SetUint64(res.Value), nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token amount %q", s)
	}
	return v, nil
}
