// internal/ledger/evm/client.go
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

// Backend is the JSON-RPC surface the client needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	ethereum.ChainIDReader
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Contracts are the addresses the client binds. Empty addresses disable the
// matching capability.
type Contracts struct {
	Presale      string
	PresaleToken string
	Stable       string
	Staking      string
	NFT          string
	PoolFactory  string
}

// Config configures Connect.
type Config struct {
	RPCURL     string
	PrivateKey string // hex, optional; empty means read-only
	ChainID    int64  // 0 asks the node
	Contracts  Contracts

	StakingPageSize int
	ConfirmTimeout  time.Duration
	PollInterval    time.Duration
}

const (
	defaultPageSize       = 100
	defaultConfirmTimeout = 3 * time.Minute
	defaultPollInterval   = 2 * time.Second
)

// Client implements ledger.Ledger over an EVM JSON-RPC node.
type Client struct {
	backend Backend
	chainID *big.Int
	account common.Address
	signer  *bind.TransactOpts // nil when read-only

	presale      *contract
	presaleToken *contract
	stable       *contract
	staking      *contract
	nft          *contract
	factory      *contract

	pageSize       int
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *zap.Logger
}

var _ ledger.Ledger = (*Client)(nil)

// Connect dials the node and resolves the session: a configured private key
// gives a signing session, otherwise the connection is read-only.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	rpcClient, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}

	c, err := NewClient(ctx, rpcClient, cfg, logger)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}
	return c, nil
}

// NewClient builds a client over an existing backend.
func NewClient(ctx context.Context, backend Backend, cfg Config, logger *zap.Logger) (*Client, error) {
	c := &Client{
		backend:        backend,
		pageSize:       cfg.StakingPageSize,
		confirmTimeout: cfg.ConfirmTimeout,
		pollInterval:   cfg.PollInterval,
		logger:         logger.Named("evm"),
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.confirmTimeout <= 0 {
		c.confirmTimeout = defaultConfirmTimeout
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}

	if cfg.ChainID > 0 {
		c.chainID = big.NewInt(cfg.ChainID)
	} else {
		id, err := backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain id: %w", err)
		}
		c.chainID = id
	}

	if cfg.PrivateKey != "" {
		key, err := parsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		opts, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to create transactor: %w", err)
		}
		c.signer = opts
		c.account = opts.From
	}

	var err error
	bindings := []struct {
		dst  **contract
		name string
		addr string
		abi  abi.ABI
	}{
		{&c.presale, "presale", cfg.Contracts.Presale, presaleABI},
		{&c.presaleToken, "presale_token", cfg.Contracts.PresaleToken, erc20ABI},
		{&c.stable, "stable", cfg.Contracts.Stable, erc20ABI},
		{&c.staking, "staking", cfg.Contracts.Staking, stakingABI},
		{&c.nft, "nft", cfg.Contracts.NFT, erc721ABI},
		{&c.factory, "pool_factory", cfg.Contracts.PoolFactory, poolFactoryABI},
	}
	for _, b := range bindings {
		if *b.dst, err = bindContract(backend, b.name, b.addr, b.abi); err != nil {
			return nil, err
		}
	}

	c.logger.Info("Connected",
		zap.String("chain_id", c.chainID.String()),
		zap.Bool("read_only", c.signer == nil),
		zap.String("account", string(c.Account())))

	return c, nil
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Account returns the signer address, or "" when read-only.
func (c *Client) Account() ledger.Address {
	if c.signer == nil {
		return ""
	}
	return ledger.Address(c.account.Hex())
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	return n, ledger.NewCallError(err, "node", "blockNumber")
}

// Close releases the connection when the backend owns one.
func (c *Client) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *Client) ReadNativeBalance(ctx context.Context, holder ledger.Address) (*big.Int, error) {
	addr, err := toAddress(holder)
	if err != nil {
		return nil, err
	}
	bal, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, ledger.NewCallError(err, "node", "getBalance")
	}
	return bal, nil
}

func (c *Client) ReadBalance(ctx context.Context, token, holder ledger.Address) (*big.Int, error) {
	erc20, err := c.erc20At(token)
	if err != nil {
		return nil, err
	}
	addr, err := toAddress(holder)
	if err != nil {
		return nil, err
	}
	return erc20.callBig(ctx, "balanceOf", addr)
}

func (c *Client) ReadTotalSupply(ctx context.Context, token ledger.Address) (*big.Int, error) {
	erc20, err := c.erc20At(token)
	if err != nil {
		return nil, err
	}
	return erc20.callBig(ctx, "totalSupply")
}

// erc20At reuses the configured bindings for known tokens.
func (c *Client) erc20At(token ledger.Address) (*contract, error) {
	for _, known := range []*contract{c.presaleToken, c.stable} {
		if known != nil && strings.EqualFold(known.addr.Hex(), string(token)) {
			return known, nil
		}
	}
	return bindContract(c.backend, "erc20", string(token), erc20ABI)
}

func (c *Client) requireSigner() error {
	if c.signer == nil {
		return ledger.ErrReadOnly
	}
	return nil
}

func toAddress(a ledger.Address) (common.Address, error) {
	if !common.IsHexAddress(string(a)) {
		return common.Address{}, fmt.Errorf("invalid address %q", a)
	}
	return common.HexToAddress(string(a)), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ethereum.NotFound)
}
