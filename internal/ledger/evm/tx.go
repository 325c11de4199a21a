package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

var errPending = errors.New("transaction not mined yet")

// transact submits one transaction and waits for its receipt. Only the receipt
// lookup is polled; the transaction itself is never resubmitted.
func (c *Client) transact(ctx context.Context, ct *contract, value *big.Int, method string, args ...interface{}) (ledger.TxResult, error) {
	if err := c.requireSigner(); err != nil {
		return ledger.TxResult{}, err
	}
	if ct == nil {
		return ledger.TxResult{}, ledger.ErrNotConfigured
	}

	opts := *c.signer
	opts.Context = ctx
	opts.Value = value

	tx, err := ct.bound.Transact(&opts, method, args...)
	if err != nil {
		return ledger.TxResult{}, ledger.NewCallError(err, ct.name, method)
	}

	c.logger.Info("Transaction submitted",
		zap.String("contract", ct.name),
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()))

	receipt, err := c.waitMined(ctx, tx)
	if err != nil {
		return ledger.TxResult{Hash: tx.Hash().Hex()}, ledger.NewCallError(err, ct.name, method)
	}

	res := ledger.TxResult{
		Hash:        tx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return res, ledger.NewCallError(ledger.ErrReverted, ct.name, method)
	}

	c.logger.Info("Transaction confirmed",
		zap.String("method", method),
		zap.String("tx_hash", res.Hash),
		zap.Uint64("block", res.BlockNumber),
		zap.Uint64("gas_used", res.GasUsed))

	return res, nil
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.pollInterval
	policy.MaxInterval = c.pollInterval * 5

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Waiting for receipt",
			zap.String("tx_hash", tx.Hash().Hex()),
			zap.Duration("next_check", d),
			zap.Error(err))
	}

	op := func() (*types.Receipt, error) {
		receipt, err := c.backend.TransactionReceipt(ctx, tx.Hash())
		if isNotFound(err) {
			return nil, errPending
		}
		if err != nil {
			return nil, err
		}
		return receipt, nil
	}

	receipt, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(c.confirmTimeout),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}
