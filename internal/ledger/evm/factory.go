package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

func (c *Client) ReadDeployedPools(ctx context.Context) ([]ledger.Address, error) {
	addrs, err := c.factory.callAddressSlice(ctx, "getDeployedPools")
	if err != nil {
		return nil, err
	}
	pools := make([]ledger.Address, len(addrs))
	for i, a := range addrs {
		pools[i] = ledger.Address(a.Hex())
	}
	return pools, nil
}

func (c *Client) ReadDeploymentFee(ctx context.Context) (*big.Int, error) {
	return c.factory.callBig(ctx, "deploymentFee")
}

// DeployPool pays fee (wei) to deploy a pool.
func (c *Client) DeployPool(ctx context.Context, p ledger.PoolDeployment, fee *big.Int) (ledger.TxResult, error) {
	args, err := poolArgs(p)
	if err != nil {
		return ledger.TxResult{}, err
	}
	return c.transact(ctx, c.factory, fee, "deployNewPoolWithFee", args...)
}

// DeployPoolWithoutFee is restricted to the factory owner on-chain.
func (c *Client) DeployPoolWithoutFee(ctx context.Context, p ledger.PoolDeployment) (ledger.TxResult, error) {
	args, err := poolArgs(p)
	if err != nil {
		return ledger.TxResult{}, err
	}
	return c.transact(ctx, c.factory, nil, "deployNewPoolWithoutFee", args...)
}

func (c *Client) UpdateDeploymentFee(ctx context.Context, fee *big.Int) (ledger.TxResult, error) {
	return c.transact(ctx, c.factory, nil, "updateDeploymentFee", fee)
}

func (c *Client) WithdrawFunds(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.factory, nil, "withdrawFunds")
}

func poolArgs(p ledger.PoolDeployment) ([]interface{}, error) {
	addrs := make([]common.Address, 0, 5)
	for _, a := range []ledger.Address{p.StakedToken, p.RewardToken, p.Admin, p.ProjectTaxAddress, p.TaxAddress} {
		addr, err := toAddress(a)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}

	nums := []*big.Int{p.RewardPerBlock, p.StartBlock, p.BonusEndBlock, p.PoolLimitPerUser, p.Tax, p.ProjectTax}
	for i, n := range nums {
		if n == nil {
			nums[i] = new(big.Int)
		}
	}

	return []interface{}{
		addrs[0], addrs[1], addrs[2], addrs[3], addrs[4],
		nums[0], nums[1], nums[2], nums[3], nums[4], nums[5],
	}, nil
}
