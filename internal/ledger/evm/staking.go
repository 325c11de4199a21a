package evm

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

// ReadStakingState loads the holder's staking view. Owned ids are enumerated
// from the NFT contract and exclude anything currently staked.
func (c *Client) ReadStakingState(ctx context.Context, holder ledger.Address) (ledger.StakingState, error) {
	var st ledger.StakingState

	addr, err := toAddress(holder)
	if err != nil {
		return st, err
	}
	if c.staking == nil {
		return st, ledger.ErrNotConfigured
	}

	var (
		bonusEnd, stakedCount *big.Int
		staked                []*big.Int
		owned                 []uint64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.backend.BlockNumber(gCtx)
		st.CurrentBlock = n
		return ledger.NewCallError(err, "node", "blockNumber")
	})
	g.Go(func() error {
		return readBigs(gCtx,
			read(&bonusEnd, c.staking, "bonusEndBlock"),
			read(&st.PendingReward, c.staking, "pendingReward", addr),
			read(&stakedCount, c.staking, "getUserStakedTokensCount", addr),
		)
	})
	g.Go(func() error {
		ids, err := c.staking.callBigSlice(gCtx, "getUserStakedTokens", addr, big.NewInt(int64(c.pageSize)), big.NewInt(0))
		staked = ids
		return err
	})
	g.Go(func() error {
		token, err := c.staking.callAddress(gCtx, "rewardToken")
		if err != nil {
			return err
		}
		st.RewardToken = ledger.Address(token.Hex())
		erc20, err := bindContract(c.backend, "reward_token", token.Hex(), erc20ABI)
		if err != nil {
			return err
		}
		st.PoolBalance, err = erc20.callBig(gCtx, "balanceOf", c.staking.addr)
		return err
	})
	if c.nft != nil {
		g.Go(func() error {
			ids, err := c.ownedNFTs(gCtx, holder)
			owned = ids
			return err
		})
		g.Go(func() error {
			ok, err := c.nft.callBool(gCtx, "isApprovedForAll", addr, c.staking.addr)
			st.ApprovedAll = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return ledger.StakingState{}, err
	}

	st.BonusEndBlock = bonusEnd.Uint64()
	st.StakedCount = stakedCount.Uint64()
	st.StakedIDs = make([]uint64, 0, len(staked))
	for _, id := range staked {
		st.StakedIDs = append(st.StakedIDs, id.Uint64())
	}
	st.OwnedIDs = excludeIDs(owned, st.StakedIDs)
	return st, nil
}

// ownedNFTs enumerates tokenOfOwnerByIndex for every index below balanceOf.
func (c *Client) ownedNFTs(ctx context.Context, holder ledger.Address) ([]uint64, error) {
	addr, err := toAddress(holder)
	if err != nil {
		return nil, err
	}
	balance, err := c.nft.callBig(ctx, "balanceOf", addr)
	if err != nil {
		return nil, err
	}
	if !balance.IsInt64() || balance.Int64() > int64(c.pageSize)*10 {
		return nil, fmt.Errorf("nft balance %s too large to enumerate", balance)
	}

	n := int(balance.Int64())
	ids := make([]uint64, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			id, err := c.nft.callBig(gCtx, "tokenOfOwnerByIndex", addr, big.NewInt(int64(i)))
			if err != nil {
				return err
			}
			ids[i] = id.Uint64()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

func excludeIDs(ids, exclude []uint64) []uint64 {
	skip := make(map[uint64]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func toBigIDs(ids []uint64) []*big.Int {
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = new(big.Int).SetUint64(id)
	}
	return out
}

// SubmitStake approves the staking contract for the whole collection when it is
// not approved yet, then deposits ids.
func (c *Client) SubmitStake(ctx context.Context, ids []uint64) (ledger.TxResult, error) {
	if len(ids) == 0 {
		return ledger.TxResult{}, ledger.ErrEmptySelection
	}
	if err := c.requireSigner(); err != nil {
		return ledger.TxResult{}, err
	}
	if c.staking == nil || c.nft == nil {
		return ledger.TxResult{}, ledger.ErrNotConfigured
	}

	approved, err := c.nft.callBool(ctx, "isApprovedForAll", c.account, c.staking.addr)
	if err != nil {
		return ledger.TxResult{}, err
	}
	if !approved {
		if _, err := c.transact(ctx, c.nft, nil, "setApprovalForAll", c.staking.addr, true); err != nil {
			return ledger.TxResult{}, err
		}
	}

	return c.transact(ctx, c.staking, nil, "deposit", toBigIDs(ids))
}

func (c *Client) SubmitWithdraw(ctx context.Context, ids []uint64) (ledger.TxResult, error) {
	if len(ids) == 0 {
		return ledger.TxResult{}, ledger.ErrEmptySelection
	}
	return c.transact(ctx, c.staking, nil, "withdraw", toBigIDs(ids))
}
