package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

// ReadAllocationBreakdown issues every parameter read concurrently and joins them.
// Total supply comes from the token contract when one is configured, otherwise
// from the presale's own totalTokens.
func (c *Client) ReadAllocationBreakdown(ctx context.Context) (ledger.PresaleParameters, error) {
	var (
		p       ledger.PresaleParameters
		endDate *big.Int
	)

	totalSupply := read(&p.TotalTokens, c.presale, "totalTokens")
	if c.presaleToken != nil {
		totalSupply = read(&p.TotalTokens, c.presaleToken, "totalSupply")
	}
	err := readBigs(ctx,
		totalSupply,
		read(&p.BurnTokens, c.presale, "burnTokens"),
		read(&p.LiquidityPoolTokens, c.presale, "initialTokenQty"),
		read(&p.DevMarketingTokens, c.presale, "devMarketingTokens"),
		read(&p.PresaleOffered, c.presale, "totalTokensOfferedPresale"),
		read(&p.LiquidityInUSD, c.presale, "initialValueToAddInUSD"),
		read(&p.PresaleRaisedUSD, c.presale, "presaleValueRaised"),
		read(&p.SoftCapUSD, c.presale, "softCapUSD"),
		read(&p.HardCapUSD, c.presale, "hardCapUSD"),
		read(&endDate, c.presale, "presaleEndDate"),
	)
	if err != nil {
		return ledger.PresaleParameters{}, err
	}

	if endDate.Sign() > 0 {
		p.EndDate = time.Unix(endDate.Int64(), 0).UTC()
	}
	return p, nil
}

func (c *Client) ReadStatus(ctx context.Context) (ledger.PresaleStatus, error) {
	var s ledger.PresaleStatus

	g, gCtx := errgroup.WithContext(ctx)
	flags := map[string]*bool{
		"claimEnabled":      &s.ClaimEnabled,
		"presaleSuccessful": &s.Successful,
		"presaleCancelled":  &s.Cancelled,
	}
	for method, dst := range flags {
		method, dst := method, dst
		g.Go(func() error {
			v, err := c.presale.callBool(gCtx, method)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ledger.PresaleStatus{}, err
	}
	return s, nil
}

func (c *Client) ReadContribution(ctx context.Context, participant ledger.Address) (ledger.Contribution, error) {
	out := ledger.Contribution{Native: new(big.Int), Stable: new(big.Int)}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.presale.callBig(gCtx, "totalContributionsUSD")
		out.TotalUSD = v
		return err
	})

	if participant != "" {
		addr, err := toAddress(participant)
		if err != nil {
			return ledger.Contribution{}, err
		}
		g.Go(func() error {
			v, err := c.presale.callBig(gCtx, "ethContributions", addr)
			if err == nil {
				out.Native = v
			}
			return err
		})
		g.Go(func() error {
			v, err := c.presale.callBig(gCtx, "usdtContributions", addr)
			if err == nil {
				out.Stable = v
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return ledger.Contribution{}, err
	}
	return out, nil
}

// bigRead is one uint256 view call and where to store its result.
type bigRead struct {
	dst    **big.Int
	ct     *contract
	method string
	args   []interface{}
}

func read(dst **big.Int, ct *contract, method string, args ...interface{}) bigRead {
	return bigRead{dst: dst, ct: ct, method: method, args: args}
}

// readBigs runs reads concurrently; the first failure cancels the rest.
func readBigs(ctx context.Context, reads ...bigRead) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, r := range reads {
		r := r
		g.Go(func() error {
			v, err := r.ct.callBig(gCtx, r.method, r.args...)
			if err != nil {
				return err
			}
			*r.dst = v
			return nil
		})
	}
	return g.Wait()
}

type contributorTuple struct {
	ContributorAddress   common.Address
	TotalContributionUSD *big.Int
}

func (c *Client) ReadContributors(ctx context.Context) ([]ledger.Contributor, error) {
	out, err := c.presale.call(ctx, "getContributors")
	if err != nil {
		return nil, err
	}
	tuples := *abi.ConvertType(out[0], new([]contributorTuple)).(*[]contributorTuple)

	contributors := make([]ledger.Contributor, 0, len(tuples))
	for _, t := range tuples {
		contributors = append(contributors, ledger.Contributor{
			Address:  ledger.Address(t.ContributorAddress.Hex()),
			TotalUSD: t.TotalContributionUSD,
		})
	}
	return contributors, nil
}

func (c *Client) ReadOraclePrice(ctx context.Context) (*big.Int, error) {
	return c.presale.callBig(ctx, "getLatestETHPrice")
}

func (c *Client) SubmitContribution(ctx context.Context, nativeWei *big.Int) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nativeWei, "contributeWithETH")
}

func (c *Client) SubmitStableContribution(ctx context.Context, amount *big.Int) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "contributeWithUSDT", amount)
}

// ApproveStable lets the presale contract pull amount stablecoins from the signer.
func (c *Client) ApproveStable(ctx context.Context, amount *big.Int) (ledger.TxResult, error) {
	if c.presale == nil {
		return ledger.TxResult{}, ledger.ErrNotConfigured
	}
	return c.transact(ctx, c.stable, nil, "approve", c.presale.addr, amount)
}

func (c *Client) StableAllowance(ctx context.Context, owner ledger.Address) (*big.Int, error) {
	if c.presale == nil {
		return nil, ledger.ErrNotConfigured
	}
	addr, err := toAddress(owner)
	if err != nil {
		return nil, err
	}
	return c.stable.callBig(ctx, "allowance", addr, c.presale.addr)
}

func (c *Client) SubmitClaim(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "claimTokens")
}

func (c *Client) SubmitRefund(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "refund")
}

func (c *Client) UpdateParameters(ctx context.Context, p ledger.ParameterUpdate) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "updateParameters",
		p.LiquidityPoolTokens,
		p.LiquidityInUSD,
		p.BurnTokens,
		p.DevMarketingTokens,
		p.HardCapUSD,
		p.SoftCapUSD,
		p.PresaleOffered,
	)
}

func (c *Client) EnableClaim(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "enableClaimTokens")
}

func (c *Client) EndPresale(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "endPresale")
}

func (c *Client) CancelPresale(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "cancelPresale")
}

func (c *Client) WithdrawContributions(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "withdrawContributions")
}

func (c *Client) WithdrawRemainingTokens(ctx context.Context) (ledger.TxResult, error) {
	return c.transact(ctx, c.presale, nil, "withdrawRemainingTokens")
}

func (c *Client) FundPresale(ctx context.Context, amount *big.Int) (ledger.TxResult, error) {
	if c.presale == nil {
		return ledger.TxResult{}, ledger.ErrNotConfigured
	}
	return c.transact(ctx, c.presaleToken, nil, "transfer", c.presale.addr, amount)
}
