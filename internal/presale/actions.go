package presale

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

var (
	ErrNothingToClaim  = errors.New("presale is neither cancelled nor open for claims")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrAllowanceTooLow = errors.New("stablecoin allowance is below the contribution: approve first")
	ErrNoAccount       = errors.New("no account connected")
)

// MaxApproval is the allowance granted by ApproveStable when no amount is given.
var MaxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ActionResult is the outcome of one write action. Actions are submitted once
// and never retried.
type ActionResult struct {
	Action string
	TxHash string
	Err    error
}

// dispatch submits one action, publishes its notification and refreshes the
// read model after a success.
func (s *Service) dispatch(ctx context.Context, action string, submit func(ctx context.Context) (ledger.TxResult, error)) ActionResult {
	res := ActionResult{Action: action}

	tx, err := submit(ctx)
	if err != nil {
		res.Err = err
		s.logger.Error("Presale action failed", zap.String("action", action), zap.Error(err))
	} else {
		res.TxHash = tx.Hash
		s.logger.Info("Presale action confirmed",
			zap.String("action", action),
			zap.String("tx", tx.Hash),
			zap.Uint64("block", tx.BlockNumber))
	}

	eventType := events.ActionSucceeded
	if res.Err != nil {
		eventType = events.ActionFailed
	}
	if err := s.publisher.Publish(events.ActionEvent{
		BaseEvent: events.NewBase(eventType, s.now()),
		Action:    action,
		TxHash:    res.TxHash,
		Err:       res.Err,
	}); err != nil {
		s.logger.Debug("Action notification not published", zap.Error(err))
	}

	if res.Err == nil {
		s.Refresh(ctx)
	}
	return res
}

// failed reports a validation error through the same notification path as a
// submitted action.
func (s *Service) failed(ctx context.Context, action string, err error) ActionResult {
	return s.dispatch(ctx, action, func(context.Context) (ledger.TxResult, error) {
		return ledger.TxResult{}, err
	})
}

func parsePositive(amount string, decimals int) (*big.Int, error) {
	raw, err := units.ToRaw(amount, decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if raw.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	return raw, nil
}

// ContributeNative contributes amount whole native coins (e.g. "0.5" ETH).
func (s *Service) ContributeNative(ctx context.Context, amount string) ActionResult {
	const action = "native contribution"
	raw, err := parsePositive(amount, s.cfg.NativeDecimals)
	if err != nil {
		return s.failed(ctx, action, err)
	}
	return s.dispatch(ctx, action, func(ctx context.Context) (ledger.TxResult, error) {
		return s.ledger.SubmitContribution(ctx, raw)
	})
}

// ContributeStable contributes amount stablecoins. The presale must already be
// approved to spend at least that much.
func (s *Service) ContributeStable(ctx context.Context, amount string) ActionResult {
	const action = "stable contribution"
	raw, err := parsePositive(amount, s.cfg.StableDecimals)
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if s.cfg.Account == "" {
		return s.failed(ctx, action, ErrNoAccount)
	}
	return s.dispatch(ctx, action, func(ctx context.Context) (ledger.TxResult, error) {
		allowance, err := s.ledger.StableAllowance(ctx, s.cfg.Account)
		if err != nil {
			return ledger.TxResult{}, err
		}
		if allowance.Cmp(raw) < 0 {
			return ledger.TxResult{}, ErrAllowanceTooLow
		}
		return s.ledger.SubmitStableContribution(ctx, raw)
	})
}

// ApproveStable approves the presale to spend amount stablecoins, or an
// unlimited amount when amount is empty.
func (s *Service) ApproveStable(ctx context.Context, amount string) ActionResult {
	const action = "stable approval"
	raw := MaxApproval
	if amount != "" {
		var err error
		if raw, err = parsePositive(amount, s.cfg.StableDecimals); err != nil {
			return s.failed(ctx, action, err)
		}
	}
	return s.dispatch(ctx, action, func(ctx context.Context) (ledger.TxResult, error) {
		return s.ledger.ApproveStable(ctx, raw)
	})
}

// ClaimOrRefund refunds when the presale was cancelled and claims when claims
// are enabled. The status is read fresh, not taken from the last snapshot.
func (s *Service) ClaimOrRefund(ctx context.Context) ActionResult {
	status, err := s.ledger.ReadStatus(ctx)
	if err != nil {
		return s.failed(ctx, "claim", err)
	}
	switch {
	case status.Cancelled:
		return s.dispatch(ctx, "refund", s.ledger.SubmitRefund)
	case status.ClaimEnabled:
		return s.dispatch(ctx, "claim", s.ledger.SubmitClaim)
	default:
		return s.failed(ctx, "claim", ErrNothingToClaim)
	}
}

// Admin actions. The contract enforces ownership; a non-owner gets a revert.

func (s *Service) EnableClaim(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "enable claim", s.ledger.EnableClaim)
}

func (s *Service) EndPresale(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "end presale", s.ledger.EndPresale)
}

func (s *Service) CancelPresale(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "cancel presale", s.ledger.CancelPresale)
}

func (s *Service) WithdrawContributions(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "withdraw contributions", s.ledger.WithdrawContributions)
}

func (s *Service) WithdrawRemainingTokens(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "withdraw remaining tokens", s.ledger.WithdrawRemainingTokens)
}

// FundPresale transfers the presale's offered token amount, as read from the
// contract in raw units, from the signer to the presale contract.
func (s *Service) FundPresale(ctx context.Context) ActionResult {
	return s.dispatch(ctx, "fund presale", func(ctx context.Context) (ledger.TxResult, error) {
		p, err := s.ledger.ReadAllocationBreakdown(ctx)
		if err != nil {
			return ledger.TxResult{}, err
		}
		if p.PresaleOffered == nil || p.PresaleOffered.Sign() <= 0 {
			return ledger.TxResult{}, ErrInvalidAmount
		}
		return s.ledger.FundPresale(ctx, p.PresaleOffered)
	})
}

// ParameterInput are the owner-settable figures in whole tokens and USD, as
// entered in the deployment calculator.
type ParameterInput struct {
	LiquidityPoolTokens string
	LiquidityInUSD      string
	BurnTokens          string
	DevMarketingTokens  string
	HardCapUSD          string
	SoftCapUSD          string
	PresaleOffered      string
}

// UpdateParameters scales token figures by the token decimals and USD figures
// by the stablecoin decimals, then submits them.
func (s *Service) UpdateParameters(ctx context.Context, in ParameterInput) ActionResult {
	const action = "update parameters"

	var (
		update ledger.ParameterUpdate
		err    error
	)
	fields := []struct {
		dst      **big.Int
		value    string
		decimals int
		name     string
	}{
		{&update.LiquidityPoolTokens, in.LiquidityPoolTokens, s.cfg.TokenDecimals, "liquidity pool tokens"},
		{&update.LiquidityInUSD, in.LiquidityInUSD, s.cfg.StableDecimals, "liquidity in USD"},
		{&update.BurnTokens, in.BurnTokens, s.cfg.TokenDecimals, "burn tokens"},
		{&update.DevMarketingTokens, in.DevMarketingTokens, s.cfg.TokenDecimals, "dev/marketing tokens"},
		{&update.HardCapUSD, in.HardCapUSD, s.cfg.StableDecimals, "hard cap"},
		{&update.SoftCapUSD, in.SoftCapUSD, s.cfg.StableDecimals, "soft cap"},
		{&update.PresaleOffered, in.PresaleOffered, s.cfg.TokenDecimals, "presale offered"},
	}
	for _, f := range fields {
		if *f.dst, err = units.ToRaw(f.value, f.decimals); err != nil {
			return s.failed(ctx, action, fmt.Errorf("%s: %w", f.name, err))
		}
	}

	return s.dispatch(ctx, action, func(ctx context.Context) (ledger.TxResult, error) {
		return s.ledger.UpdateParameters(ctx, update)
	})
}
