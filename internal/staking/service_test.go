package staking

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

type mockStaking struct {
	state   ledger.StakingState
	readErr error
	txErr   error

	staked    [][]uint64
	withdrawn [][]uint64
}

func (m *mockStaking) ReadStakingState(context.Context, ledger.Address) (ledger.StakingState, error) {
	return m.state, m.readErr
}

func (m *mockStaking) SubmitStake(_ context.Context, ids []uint64) (ledger.TxResult, error) {
	m.staked = append(m.staked, ids)
	return ledger.TxResult{Hash: "0xstake"}, m.txErr
}

func (m *mockStaking) SubmitWithdraw(_ context.Context, ids []uint64) (ledger.TxResult, error) {
	m.withdrawn = append(m.withdrawn, ids)
	return ledger.TxResult{Hash: "0xwithdraw"}, m.txErr
}

type fixedPrice float64

func (p fixedPrice) Get(context.Context) (float64, bool) { return float64(p), false }

type recorder struct{ events []events.Event }

func (r *recorder) Publish(e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

var now = time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T, m *mockStaking, pub events.Publisher) *Service {
	s := NewService(Config{Holder: "0x2222222222222222222222222222222222222222", RewardDecimals: 18}, m, fixedPrice(0.002), pub, zaptest.NewLogger(t))
	s.now = func() time.Time { return now }
	return s
}

func wei(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestRefreshBuildsPosition(t *testing.T) {
	m := &mockStaking{state: ledger.StakingState{
		CurrentBlock:  1000,
		BonusEndBlock: 1000 + 43200, // one day at 2s blocks
		PendingReward: wei(500),
		StakedIDs:     []uint64{3, 7},
		StakedCount:   2,
		OwnedIDs:      []uint64{1, 2},
		PoolBalance:   wei(1000000),
		ApprovedAll:   true,
	}}
	pub := &recorder{}
	s := newService(t, m, pub)

	pos, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2}, pos.Owned)
	assert.Equal(t, []uint64{3, 7}, pos.Staked)
	assert.InDelta(t, 500, pos.PendingReward, 1e-9)
	assert.InDelta(t, 1, pos.PendingRewardUSD, 1e-12)
	assert.InDelta(t, 2000, pos.PoolBalanceUSD, 1e-9)
	assert.Equal(t, uint64(43200), pos.Timeline.RemainingBlocks)
	assert.Equal(t, now.Add(24*time.Hour), pos.Timeline.EstimatedEnd)
	assert.False(t, pos.Timeline.Exceeded)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.StakingSnapshot, pub.events[0].Type())
}

func TestRefreshReplacesWholeSet(t *testing.T) {
	m := &mockStaking{state: ledger.StakingState{OwnedIDs: []uint64{1, 2, 3}}}
	s := newService(t, m, nil)

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	m.state = ledger.StakingState{OwnedIDs: []uint64{2}, StakedIDs: []uint64{1, 3}}
	pos, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, pos.Owned)
	assert.Equal(t, []uint64{1, 3}, pos.Staked)
}

func TestRefreshFailureKeepsPrevious(t *testing.T) {
	m := &mockStaking{state: ledger.StakingState{OwnedIDs: []uint64{9}}}
	s := newService(t, m, nil)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	m.readErr = errors.New("node unavailable")
	pos, err := s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []uint64{9}, pos.Owned)
}

func TestTimelineExceededPastEndBlock(t *testing.T) {
	m := &mockStaking{state: ledger.StakingState{CurrentBlock: 500, BonusEndBlock: 400}}
	s := newService(t, m, nil)

	pos, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pos.Timeline.RemainingBlocks)
	assert.True(t, pos.Timeline.Exceeded)
}

func TestStakeAndWithdraw(t *testing.T) {
	m := &mockStaking{}
	pub := &recorder{}
	s := newService(t, m, pub)

	tx, err := s.Stake(context.Background(), []uint64{4, 5})
	require.NoError(t, err)
	assert.Equal(t, "0xstake", tx.Hash)
	assert.Equal(t, [][]uint64{{4, 5}}, m.staked)

	_, err = s.Withdraw(context.Background(), []uint64{4})
	require.NoError(t, err)
	assert.Equal(t, [][]uint64{{4}}, m.withdrawn)

	var actions []events.ActionEvent
	for _, e := range pub.events {
		if a, ok := e.(events.ActionEvent); ok {
			actions = append(actions, a)
		}
	}
	require.Len(t, actions, 2)
	assert.Equal(t, "stake succeeded (0xstake)", actions[0].Message())
}

func TestEmptySelectionIsRejected(t *testing.T) {
	m := &mockStaking{}
	pub := &recorder{}
	s := newService(t, m, pub)

	_, err := s.Stake(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrEmptySelection)
	assert.Empty(t, m.staked)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ActionFailed, pub.events[0].Type())
}

func TestFailedStakeIsNotRetried(t *testing.T) {
	m := &mockStaking{txErr: ledger.ErrReverted}
	s := newService(t, m, nil)

	_, err := s.Stake(context.Background(), []uint64{1})
	assert.ErrorIs(t, err, ledger.ErrReverted)
	assert.Len(t, m.staked, 1)
}
