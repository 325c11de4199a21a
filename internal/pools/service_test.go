package pools

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/launchpad/internal/events"
	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

const (
	account = ledger.Address("0x3333333333333333333333333333333333333333")
	factory = ledger.Address("0x4444444444444444444444444444444444444444")
)

type mockFactory struct {
	pools    []ledger.Address
	fee      *big.Int
	balances map[ledger.Address]*big.Int
	readErr  error

	paidFee    *big.Int
	newFee     *big.Int
	deployed   []ledger.PoolDeployment
	withdrawn  int
	adminCalls int
}

func (m *mockFactory) ReadDeployedPools(context.Context) ([]ledger.Address, error) {
	return m.pools, m.readErr
}

func (m *mockFactory) ReadDeploymentFee(context.Context) (*big.Int, error) {
	return m.fee, nil
}

func (m *mockFactory) DeployPool(_ context.Context, p ledger.PoolDeployment, fee *big.Int) (ledger.TxResult, error) {
	m.deployed = append(m.deployed, p)
	m.paidFee = fee
	return ledger.TxResult{Hash: "0xdeploy"}, nil
}

func (m *mockFactory) DeployPoolWithoutFee(_ context.Context, p ledger.PoolDeployment) (ledger.TxResult, error) {
	m.deployed = append(m.deployed, p)
	m.adminCalls++
	return ledger.TxResult{Hash: "0xadmin"}, nil
}

func (m *mockFactory) UpdateDeploymentFee(_ context.Context, fee *big.Int) (ledger.TxResult, error) {
	m.newFee = fee
	return ledger.TxResult{Hash: "0xfee"}, nil
}

func (m *mockFactory) WithdrawFunds(context.Context) (ledger.TxResult, error) {
	m.withdrawn++
	return ledger.TxResult{}, ledger.ErrReverted
}

func (m *mockFactory) ReadNativeBalance(_ context.Context, holder ledger.Address) (*big.Int, error) {
	return m.balances[holder], nil
}

type recorder struct{ events []events.Event }

func (r *recorder) Publish(e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newMock() *mockFactory {
	return &mockFactory{
		pools: []ledger.Address{"0xpool1", "0xpool2"},
		fee:   big.NewInt(50000000000000000), // 0.05
		balances: map[ledger.Address]*big.Int{
			account: big.NewInt(2000000000000000000),
			factory: big.NewInt(150000000000000000),
		},
	}
}

func TestOverview(t *testing.T) {
	s := NewService(Config{Account: account, Factory: factory, NativeDecimals: 18}, newMock(), nil, zaptest.NewLogger(t))

	o, err := s.Overview(context.Background())
	require.NoError(t, err)
	assert.Len(t, o.Pools, 2)
	assert.InDelta(t, 0.05, o.Fee, 1e-12)
	assert.InDelta(t, 2, o.AccountBalance, 1e-12)
	assert.InDelta(t, 0.15, o.FactoryBalance, 1e-12)
}

func TestOverviewReadOnlySkipsAccount(t *testing.T) {
	s := NewService(Config{NativeDecimals: 18}, newMock(), nil, zaptest.NewLogger(t))

	o, err := s.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, o.AccountBalance)
	assert.Zero(t, o.FactoryBalance)
}

func TestOverviewError(t *testing.T) {
	m := newMock()
	m.readErr = errors.New("boom")
	s := NewService(Config{NativeDecimals: 18}, m, nil, zaptest.NewLogger(t))

	_, err := s.Overview(context.Background())
	assert.Error(t, err)
}

func TestDeployPaysCurrentFee(t *testing.T) {
	m := newMock()
	pub := &recorder{}
	s := NewService(Config{NativeDecimals: 18}, m, pub, zaptest.NewLogger(t))

	p := ledger.PoolDeployment{StakedToken: "0xa", RewardToken: "0xb", RewardPerBlock: big.NewInt(10)}
	tx, err := s.Deploy(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "0xdeploy", tx.Hash)
	assert.Equal(t, m.fee, m.paidFee)

	_, err = s.AdminDeploy(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, m.adminCalls)
	assert.Len(t, pub.events, 2)
}

func TestUpdateFee(t *testing.T) {
	m := newMock()
	s := NewService(Config{NativeDecimals: 18}, m, nil, zaptest.NewLogger(t))

	_, err := s.UpdateFee(context.Background(), "0.1")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000", m.newFee.String())

	_, err = s.UpdateFee(context.Background(), "-1")
	assert.ErrorIs(t, err, ErrInvalidFee)
}

func TestWithdrawFundsFailureNotifies(t *testing.T) {
	m := newMock()
	pub := &recorder{}
	s := NewService(Config{NativeDecimals: 18}, m, pub, zaptest.NewLogger(t))

	_, err := s.WithdrawFunds(context.Background())
	assert.ErrorIs(t, err, ledger.ErrReverted)
	assert.Equal(t, 1, m.withdrawn)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ActionFailed, pub.events[0].Type())
}
