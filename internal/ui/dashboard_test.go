package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/staking"
)

var dashboardNow = time.Date(2024, 11, 30, 12, 0, 0, 0, time.UTC)

func newTestDashboard(t *testing.T, cfg DashboardConfig) *Dashboard {
	cfg.Logger = zaptest.NewLogger(t)
	d := NewDashboard(cfg)
	d.now = func() time.Time { return dashboardNow }
	d.clock = dashboardNow
	return d
}

func testSnapshot() presale.Snapshot {
	return presale.Snapshot{
		Seq:       1,
		UpdatedAt: dashboardNow,
		Parameters: presale.Parameters{
			TotalSupply:    1000000,
			PresaleRaised:  4000,
			SoftCap:        5000,
			HardCap:        20000,
			PresaleOffered: 100000,
			EndDate:        time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		},
		Metrics: metrics.DeploymentMetrics{
			MinLaunchPrice:    0.075,
			ActualLaunchPrice: 0.075,
			MarketCap:         75000,
			Allocation:        metrics.Allocation{Burn: 5, LiquidityPool: 20, Presale: 10, DevMarketing: 5, Unreleased: 60},
		},
		Position:        metrics.ContributionPosition{ContributionUSD: 2000, ContributionPercentage: 50, ExpectedTokens: 50000},
		NativePriceUSD:  1500,
		SoftCapProgress: 80,
	}
}

func keyPress(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboardRendersPresale(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{Network: "sepolia", Account: "0x1234567890abcdef"})

	assert.Contains(t, d.View(), "Loading presale")

	d.Update(PresaleMsg{Snapshot: testSnapshot()})
	view := d.View()

	assert.Contains(t, view, "live")
	assert.Contains(t, view, "0d 12h 00m 00s")
	assert.Contains(t, view, "80.0%")
	assert.Contains(t, view, "$75,000.00")
	assert.Contains(t, view, "50.00%")
	assert.Contains(t, view, "Unreleased 60.0%")
}

func TestDashboardTargetOverridesEndDate(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{Target: dashboardNow.Add(-time.Minute)})
	d.Update(PresaleMsg{Snapshot: testSnapshot()})

	assert.True(t, d.TimeLeft().Expired)
	assert.Contains(t, d.View(), "ended")
}

func TestDashboardCountdownTicks(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	d.Update(PresaleMsg{Snapshot: testSnapshot()})
	require.Equal(t, 12, d.TimeLeft().Hours)

	dashboardLater := dashboardNow.Add(90 * time.Minute)
	d.now = func() time.Time { return dashboardLater }
	_, cmd := d.Update(tickMsg(dashboardLater))

	assert.NotNil(t, cmd)
	left := d.TimeLeft()
	assert.Equal(t, 10, left.Hours)
	assert.Equal(t, 30, left.Minutes)
}

func TestDashboardShowsReadErrorsAndWarnings(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	snap := testSnapshot()
	snap.ReadErrors = []string{"status: connection reset"}
	snap.Metrics.Warnings = []string{metrics.WarnNegativeUnreleased}
	d.Update(PresaleMsg{Snapshot: snap})

	view := d.View()
	assert.Contains(t, view, "stale: status: connection reset")
	assert.Contains(t, view, metrics.WarnNegativeUnreleased)
}

func TestDashboardStakingTab(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	d.Update(StakingMsg{Position: staking.Position{
		Holder:        ledger.Address("0xabc"),
		Owned:         []uint64{4, 9},
		Staked:        []uint64{1, 2, 3},
		StakedCount:   3,
		ApprovedAll:   true,
		PendingReward: 12.5,
		Timeline:      metrics.StakingTimeline{RemainingBlocks: 43200, EstimatedEnd: dashboardNow.Add(24 * time.Hour)},
	}})

	assert.NotContains(t, d.View(), "NFT staking")

	d.Update(keyPress("tab"))
	view := d.View()
	assert.Contains(t, view, "NFT staking")
	assert.Contains(t, view, "3 [1 2 3]")
	assert.Contains(t, view, "approved")
	assert.Contains(t, view, "43,200")
	assert.Contains(t, view, "2024-12-01 12:00")

	d.Update(keyPress("tab"))
	assert.Equal(t, TabPresale, d.tab)
}

func TestDashboardNotificationAndPrice(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	d.Update(PriceMsg{Price: 1500})
	d.Update(PriceMsg{Price: 1650, Stale: true})
	d.Update(NotificationMsg{Text: "claim failed: execution reverted", Failed: true, At: dashboardNow})

	assert.Equal(t, 2, d.prices.Len())
	assert.False(t, d.header.PriceOK)
	assert.Contains(t, d.View(), "claim failed: execution reverted")
}

func TestDashboardRefreshKey(t *testing.T) {
	called := make(chan struct{}, 1)
	d := newTestDashboard(t, DashboardConfig{Refresh: func(context.Context) error {
		called <- struct{}{}
		return errors.New("rpc timeout")
	}})

	_, cmd := d.Update(keyPress("r"))
	require.NotNil(t, cmd)

	msg := cmd()
	<-called
	note, ok := msg.(NotificationMsg)
	require.True(t, ok)
	assert.True(t, note.Failed)
	assert.Contains(t, note.Text, "rpc timeout")
}

func TestDashboardRefreshDisabled(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	_, cmd := d.Update(keyPress("r"))
	assert.Nil(t, cmd)
}

func TestDashboardConsumesUpdates(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	d := newTestDashboard(t, DashboardConfig{Updates: ch})

	ch <- PriceMsg{Price: 1500}
	_, cmd := d.Update(PresaleMsg{Snapshot: testSnapshot()})
	require.NotNil(t, cmd)
	assert.Equal(t, PriceMsg{Price: 1500}, cmd())

	close(ch)
	assert.Equal(t, updatesClosedMsg{}, waitForUpdate(ch)())
}

func TestDashboardQuit(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	_, cmd := d.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestDashboardToggleLogs(t *testing.T) {
	d := newTestDashboard(t, DashboardConfig{})
	require.True(t, d.logs.Visible())
	d.Update(keyPress("l"))
	assert.False(t, d.logs.Visible())
}
