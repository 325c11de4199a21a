package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/logger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/presale"
	"github.com/rovshanmuradov/launchpad/internal/staking"
	"github.com/rovshanmuradov/launchpad/internal/ui/component"
	"github.com/rovshanmuradov/launchpad/internal/ui/style"
	"github.com/rovshanmuradov/launchpad/internal/units"
)

type Tab int

const (
	TabPresale Tab = iota
	TabStaking
)

const (
	refreshTimeout = 20 * time.Second
	priceHistory   = 40
)

// DashboardConfig wires the dashboard to the running services.
type DashboardConfig struct {
	Network string
	Account string
	// Target overrides the on-chain end date for the countdown when set.
	Target time.Time
	// Refresh is run on the refresh key; nil disables it.
	Refresh func(ctx context.Context) error
	Updates <-chan tea.Msg
	Logs    *logger.Buffer
	Logger  *zap.Logger
}

// Dashboard is the watch-mode tea.Model.
type Dashboard struct {
	cfg    DashboardConfig
	keys   KeyMap
	help   help.Model
	styles style.Styles
	now    func() time.Time

	header *component.Header
	gauge  *component.Gauge
	prices *component.Sparkline
	logs   *component.LogPane

	tab          Tab
	presale      presale.Snapshot
	hasPresale   bool
	staking      staking.Position
	hasStaking   bool
	notification NotificationMsg
	clock        time.Time

	width  int
	height int
}

func NewDashboard(cfg DashboardConfig) *Dashboard {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Logger = cfg.Logger.Named("dashboard")

	header := component.NewHeader(cfg.Network)
	header.Account = cfg.Account

	return &Dashboard{
		cfg:    cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: style.NewStyles(style.DefaultPalette()),
		now:    time.Now,
		header: header,
		gauge:  component.NewGauge(30),
		prices: component.NewSparkline(priceHistory),
		logs:   component.NewLogPane(cfg.Logs),
		clock:  time.Now(),
	}
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(tick(), waitForUpdate(d.cfg.Updates))
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		d.header.SetWidth(msg.Width)
		d.help.Width = msg.Width
		d.logs.SetSize(msg.Width, 8)
		return d, nil

	case tea.KeyMsg:
		return d, d.handleKey(msg)

	case tickMsg:
		d.clock = d.now()
		return d, tick()

	case PresaleMsg:
		d.presale, d.hasPresale = msg.Snapshot, true
		d.header.Phase = msg.Snapshot.Phase()
		d.header.UpdatedAt = msg.Snapshot.UpdatedAt
		if msg.Snapshot.NativePriceUSD > 0 {
			d.header.PriceOK = true
		}
		return d, waitForUpdate(d.cfg.Updates)

	case StakingMsg:
		d.staking, d.hasStaking = msg.Position, true
		return d, waitForUpdate(d.cfg.Updates)

	case PriceMsg:
		d.header.PriceOK = !msg.Stale
		if msg.Price > 0 {
			d.prices.Push(msg.Price)
		}
		return d, waitForUpdate(d.cfg.Updates)

	case NotificationMsg:
		d.notification = msg
		return d, waitForUpdate(d.cfg.Updates)

	case updatesClosedMsg:
		return d, nil
	}

	return d, d.logs.Update(msg)
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, d.keys.Quit):
		return tea.Quit
	case key.Matches(msg, d.keys.Tab):
		if d.tab == TabPresale {
			d.tab = TabStaking
		} else {
			d.tab = TabPresale
		}
	case key.Matches(msg, d.keys.ToggleLogs):
		d.logs.Toggle()
	case key.Matches(msg, d.keys.LogDebug):
		d.logs.ToggleDebug()
	case key.Matches(msg, d.keys.Help):
		d.help.ShowAll = !d.help.ShowAll
	case key.Matches(msg, d.keys.Refresh):
		return d.refreshCmd()
	default:
		return d.logs.Update(msg)
	}
	return nil
}

// refreshCmd runs the configured refresh off the UI goroutine. Results arrive
// through the update channel; only a failure is reported back directly.
func (d *Dashboard) refreshCmd() tea.Cmd {
	if d.cfg.Refresh == nil {
		return nil
	}
	refresh, log := d.cfg.Refresh, d.cfg.Logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := refresh(ctx); err != nil {
			log.Warn("Manual refresh incomplete", zap.Error(err))
			return NotificationMsg{Text: "refresh incomplete: " + err.Error(), Failed: true, At: time.Now()}
		}
		return nil
	}
}

// TimeLeft is the live countdown, recomputed on every tick.
func (d *Dashboard) TimeLeft() metrics.TimeLeft {
	target := d.cfg.Target
	if target.IsZero() {
		target = d.presale.Parameters.EndDate
	}
	return metrics.Countdown(target, d.clock)
}

func (d *Dashboard) View() string {
	sections := []string{d.header.View(), d.tabs()}

	switch d.tab {
	case TabPresale:
		sections = append(sections, d.presaleView())
	case TabStaking:
		sections = append(sections, d.stakingView())
	}

	if d.notification.Text != "" {
		st := d.styles.Positive
		if d.notification.Failed {
			st = d.styles.Negative
		}
		sections = append(sections, st.Render(d.notification.At.Format("15:04:05")+"  "+d.notification.Text))
	}
	if d.logs.Visible() {
		sections = append(sections, d.logs.View())
	}
	sections = append(sections, d.help.View(d.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (d *Dashboard) tabs() string {
	names := []string{"Presale", "Staking"}
	var out []string
	for i, n := range names {
		if Tab(i) == d.tab {
			out = append(out, d.styles.ActiveTab.Render(n))
		} else {
			out = append(out, d.styles.Tab.Render(n))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (d *Dashboard) presaleView() string {
	if !d.hasPresale {
		return d.styles.Panel.Render(d.styles.Muted.Render("Loading presale..."))
	}
	s := d.presale
	minPrice, launchPrice := s.LaunchPrices()

	overview := []string{
		d.styles.PanelTitle.Render("Presale"),
		d.styles.Row("Phase", d.styles.PhaseBadge(s.Phase())),
		d.styles.Row("Ends in", component.CountdownText(d.TimeLeft())),
		d.styles.Row("Raised", units.FormatUSD(s.Parameters.PresaleRaised)),
		d.styles.Row("Soft / hard cap", units.FormatUSD(s.Parameters.SoftCap)+" / "+units.FormatUSD(s.Parameters.HardCap)),
		d.styles.Row("Soft cap", d.gauge.SetPercent(s.SoftCapProgress).View()),
		"",
		d.styles.Row("Min launch price", units.FormatCompactPrice(minPrice, 4)),
		d.styles.Row("Launch price", units.FormatCompactPrice(launchPrice, 4)),
		d.styles.Row("Market cap", units.FormatUSD(s.Metrics.MarketCap)),
		d.styles.Row("Liquidity value", units.FormatUSD(s.Metrics.TotalLiquidityValue)),
	}

	position := []string{
		d.styles.PanelTitle.Render("Your position"),
		d.styles.Row("Contributed", units.FormatUSD(s.Position.ContributionUSD)),
		d.styles.Row("Native / stable", units.FormatAmount(s.Contribution.Native, 4)+" / "+units.FormatAmount(s.Contribution.Stable, 2)),
		d.styles.Row("Share", units.FormatPercent(s.Position.ContributionPercentage)),
		d.styles.Row("Expected tokens", units.FormatAmount(s.Position.ExpectedTokens, 2)),
		"",
		d.styles.Row("Native price", units.FormatUSD(s.NativePriceUSD)),
		d.prices.View(),
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		d.styles.Panel.Render(strings.Join(overview, "\n")),
		d.styles.Panel.Render(strings.Join(position, "\n")),
	)

	allocation := d.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		d.styles.PanelTitle.Render("Allocation"),
		component.AllocationBar(component.AllocationSlices(s.Metrics.Allocation), 50),
	))

	out := []string{panels, allocation}
	for _, w := range s.Metrics.Warnings {
		out = append(out, d.styles.Warning.Render("! "+w))
	}
	for _, e := range s.ReadErrors {
		out = append(out, d.styles.Warning.Render("stale: "+e))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (d *Dashboard) stakingView() string {
	if !d.hasStaking {
		return d.styles.Panel.Render(d.styles.Muted.Render("Loading staking..."))
	}
	p := d.staking

	approved := d.styles.Warning.Render("not approved")
	if p.ApprovedAll {
		approved = d.styles.Positive.Render("approved")
	}
	end := p.Timeline.EstimatedEnd.Format("2006-01-02 15:04")
	if p.Timeline.Exceeded {
		end = d.styles.Negative.Render("rewards ended")
	}

	lines := []string{
		d.styles.PanelTitle.Render("NFT staking"),
		d.styles.Row("Owned", fmt.Sprintf("%d %v", len(p.Owned), p.Owned)),
		d.styles.Row("Staked", fmt.Sprintf("%d %v", p.StakedCount, p.Staked)),
		d.styles.Row("Collection approval", approved),
		"",
		d.styles.Row("Pending reward", units.FormatAmount(p.PendingReward, 4)+" ("+units.FormatUSD(p.PendingRewardUSD)+")"),
		d.styles.Row("Reward pool", units.FormatAmount(p.PoolBalance, 2)+" ("+units.FormatUSD(p.PoolBalanceUSD)+")"),
		d.styles.Row("Reward token price", units.FormatCompactPrice(p.RewardTokenPrice, 4)),
		"",
		d.styles.Row("Blocks remaining", units.FormatAmount(float64(p.Timeline.RemainingBlocks), 0)),
		d.styles.Row("Estimated end", end),
	}
	return d.styles.Panel.Render(strings.Join(lines, "\n"))
}
