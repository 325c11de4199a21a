package component

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/ui/style"
)

// Header is the one-line status strip above the dashboard.
type Header struct {
	Network   string
	Account   string
	Phase     string
	UpdatedAt time.Time
	PriceOK   bool

	styles style.Styles
	width  int
}

func NewHeader(network string) *Header {
	return &Header{Network: network, styles: style.NewStyles(style.DefaultPalette())}
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

func (h *Header) account() string {
	if h.Account == "" {
		return "read-only"
	}
	return metrics.TruncateAddress(h.Account)
}

func (h *Header) View() string {
	title := h.styles.PanelTitle.UnsetMarginBottom().Render("Launchpad")
	parts := []string{
		title,
		h.styles.Muted.Render(h.Network),
		h.styles.Value.Render(h.account()),
	}
	if h.Phase != "" {
		parts = append(parts, h.styles.PhaseBadge(h.Phase))
	}

	updated := "waiting for first refresh"
	if !h.UpdatedAt.IsZero() {
		updated = "updated " + h.UpdatedAt.Format("15:04:05")
	}
	parts = append(parts, h.styles.Muted.Render(updated))

	if !h.PriceOK {
		parts = append(parts, h.styles.Warning.Render("price stale"))
	}

	line := parts[0]
	for _, p := range parts[1:] {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, h.styles.Muted.Render(" | "), p)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.Palette.Primary).
		Padding(0, 1)
	if h.width > 4 {
		box = box.Width(h.width - 2)
	}
	return box.Render(line)
}

// CountdownText renders a countdown, or "ended" once it has expired.
func CountdownText(t metrics.TimeLeft) string {
	if t.Expired {
		return "ended"
	}
	return fmt.Sprintf("%dd %02dh %02dm %02ds", t.Days, t.Hours, t.Minutes, t.Seconds)
}
