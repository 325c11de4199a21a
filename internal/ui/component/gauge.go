package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launchpad/internal/ui/style"
)

// Gauge is a horizontal progress bar for percentages. Values past 100 fill
// the bar and still print the real number.
type Gauge struct {
	percent float64
	width   int
	palette style.Palette
}

func NewGauge(width int) *Gauge {
	return &Gauge{width: width, palette: style.DefaultPalette()}
}

func (g *Gauge) SetPercent(p float64) *Gauge {
	g.percent = p
	return g
}

func (g *Gauge) SetWidth(width int) *Gauge {
	g.width = width
	return g
}

// Filled returns how many cells of the bar are filled.
func (g *Gauge) Filled() int {
	if g.width <= 0 || g.percent <= 0 {
		return 0
	}
	n := int(g.percent / 100 * float64(g.width))
	if n < 1 {
		n = 1
	}
	return min(n, g.width)
}

func (g *Gauge) Color() lipgloss.Color {
	switch {
	case g.percent >= 100:
		return g.palette.Success
	case g.percent < 50:
		return g.palette.Warning
	default:
		return g.palette.Primary
	}
}

func (g *Gauge) View() string {
	filled := g.Filled()
	bar := lipgloss.NewStyle().Foreground(g.Color()).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(g.palette.TextMuted).Render(strings.Repeat("░", max(g.width-filled, 0)))
	label := lipgloss.NewStyle().Foreground(g.Color()).Bold(true).Render(fmt.Sprintf("%.1f%%", g.percent))
	return bar + " " + label
}
