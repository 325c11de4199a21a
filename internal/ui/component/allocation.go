package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launchpad/internal/metrics"
	"github.com/rovshanmuradov/launchpad/internal/ui/style"
)

// AllocationSlice is one segment of the supply bar.
type AllocationSlice struct {
	Label   string
	Percent float64
}

// AllocationSlices orders the supply breakdown the way the bar draws it.
// Negative shares are drawn as empty.
func AllocationSlices(a metrics.Allocation) []AllocationSlice {
	return []AllocationSlice{
		{"Burn", a.Burn},
		{"Liquidity", a.LiquidityPool},
		{"Presale", a.Presale},
		{"Dev/Marketing", a.DevMarketing},
		{"Unreleased", a.Unreleased},
	}
}

// AllocationBar renders the slices as a stacked bar of the given width plus a legend.
func AllocationBar(slices []AllocationSlice, width int) string {
	palette := style.DefaultPalette()

	var bar strings.Builder
	var legend []string
	used := 0
	for i, s := range slices {
		color := palette.Allocation[i%len(palette.Allocation)]
		cells := 0
		if s.Percent > 0 && !math.IsInf(s.Percent, 0) {
			cells = int(math.Round(s.Percent / 100 * float64(width)))
			cells = min(cells, width-used)
		}
		used += cells
		st := lipgloss.NewStyle().Foreground(color)
		bar.WriteString(st.Render(strings.Repeat("█", cells)))
		legend = append(legend, st.Render("■")+fmt.Sprintf(" %s %.1f%%", s.Label, s.Percent))
	}
	if used < width {
		bar.WriteString(lipgloss.NewStyle().Foreground(palette.BackgroundAlt).Render(strings.Repeat("░", width-used)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar.String(), strings.Join(legend, "  "))
}
