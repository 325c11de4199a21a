package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launchpad/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline is a fixed-width price history. Older points fall off the left.
type Sparkline struct {
	data    []float64
	width   int
	palette style.Palette
}

func NewSparkline(width int) *Sparkline {
	if width < 1 {
		width = 1
	}
	return &Sparkline{width: width, palette: style.DefaultPalette()}
}

// Push appends a point, dropping the oldest once the line is full.
func (s *Sparkline) Push(value float64) {
	s.data = append(s.data, value)
	if len(s.data) > s.width {
		s.data = s.data[len(s.data)-s.width:]
	}
}

func (s *Sparkline) Len() int {
	return len(s.data)
}

func (s *Sparkline) Last() float64 {
	if len(s.data) == 0 {
		return 0
	}
	return s.data[len(s.data)-1]
}

// Blocks renders the bare spark characters, left aligned and space padded.
func (s *Sparkline) Blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat("▁", s.width)
	}

	lo, hi := s.data[0], s.data[0]
	for _, v := range s.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range s.data {
		idx := len(sparkChars) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		b.WriteRune(sparkChars[idx])
	}
	if pad := s.width - len(s.data); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// ChangePercent is the move from the first to the last point.
func (s *Sparkline) ChangePercent() float64 {
	if len(s.data) < 2 || s.data[0] == 0 {
		return 0
	}
	return (s.Last() - s.data[0]) / s.data[0] * 100
}

func (s *Sparkline) View() string {
	change := s.ChangePercent()
	color := s.palette.TextMuted
	arrow := "→"
	switch {
	case change > 0:
		color, arrow = s.palette.Success, "↗"
	case change < 0:
		color, arrow = s.palette.Error, "↘"
	}
	line := lipgloss.NewStyle().Foreground(s.palette.Primary).Render(s.Blocks())
	trend := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s %+.2f%%", arrow, change))
	return line + " " + trend
}
