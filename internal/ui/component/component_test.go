package component

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad/internal/logger"
	"github.com/rovshanmuradov/launchpad/internal/metrics"
)

func TestSparklineKeepsWindow(t *testing.T) {
	s := NewSparkline(4)
	for _, v := range []float64{1, 2, 3, 4, 5, 6} {
		s.Push(v)
	}

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 6.0, s.Last())
	assert.InDelta(t, 100.0, s.ChangePercent(), 1e-9) // 3 -> 6
	assert.Equal(t, "▁▃▅█", s.Blocks())
}

func TestSparklineFlatAndEmpty(t *testing.T) {
	s := NewSparkline(3)
	assert.Equal(t, "▁▁▁", s.Blocks())
	assert.Zero(t, s.ChangePercent())

	s.Push(2)
	s.Push(2)
	assert.Equal(t, "▅▅ ", s.Blocks())
	assert.Zero(t, s.ChangePercent())
}

func TestGaugeFill(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		filled  int
	}{
		{"empty", 0, 0},
		{"tiny value shows one cell", 0.5, 1},
		{"half", 50, 10},
		{"overfilled", 160, 20},
		{"negative", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGauge(20).SetPercent(tt.percent)
			assert.Equal(t, tt.filled, g.Filled())
		})
	}
}

func TestGaugeShowsRealPercent(t *testing.T) {
	view := NewGauge(10).SetPercent(160).View()
	assert.Contains(t, view, "160.0%")
}

func TestAllocationBarIgnoresNegativeShares(t *testing.T) {
	slices := AllocationSlices(metrics.Allocation{Burn: 10, LiquidityPool: 50, Presale: 60, Unreleased: -20})
	view := AllocationBar(slices, 20)

	assert.Contains(t, view, "Unreleased -20.0%")
	assert.Equal(t, 20, strings.Count(view, "█"))
}

func TestLogPaneFiltersDebug(t *testing.T) {
	buf := logger.NewBuffer(10)
	now := time.Now()
	buf.Add(logger.LogEntry{Timestamp: now, Level: zap.InfoLevel.CapitalString(), Message: "refreshed"})
	buf.Add(logger.LogEntry{Timestamp: now, Level: zap.DebugLevel.CapitalString(), Message: "raw read"})
	buf.Add(logger.LogEntry{Timestamp: now, Level: zap.ErrorLevel.CapitalString(), Message: "claim failed"})

	pane := NewLogPane(buf)
	lines := pane.Lines()
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "claim failed")

	pane.ToggleDebug()
	assert.Len(t, pane.Lines(), 3)
}

func TestCountdownText(t *testing.T) {
	assert.Equal(t, "ended", CountdownText(metrics.TimeLeft{Expired: true}))
	assert.Equal(t, "1d 02h 03m 04s", CountdownText(metrics.TimeLeft{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}))
}
