package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/launchpad/internal/logger"
	"github.com/rovshanmuradov/launchpad/internal/ui/style"
)

const logPaneEntries = 50

// LogPane shows the tail of the in-memory log buffer.
type LogPane struct {
	buffer    *logger.Buffer
	viewport  viewport.Model
	showDebug bool
	visible   bool

	container lipgloss.Style
	title     lipgloss.Style
	timestamp lipgloss.Style
	levels    map[string]lipgloss.Style
}

func NewLogPane(buf *logger.Buffer) *LogPane {
	palette := style.DefaultPalette()
	return &LogPane{
		buffer:   buf,
		viewport: viewport.New(60, 4),
		visible:  true,
		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),
		title:     lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
		timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
		levels: map[string]lipgloss.Style{
			"error": lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			"warn":  lipgloss.NewStyle().Foreground(palette.Warning),
			"info":  lipgloss.NewStyle().Foreground(palette.Text),
			"debug": lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
	}
}

func (p *LogPane) SetSize(width, height int) {
	p.viewport.Width = max(width-4, 10)
	p.viewport.Height = max(height-3, 2)
}

func (p *LogPane) Toggle() {
	p.visible = !p.visible
}

func (p *LogPane) Visible() bool {
	return p.visible
}

func (p *LogPane) ToggleDebug() {
	p.showDebug = !p.showDebug
}

func (p *LogPane) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// Lines returns the rendered entries that pass the level filter.
func (p *LogPane) Lines() []string {
	if p.buffer == nil {
		return nil
	}
	var lines []string
	for _, e := range p.buffer.Recent(logPaneEntries) {
		level := strings.ToLower(e.Level)
		if level == "debug" && !p.showDebug {
			continue
		}
		st, ok := p.levels[level]
		if !ok {
			st = p.levels["info"]
		}
		lines = append(lines, fmt.Sprintf("%s %s", p.timestamp.Render(e.Timestamp.Format("15:04:05")), st.Render(e.Message)))
	}
	return lines
}

func (p *LogPane) View() string {
	if !p.visible {
		return ""
	}
	lines := p.Lines()
	if len(lines) == 0 {
		p.viewport.SetContent("No log entries yet")
	} else {
		p.viewport.SetContent(strings.Join(lines, "\n"))
		p.viewport.GotoBottom()
	}
	return p.container.Render(lipgloss.JoinVertical(lipgloss.Left, p.title.Render("Logs"), p.viewport.View()))
}
