package style

import "github.com/charmbracelet/lipgloss"

// Styles are the shared dashboard styles built from one palette.
type Styles struct {
	Palette Palette

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Muted      lipgloss.Style
	Positive   lipgloss.Style
	Negative   lipgloss.Style
	Warning    lipgloss.Style
	Badge      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginBottom(1),

		Label:    lipgloss.NewStyle().Foreground(p.TextSecondary).Width(22),
		Value:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(p.TextMuted),
		Positive: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		Negative: lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(p.Warning),

		Badge: lipgloss.NewStyle().
			Foreground(p.Background).
			Padding(0, 1).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Primary).
			Underline(true).
			Bold(true).
			Padding(0, 2),
	}
}

// Row renders a "label  value" line.
func (s Styles) Row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, s.Label.Render(label), s.Value.Render(value))
}

// PhaseBadge renders a colored phase label.
func (s Styles) PhaseBadge(phase string) string {
	return s.Badge.Background(s.Palette.PhaseColor(phase)).Render(phase)
}
