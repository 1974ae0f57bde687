package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	item     lipgloss.Style
	desc     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	key      lipgloss.Style
	hint     lipgloss.Style
	errText  lipgloss.Style
	orbit    lipgloss.Style
	panel    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(t.Muted),
		cursor:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		selected: lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		item:     lipgloss.NewStyle().Foreground(t.Muted),
		desc:     lipgloss.NewStyle().Foreground(t.Secondary),
		label:    lipgloss.NewStyle().Foreground(t.Muted),
		value:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		key:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		errText:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		orbit:    lipgloss.NewStyle().Foreground(t.Secondary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// Sparkline renders values as a one-line bar chart of the given width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
