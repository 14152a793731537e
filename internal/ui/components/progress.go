package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"codequest/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional label and percent
// readout. Percent is 0..1; out-of-range values are clamped at render time.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	// The percent readout occupies a fixed 6 cells ("  100%").
	reserved := lipgloss.Width(b.String())
	if p.ShowPercent {
		reserved += 6
	}
	barWidth := max(p.Width-reserved, 4)

	filled := int(float64(barWidth) * p.Percent)
	filled = min(max(filled, 0), barWidth)

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100+0.5))))
	}

	return b.String()
}
