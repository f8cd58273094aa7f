package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

// QuestionStrip renders one numbered cell per question, colored by marker.
func QuestionStrip(markers []session.Marker) string {
	cells := make([]string, len(markers))
	for i, m := range markers {
		label := fmt.Sprintf(" %d ", i+1)
		var style lipgloss.Style
		switch m {
		case session.MarkerCurrent:
			style = lipgloss.NewStyle().Background(theme.Primary).Foreground(theme.Text).Bold(true)
		case session.MarkerCorrect:
			style = lipgloss.NewStyle().Foreground(theme.Success)
		case session.MarkerIncorrect:
			style = lipgloss.NewStyle().Foreground(theme.Error)
		default:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		cells[i] = style.Render(label)
	}
	return strings.Join(cells, " ")
}
