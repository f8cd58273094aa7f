package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/shelfexam/internal/router"
	"github.com/abhisek/shelfexam/internal/screen"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/ui/components"
	"github.com/abhisek/shelfexam/internal/ui/layout"
	"github.com/abhisek/shelfexam/internal/ui/theme"
)

// SummaryScreen displays the finished exam.
type SummaryScreen struct {
	summary *session.Summary
	warning string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

// SetWarning shows msg below the results, e.g. when finalization failed.
func (s *SummaryScreen) SetWarning(msg string) {
	s.warning = msg
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Exam Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Exam complete!")))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("Score: %d/%d        Accuracy: %.0f%%", sum.Score, sum.Total, sum.Accuracy()*100))))
	b.WriteString("\n")
	bar := components.NewProgressBar("", sum.Accuracy(), false, min(width-8, 40))
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	var rows strings.Builder
	for _, it := range sum.Items {
		mark := theme.Correct.Render("✓")
		if it.Result != session.ResultCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		selected := "-"
		if it.Selected != "" {
			selected = it.Selected.Upper()
		}
		line := fmt.Sprintf("%s  Q%-2d %-14s you: %s   answer: %s. %s",
			mark, it.Position, truncate(it.Subject, 14), selected, it.CorrectLetter.Upper(), truncate(it.CorrectText, 30))
		rows.WriteString(line)
		rows.WriteString("\n")
	}
	b.WriteString(center(theme.Card.Render(strings.TrimRight(rows.String(), "\n"))))

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.ErrorText.Render(s.warning)))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
