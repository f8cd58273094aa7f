package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/ui/theme"
)

// MultiChoice is a lettered multiple-choice selector. Once Revealed, the
// cursor is hidden and the correct and chosen answers are colored.
type MultiChoice struct {
	Choices  []question.Choice
	Cursor   int
	Chosen   question.Letter
	Correct  question.Letter
	Revealed bool
	Width    int
}

// NewMultiChoice creates a selector for rec's present choices.
func NewMultiChoice(rec question.Record, width int) MultiChoice {
	return MultiChoice{
		Choices: rec.OrderedChoices(),
		Correct: rec.Correct,
		Width:   width,
	}
}

// Reveal shows chosen against the correct answer.
func (m *MultiChoice) Reveal(chosen question.Letter) {
	m.Chosen = chosen
	m.Revealed = true
}

// Current returns the letter under the cursor.
func (m MultiChoice) Current() question.Letter {
	if len(m.Choices) == 0 {
		return ""
	}
	return m.Choices[m.Cursor].Letter
}

// Update moves the cursor. Typing a choice letter jumps to it.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Choices)-1 {
			m.Cursor++
		}
	default:
		if l, err := question.ParseLetter(key); err == nil {
			for i, c := range m.Choices {
				if c.Letter == l {
					m.Cursor = i
				}
			}
		}
	}
	return m, nil
}

// View renders the choices.
func (m MultiChoice) View() string {
	width := m.Width
	if width <= 0 {
		width = 60
	}

	var b strings.Builder
	for i, c := range m.Choices {
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		line := lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%s%s)  %s", prefix, c.Letter.Upper(), c.Text))

		var style lipgloss.Style
		switch {
		case m.Revealed && c.Letter == m.Correct:
			style = theme.Correct
		case m.Revealed && c.Letter == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
