package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/ui/components"
	"github.com/abhisek/shelfexam/internal/ui/layout"
	"github.com/abhisek/shelfexam/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	v := s.view
	textWidth := min(width-8, 90)
	if layout.IsCompactWidth(width) {
		textWidth = width - 4
	}

	var b strings.Builder

	info := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  Question %d of %d   Score %d/%d", v.Position+1, v.Total, v.Score, v.Answered))
	b.WriteString(info)
	b.WriteString("   ")
	b.WriteString(components.QuestionStrip(v.Markers))
	if tag := originTag(v.Item.Origin); tag != "" {
		b.WriteString("   ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(tag))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text)
	rec := v.Record
	if rec.Anchor != "" {
		b.WriteString(place(width, theme.Hint.Width(textWidth).Render(rec.Anchor)))
		b.WriteString("\n\n")
	}
	b.WriteString(place(width, body.Bold(true).Render(rec.Stem)))
	b.WriteString("\n")
	if rec.ImagePath != "" {
		b.WriteString(place(width, lipgloss.NewStyle().Width(textWidth).Foreground(theme.Secondary).Render("Image: "+rec.ImagePath)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	s.choices.Width = textWidth
	b.WriteString(place(width, s.choices.View()))

	if v.ReadOnly {
		b.WriteString("\n")
		style := theme.Correct
		if v.Item.Result == session.ResultIncorrect {
			style = theme.Incorrect
		}
		b.WriteString(place(width, style.Width(textWidth).Render(v.Item.Feedback)))
		if rec.Explanation != "" && !layout.IsCompactHeight(height) {
			b.WriteString("\n\n")
			b.WriteString(place(width, body.Render(rec.Explanation)))
		}
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(place(width, theme.ErrorText.Render(s.errMsg)))
	}
	if s.busy {
		b.WriteString("\n")
		b.WriteString(place(width, theme.Hint.Render("Saving...")))
	}
	return b.String()
}

func originTag(o session.Origin) string {
	switch o {
	case session.OriginPending:
		return "★ Review question"
	case session.OriginRecommended:
		return "★ Recommended"
	}
	return ""
}

func place(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
