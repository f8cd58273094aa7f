// Package review builds the post-exam review of a missed question and hands
// it to a mailer.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/shelfexam/internal/question"
)

// Artifact is a review of one incorrectly answered question.
type Artifact struct {
	SessionID     string
	ParticipantID string
	Recipient     string
	Question      question.Record
	Selected      question.Letter
	CreatedAt     time.Time
}

// Subject returns the mail subject line.
func (a Artifact) Subject() string {
	if a.Question.Subject == "" {
		return "Shelf exam review"
	}
	return fmt.Sprintf("Shelf exam review: %s", a.Question.Subject)
}

// Body renders the review as plain text.
func (a Artifact) Body() string {
	q := a.Question
	var b strings.Builder

	fmt.Fprintf(&b, "Question %s\n\n", q.ID)
	if q.Anchor != "" {
		fmt.Fprintf(&b, "%s\n\n", q.Anchor)
	}
	fmt.Fprintf(&b, "%s\n\n", q.Stem)
	for _, c := range q.OrderedChoices() {
		fmt.Fprintf(&b, "  %s. %s\n", c.Letter.Upper(), c.Text)
	}

	selected, _ := q.Choice(a.Selected)
	fmt.Fprintf(&b, "\nYour answer: %s. %s\n", a.Selected.Upper(), selected)
	fmt.Fprintf(&b, "Correct answer: %s. %s\n", q.Correct.Upper(), q.CorrectText())
	if q.Explanation != "" {
		fmt.Fprintf(&b, "\nExplanation:\n%s\n", q.Explanation)
	}
	return b.String()
}
