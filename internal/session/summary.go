package session

import (
	"time"

	"github.com/abhisek/shelfexam/internal/question"
)

// SummaryItem is the per-question line of a finished session.
type SummaryItem struct {
	Position      int             `json:"position"`
	QuestionID    string          `json:"question_id"`
	Subject       string          `json:"subject,omitempty"`
	Origin        Origin          `json:"origin,omitempty"`
	Selected      question.Letter `json:"selected,omitempty"`
	CorrectLetter question.Letter `json:"correct_letter"`
	CorrectText   string          `json:"correct_text"`
	Result        Result          `json:"result"`
}

// Summary holds the data shown on the summary screen and exported as a
// result record.
type Summary struct {
	SessionID     string        `json:"session_id"`
	ParticipantID string        `json:"participant_id"`
	Passcode      string        `json:"-"`
	Score         int           `json:"score"`
	Total         int           `json:"total"`
	Items         []SummaryItem `json:"items"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   time.Time     `json:"completed_at,omitzero"`
}

// Accuracy returns Score/Total, or 0 for an empty session.
func (s *Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// BuildSummary creates a Summary from the session. Questions missing from
// pool keep their id and result but no text.
func BuildSummary(s *ExamSession, pool *question.Pool) *Summary {
	items := make([]SummaryItem, len(s.Items))
	for i, it := range s.Items {
		si := SummaryItem{
			Position:   i + 1,
			QuestionID: it.QuestionID,
			Origin:     it.Origin,
			Selected:   it.Selected,
			Result:     it.Result,
		}
		if rec, ok := pool.Get(it.QuestionID); ok {
			si.Subject = rec.Subject
			si.CorrectLetter = rec.Correct
			si.CorrectText = rec.CorrectText()
		}
		items[i] = si
	}

	return &Summary{
		SessionID:     s.ID,
		ParticipantID: s.ParticipantID,
		Passcode:      s.Passcode,
		Score:         s.Score,
		Total:         len(s.Items),
		Items:         items,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
	}
}
