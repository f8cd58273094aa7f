// Package results records finished exam outcomes and exports them.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/store"
)

// QuestionResult is the per-question line of a result record.
type QuestionResult struct {
	QuestionID        string `json:"question_id"`
	SelectedLetter    string `json:"selected_letter"`
	CorrectLetterText string `json:"correct_letter_text"`
	Result            string `json:"result"`
	Origin            string `json:"origin,omitempty"`
}

// Record is the exported summary of one completed session.
type Record struct {
	SessionID      string           `json:"session_id"`
	Participant    string           `json:"participant_identity"`
	Passcode       string           `json:"passcode"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	PerQuestion    []QuestionResult `json:"per_question"`
	Timestamp      time.Time        `json:"timestamp"`
}

// FromSummary converts a session summary into a result record stamped at.
func FromSummary(sum *session.Summary, at time.Time) Record {
	per := make([]QuestionResult, len(sum.Items))
	for i, it := range sum.Items {
		per[i] = QuestionResult{
			QuestionID:        it.QuestionID,
			SelectedLetter:    it.Selected.Upper(),
			CorrectLetterText: fmt.Sprintf("%s. %s", it.CorrectLetter.Upper(), it.CorrectText),
			Result:            string(it.Result),
			Origin:            string(it.Origin),
		}
	}
	return Record{
		SessionID:      sum.SessionID,
		Participant:    sum.ParticipantID,
		Passcode:       sum.Passcode,
		Score:          sum.Score,
		TotalQuestions: sum.Total,
		PerQuestion:    per,
		Timestamp:      at,
	}
}

// Recorder appends result records to the store, at most one per session.
type Recorder struct {
	repo store.ResultRepo
}

// NewRecorder creates a Recorder backed by repo.
func NewRecorder(repo store.ResultRepo) *Recorder {
	return &Recorder{repo: repo}
}

// Append stores rec. It reports false, without error, when the session
// already has a result.
func (r *Recorder) Append(ctx context.Context, rec Record) (bool, error) {
	data, err := json.Marshal(rec.PerQuestion)
	if err != nil {
		return false, fmt.Errorf("encode result: %w", err)
	}
	return r.repo.Append(ctx, &store.Result{
		SessionID:     rec.SessionID,
		ParticipantID: rec.Participant,
		Passcode:      rec.Passcode,
		Score:         rec.Score,
		Total:         rec.TotalQuestions,
		Data:          data,
		CreatedAt:     rec.Timestamp,
	})
}

// List returns stored records in creation order. An empty participantID
// lists everyone.
func (r *Recorder) List(ctx context.Context, participantID string) ([]Record, error) {
	rows, err := r.repo.List(ctx, participantID)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			SessionID:      row.SessionID,
			Participant:    row.ParticipantID,
			Passcode:       row.Passcode,
			Score:          row.Score,
			TotalQuestions: row.Total,
			Timestamp:      row.CreatedAt,
		}
		if err := json.Unmarshal(row.Data, &rec.PerQuestion); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", row.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
