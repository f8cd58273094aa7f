package results

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var longHeader = []string{
	"participant_identity", "session_id", "timestamp", "score", "total_questions",
	"position", "question_id", "selected_letter", "correct_letter_text", "result", "origin",
}

// WriteCSV writes one row per question of every record.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(longHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		for i, q := range rec.PerQuestion {
			row := []string{
				rec.Participant,
				rec.SessionID,
				rec.Timestamp.UTC().Format(time.RFC3339),
				strconv.Itoa(rec.Score),
				strconv.Itoa(rec.TotalQuestions),
				strconv.Itoa(i + 1),
				q.QuestionID,
				q.SelectedLetter,
				q.CorrectLetterText,
				q.Result,
				q.Origin,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
