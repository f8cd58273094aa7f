package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/shelfexam/internal/question"
)

var (
	ErrPoolExhausted    = errors.New("no eligible questions available")
	ErrNotCurrent       = errors.New("position is not the current question")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrNotAnswered      = errors.New("current question has not been answered")
	ErrCompleted        = errors.New("session is complete")
	ErrInvalidPosition  = errors.New("position out of range")
	ErrInvalidChoice    = errors.New("choice is not offered for this question")
	ErrQuestionMismatch = errors.New("record does not match session question")
)

// FeedbackCorrect is shown after a correct answer.
const FeedbackCorrect = "Correct!"

// IncorrectFeedback is shown after a wrong answer.
func IncorrectFeedback(rec question.Record) string {
	return fmt.Sprintf("Incorrect. The correct answer was: %s. %s", rec.Correct.Upper(), rec.CorrectText())
}

// SubmitAnswer records letter for the question at position and scores it.
// A position that already has an answer is rejected without touching the
// score.
func (s *ExamSession) SubmitAnswer(position int, letter question.Letter, rec question.Record) error {
	if s.Complete {
		return ErrCompleted
	}
	if position < 0 || position >= len(s.Items) {
		return ErrInvalidPosition
	}
	if position != s.Position {
		return ErrNotCurrent
	}
	item := &s.Items[position]
	if item.Answered() {
		return ErrAlreadyAnswered
	}
	if rec.ID != item.QuestionID {
		return fmt.Errorf("%w: got %s, want %s", ErrQuestionMismatch, rec.ID, item.QuestionID)
	}
	if _, ok := rec.Choice(letter); !ok {
		return ErrInvalidChoice
	}

	item.Selected = letter
	if rec.IsCorrect(letter) {
		item.Result = ResultCorrect
		item.Feedback = FeedbackCorrect
		s.Score++
	} else {
		item.Result = ResultIncorrect
		item.Feedback = IncorrectFeedback(rec)
	}
	return nil
}

// Advance moves past an answered position. Advancing from the last
// question completes the session at now.
func (s *ExamSession) Advance(now time.Time) error {
	if s.Complete {
		return ErrCompleted
	}
	item := s.Current()
	if item == nil {
		return ErrInvalidPosition
	}
	if !item.Answered() {
		return ErrNotAnswered
	}

	s.Position++
	if s.Position > s.Furthest {
		s.Furthest = s.Position
	}
	if s.Position >= len(s.Items) {
		s.Position = len(s.Items)
		s.Complete = true
		s.CompletedAt = now
	}
	return nil
}

// Jump moves to a reached position. Answered positions are read-only;
// answer state is never reset.
func (s *ExamSession) Jump(position int) error {
	if s.Complete {
		return ErrCompleted
	}
	if position < 0 || position >= len(s.Items) || position > s.Furthest {
		return ErrInvalidPosition
	}
	s.Position = position
	return nil
}

// Incorrect returns the items answered incorrectly, in session order.
func (s *ExamSession) Incorrect() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Result == ResultIncorrect {
			out = append(out, it)
		}
	}
	return out
}
