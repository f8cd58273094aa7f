package exam

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/session"
)

// ErrUnknownQuestion is returned when a stored session references a
// question that is no longer in the pool.
var ErrUnknownQuestion = errors.New("question not found in pool")

// View is what the participant sees at the current position.
type View struct {
	Position int
	Total    int
	Record   question.Record
	Item     session.Item
	Score    int
	Answered int
	Markers  []session.Marker
	Complete bool

	// ReadOnly is set when the current question already has an answer.
	ReadOnly bool

	// CanAdvance is set once the current question is answered.
	CanAdvance bool
}

// Attempt is one participant's interaction with their exam session. Calls
// are serialized; each transition is persisted before it takes effect.
type Attempt struct {
	svc      *Service
	identity access.Identity
	resumed  bool

	mu      sync.Mutex
	session *session.ExamSession
}

// Identity returns the authenticated participant.
func (a *Attempt) Identity() access.Identity {
	return a.identity
}

// Resumed reports whether the session was restored from storage.
func (a *Attempt) Resumed() bool {
	return a.resumed
}

// Completed reports whether the session has finished.
func (a *Attempt) Completed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Complete
}

// Current returns the view at the current position. Once complete, the
// view has Complete set and no record.
func (a *Attempt) Current() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.session
	v := View{
		Position: s.Position,
		Total:    s.Len(),
		Score:    s.Score,
		Answered: s.Answered(),
		Markers:  session.Markers(s),
		Complete: s.Complete,
	}
	item := s.Current()
	if item == nil {
		return v
	}
	v.Item = *item
	v.ReadOnly = item.Answered()
	v.CanAdvance = item.Answered()
	if rec, ok := a.svc.pool.Get(item.QuestionID); ok {
		v.Record = rec
	} else {
		v.Record = question.Record{ID: item.QuestionID}
	}
	return v
}

// Answer submits letter for the current question.
func (a *Attempt) Answer(ctx context.Context, letter question.Letter) error {
	return a.apply(ctx, func(s *session.ExamSession) error {
		item := s.Current()
		if item == nil {
			return session.ErrCompleted
		}
		rec, ok := a.svc.pool.Get(item.QuestionID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownQuestion, item.QuestionID)
		}
		return s.SubmitAnswer(s.Position, letter, rec)
	})
}

// Next advances past the current answered question. Advancing from the
// last question completes the session and runs finalization.
func (a *Attempt) Next(ctx context.Context) error {
	return a.apply(ctx, func(s *session.ExamSession) error {
		return s.Advance(a.svc.now())
	})
}

// Jump moves to a previously reached position for review.
func (a *Attempt) Jump(ctx context.Context, position int) error {
	return a.apply(ctx, func(s *session.ExamSession) error {
		return s.Jump(position)
	})
}

// Summary returns the session summary.
func (a *Attempt) Summary() *session.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return session.BuildSummary(a.session, a.svc.pool)
}

// apply runs fn against a copy of the session, persists the copy, and only
// then makes it current. A failed save leaves the attempt unchanged.
func (a *Attempt) apply(ctx context.Context, fn func(*session.ExamSession) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.session.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := a.svc.tracker.Save(ctx, next); err != nil {
		a.svc.logger.Error().Err(err).Str("participant", next.ParticipantID).Msg("save session")
		return err
	}
	completed := next.Complete && !a.session.Complete
	a.session = next

	if completed {
		a.svc.logger.Info().
			Str("participant", next.ParticipantID).
			Str("session", next.ID).
			Int("score", next.Score).
			Int("total", next.Len()).
			Msg("session completed")
		return a.svc.Finalize(ctx, a.session)
	}
	return nil
}
