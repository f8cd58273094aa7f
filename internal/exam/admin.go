package exam

import (
	"context"
	"fmt"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/results"
	"github.com/abhisek/shelfexam/internal/store"
)

// Stats is an operator view of one participant's state.
type Stats struct {
	ParticipantID   string
	UsedQuestions   int
	Pending         []store.Recommendation
	Subjects        []string
	Results         []results.Record
	SessionID       string
	SessionComplete bool
	Position        int
	Score           int
}

// Stats collects the stored state for participantID.
func (s *Service) Stats(ctx context.Context, participantID string) (*Stats, error) {
	participantID = access.ParticipantID(participantID)
	used, err := s.ledger.UsedQuestionIDs(ctx, participantID)
	if err != nil {
		return nil, err
	}
	pending, err := s.queue.Pending(ctx, participantID)
	if err != nil {
		return nil, err
	}
	tags, err := s.subjects.Tags(ctx, participantID)
	if err != nil {
		return nil, err
	}
	recs, err := s.results.List(ctx, participantID)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		ParticipantID: participantID,
		UsedQuestions: len(used),
		Pending:       pending,
		Subjects:      tags,
		Results:       recs,
	}
	cur, err := s.tracker.Load(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		st.SessionID = cur.ID
		st.SessionComplete = cur.Complete
		st.Position = cur.Position
		st.Score = cur.Score
	}
	return st, nil
}

// Reset discards the stored session of the passcode's participant and
// releases the passcode lock, along with the lock of the passcode that
// session was taken under. Outstanding finalization runs first so a
// completed session keeps its result.
func (s *Service) Reset(ctx context.Context, passcode string) error {
	entry, err := s.roster.Lookup(passcode)
	if err != nil {
		return fmt.Errorf("reset %s: %w", passcode, err)
	}
	prior, err := s.tracker.Load(ctx, entry.ParticipantID)
	if err != nil {
		return err
	}
	passcodes := []string{passcode}
	if prior != nil {
		if prior.Complete && !prior.Finalization.Done() {
			if err := s.Finalize(ctx, prior); err != nil {
				return fmt.Errorf("reset %s: finalize: %w", passcode, err)
			}
		}
		if prior.Passcode != "" && prior.Passcode != passcode {
			passcodes = append(passcodes, prior.Passcode)
		}
	}

	if err := s.tracker.Discard(ctx, entry.ParticipantID); err != nil {
		return err
	}
	for _, p := range passcodes {
		if err := s.locks.Release(ctx, p); err != nil {
			return err
		}
	}
	s.logger.Info().Str("participant", entry.ParticipantID).Strs("passcodes", passcodes).Msg("participant reset")
	return nil
}

// Results lists every stored result record.
func (s *Service) Results(ctx context.Context) ([]results.Record, error) {
	return s.results.List(ctx, "")
}

// RecommendSubject marks subject as recommended for participantID.
func (s *Service) RecommendSubject(ctx context.Context, participantID, subject string) error {
	return s.subjects.Add(ctx, access.ParticipantID(participantID), subject)
}

// UnrecommendSubject removes a recommended subject.
func (s *Service) UnrecommendSubject(ctx context.Context, participantID, subject string) error {
	return s.subjects.Remove(ctx, access.ParticipantID(participantID), subject)
}

// RecommendedSubjects lists participantID's recommended subjects.
func (s *Service) RecommendedSubjects(ctx context.Context, participantID string) ([]string, error) {
	return s.subjects.Tags(ctx, access.ParticipantID(participantID))
}
