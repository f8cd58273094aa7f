package exam

import (
	"context"
	"errors"

	"github.com/abhisek/shelfexam/internal/results"
	"github.com/abhisek/shelfexam/internal/review"
	"github.com/abhisek/shelfexam/internal/session"
)

// ErrNotComplete is returned when finalizing a session that is still in
// progress.
var ErrNotComplete = errors.New("session is not complete")

// Finalize runs the completion steps of a finished session in order: lock
// the passcode, store the result, enqueue a recommendation, send the
// review. Each finished step is recorded in the snapshot, so calling
// Finalize again only runs what is left.
func (s *Service) Finalize(ctx context.Context, es *session.ExamSession) error {
	if !es.Complete {
		return ErrNotComplete
	}
	log := s.logger.With().Str("participant", es.ParticipantID).Str("session", es.ID).Logger()
	f := &es.Finalization

	if !f.Locked {
		won, err := s.locks.Acquire(ctx, es.Passcode, es.CompletedAt, s.now().Add(-s.lockDuration))
		if err != nil {
			return err
		}
		if !won {
			log.Warn().Msg("passcode already locked by another completion")
		}
		f.Locked = true
		if err := s.tracker.Save(ctx, es); err != nil {
			return err
		}
	}

	if !f.ResultStored {
		rec := results.FromSummary(session.BuildSummary(es, s.pool), es.CompletedAt)
		stored, err := s.results.Append(ctx, rec)
		if err != nil {
			return err
		}
		if !stored {
			log.Info().Msg("result already recorded")
		}
		f.ResultStored = true
		if err := s.tracker.Save(ctx, es); err != nil {
			return err
		}
	}

	if !f.Recommendations {
		var missed []session.Item
		for _, it := range es.Incorrect() {
			if it.Origin == session.OriginRecommended {
				missed = append(missed, it)
			}
		}
		if len(missed) > 0 {
			it := s.pick(missed)
			if err := s.queue.Enqueue(ctx, es.ParticipantID, it.QuestionID, s.delay); err != nil {
				return err
			}
			log.Info().Str("question", it.QuestionID).Dur("delay", s.delay).Msg("recommendation enqueued")
		}
		f.Recommendations = true
		if err := s.tracker.Save(ctx, es); err != nil {
			return err
		}
	}

	if !f.ReviewSent {
		s.sendReview(ctx, es)
		f.ReviewSent = true
		if err := s.tracker.Save(ctx, es); err != nil {
			return err
		}
	}
	return nil
}

// sendReview mails one random missed question. Failures are logged only.
func (s *Service) sendReview(ctx context.Context, es *session.ExamSession) {
	log := s.logger.With().Str("participant", es.ParticipantID).Str("session", es.ID).Logger()

	missed := es.Incorrect()
	if len(missed) == 0 {
		return
	}
	entry, err := s.roster.Lookup(es.Passcode)
	if err != nil {
		log.Warn().Err(err).Msg("review skipped, no recipient")
		return
	}
	it := s.pick(missed)
	rec, ok := s.pool.Get(it.QuestionID)
	if !ok {
		log.Warn().Str("question", it.QuestionID).Msg("review skipped, question not in pool")
		return
	}
	art := review.Artifact{
		SessionID:     es.ID,
		ParticipantID: es.ParticipantID,
		Recipient:     entry.Recipient,
		Question:      rec,
		Selected:      it.Selected,
		CreatedAt:     s.now(),
	}
	if err := s.reviews.Dispatch(ctx, art); err != nil {
		log.Warn().Err(err).Msg("review mail failed")
	}
}
