// Package access validates passcodes and decides whether a participant
// resumes, starts, or is locked out of an exam session.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/store"
)

const (
	// DefaultValidity is how long a passcode works after its rotation start.
	DefaultValidity = 25 * 24 * time.Hour

	// DefaultLockDuration is how long a passcode stays locked after completion.
	DefaultLockDuration = 6 * time.Hour
)

// SessionBuilder builds a new session from a candidate pool.
type SessionBuilder interface {
	Build(ctx context.Context, participantID, passcode string, candidates *question.Pool) (*session.ExamSession, error)
}

// Finalizer runs any outstanding completion steps of a finished session.
type Finalizer interface {
	Finalize(ctx context.Context, s *session.ExamSession) error
}

// Identity is an authenticated participant.
type Identity struct {
	Entry
	ExpiresAt time.Time
}

// Admission is the outcome of a successful login.
type Admission struct {
	Identity Identity
	Session  *session.ExamSession
	Resumed  bool
}

// Gate applies the login rules in order: known passcode, not expired, not
// locked. It then resumes an in-progress session or builds a new one.
type Gate struct {
	Roster    *Roster
	Pool      *question.Pool
	Tracker   *session.Tracker
	Locks     store.LockRepo
	Builder   SessionBuilder
	Finalizer Finalizer

	Validity     time.Duration
	LockDuration time.Duration
	Logger       zerolog.Logger
}

// Identify checks the passcode against the roster and its validity window.
func (g *Gate) Identify(passcode string, now time.Time) (Identity, error) {
	entry, err := g.Roster.Lookup(passcode)
	if err != nil {
		g.Logger.Info().Err(err).Msg("login rejected")
		return Identity{}, err
	}
	id := Identity{Entry: entry, ExpiresAt: entry.RotationStart.Add(g.validity())}
	if now.After(id.ExpiresAt) {
		g.Logger.Info().Str("participant", entry.ParticipantID).Time("expired", id.ExpiresAt).Msg("login rejected")
		return Identity{}, fmt.Errorf("%w on %s", ErrExpiredPasscode, id.ExpiresAt.Format(rotationLayout))
	}
	return id, nil
}

// Authenticate admits the holder of passcode at now. A stored in-progress
// session is resumed unchanged. A completed session is re-finalized if
// needed, then replaced once its lock has elapsed.
func (g *Gate) Authenticate(ctx context.Context, passcode string, now time.Time) (*Admission, error) {
	id, err := g.Identify(passcode, now)
	if err != nil {
		return nil, err
	}
	log := g.Logger.With().Str("participant", id.ParticipantID).Logger()

	prior, err := g.Tracker.Load(ctx, id.ParticipantID)
	if err != nil {
		return nil, err
	}

	if prior != nil && prior.Phase() == session.PhaseInProgress {
		log.Info().Str("session", prior.ID).Int("position", prior.Position).Msg("session resumed")
		return &Admission{Identity: id, Session: prior, Resumed: true}, nil
	}

	if prior != nil && !prior.Finalization.Done() && g.Finalizer != nil {
		if err := g.Finalizer.Finalize(ctx, prior); err != nil {
			return nil, err
		}
	}

	passcodes := []string{passcode}
	if prior != nil && prior.Passcode != "" && prior.Passcode != passcode {
		passcodes = append(passcodes, prior.Passcode)
	}
	if err := g.checkLocks(ctx, passcodes, now); err != nil {
		log.Info().Err(err).Msg("login rejected")
		return nil, err
	}

	if prior != nil {
		if err := g.Tracker.Discard(ctx, id.ParticipantID); err != nil {
			return nil, err
		}
		log.Info().Str("session", prior.ID).Msg("completed session discarded")
	}

	s, err := g.Builder.Build(ctx, id.ParticipantID, passcode, g.candidates(id, log))
	if err != nil {
		return nil, err
	}
	if err := g.Tracker.Save(ctx, s); err != nil {
		return nil, err
	}
	return &Admission{Identity: id, Session: s}, nil
}

// checkLocks fails with a *LockedError if any passcode is still locked.
func (g *Gate) checkLocks(ctx context.Context, passcodes []string, now time.Time) error {
	var until time.Time
	for _, p := range passcodes {
		lockedAt, ok, err := g.Locks.Get(ctx, p)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if end := lockedAt.Add(g.lockDuration()); now.Before(end) && end.After(until) {
			until = end
		}
	}
	if !until.IsZero() {
		return &LockedError{Until: until}
	}
	return nil
}

// candidates applies the passcode's subject filter, falling back to the
// full pool when the filter matches nothing.
func (g *Gate) candidates(id Identity, log zerolog.Logger) *question.Pool {
	if id.Subject == "" {
		return g.Pool
	}
	filtered := g.Pool.Filter(id.Subject)
	if filtered.Len() == 0 {
		log.Warn().Str("subject", id.Subject).Msg("subject filter matched no questions, using full pool")
		return g.Pool
	}
	return filtered
}

func (g *Gate) validity() time.Duration {
	if g.Validity <= 0 {
		return DefaultValidity
	}
	return g.Validity
}

func (g *Gate) lockDuration() time.Duration {
	if g.LockDuration <= 0 {
		return DefaultLockDuration
	}
	return g.LockDuration
}
