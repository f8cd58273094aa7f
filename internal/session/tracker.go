package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/shelfexam/internal/store"
)

// Tracker persists full session snapshots keyed by participant.
type Tracker struct {
	repo store.SessionRepo
	now  func() time.Time
}

// NewTracker creates a Tracker backed by repo.
func NewTracker(repo store.SessionRepo) *Tracker {
	return &Tracker{repo: repo, now: time.Now}
}

// WithClock replaces the tracker's time source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Load returns the participant's stored session, or nil if none exists.
func (t *Tracker) Load(ctx context.Context, participantID string) (*ExamSession, error) {
	snap, err := t.repo.Load(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	var s ExamSession
	if err := json.Unmarshal(snap.Data, &s); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return &s, nil
}

// Save writes the complete session state, replacing any previous snapshot.
func (t *Tracker) Save(ctx context.Context, s *ExamSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	return t.repo.Save(ctx, &store.SessionSnapshot{
		ParticipantID: s.ParticipantID,
		SessionID:     s.ID,
		Complete:      s.Complete,
		Data:          data,
		UpdatedAt:     t.now(),
	})
}

// Discard removes the participant's stored session.
func (t *Tracker) Discard(ctx context.Context, participantID string) error {
	return t.repo.Delete(ctx, participantID)
}
