// Package recommend schedules questions a participant must see again and
// stores the subjects recommended to each participant.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/shelfexam/internal/store"
)

// DefaultDelay is how long a missed question waits before it is re-served.
const DefaultDelay = 48 * time.Hour

// Queue is a durable per-participant queue of pending recommendations.
// Delivery is at most once: a due entry is deleted as it is handed out.
type Queue struct {
	repo store.RecommendationRepo
	now  func() time.Time
}

// NewQueue creates a Queue backed by repo.
func NewQueue(repo store.RecommendationRepo) *Queue {
	return &Queue{repo: repo, now: time.Now}
}

// WithClock replaces the queue's time source used by Enqueue.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// HasPending reports whether any recommendation exists, due or not.
func (q *Queue) HasPending(ctx context.Context, participantID string) (bool, error) {
	n, err := q.repo.Count(ctx, participantID)
	if err != nil {
		return false, fmt.Errorf("has pending: %w", err)
	}
	return n > 0, nil
}

// NextDue removes and returns the earliest recommendation due at now. ok is
// false when nothing is due.
func (q *Queue) NextDue(ctx context.Context, participantID string, now time.Time) (questionID string, ok bool, err error) {
	rec, err := q.repo.TakeDue(ctx, participantID, now)
	if err != nil {
		return "", false, fmt.Errorf("next due: %w", err)
	}
	if rec == nil {
		return "", false, nil
	}
	return rec.QuestionID, true, nil
}

// Enqueue schedules questionID to be due delay from now. Enqueues are
// append-only; repeated calls for the same question are kept separately.
func (q *Queue) Enqueue(ctx context.Context, participantID, questionID string, delay time.Duration) error {
	if err := q.repo.Add(ctx, participantID, questionID, q.now().Add(delay)); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// Pending lists every outstanding recommendation by due time.
func (q *Queue) Pending(ctx context.Context, participantID string) ([]store.Recommendation, error) {
	recs, err := q.repo.List(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}
	return recs, nil
}
