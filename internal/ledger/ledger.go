// Package ledger tracks which questions each participant has seen within a
// rolling exclusion window.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/shelfexam/internal/store"
)

// DefaultWindow is how long an administered question stays excluded.
const DefaultWindow = 7 * 24 * time.Hour

// Ledger records question usage per participant. Expired entries are purged
// lazily whenever a participant's usage is read.
type Ledger struct {
	repo   store.UsageRepo
	window time.Duration
	now    func() time.Time
}

// New creates a Ledger backed by repo. A non-positive window selects
// DefaultWindow.
func New(repo store.UsageRepo, window time.Duration) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Ledger{repo: repo, window: window, now: time.Now}
}

// WithClock replaces the ledger's time source.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Window returns the exclusion window length.
func (l *Ledger) Window() time.Duration {
	return l.window
}

// UsedQuestionIDs returns the ids administered to participantID within the
// window, purging entries that have aged out.
func (l *Ledger) UsedQuestionIDs(ctx context.Context, participantID string) (map[string]struct{}, error) {
	cutoff := l.now().Add(-l.window)
	ids, err := l.repo.Active(ctx, participantID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("used question ids: %w", err)
	}
	used := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		used[id] = struct{}{}
	}
	return used, nil
}

// MarkUsed stamps every id with the current time. Marking an id again only
// refreshes its timestamp.
func (l *Ledger) MarkUsed(ctx context.Context, participantID string, questionIDs []string) error {
	seen := make(map[string]bool, len(questionIDs))
	unique := make([]string, 0, len(questionIDs))
	for _, id := range questionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if err := l.repo.Touch(ctx, participantID, unique, l.now()); err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	return nil
}
