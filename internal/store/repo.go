package store

import (
	"context"
	"time"
)

// UsageRepo records which questions each participant has been shown.
type UsageRepo interface {
	// Touch upserts a usage entry for every id, stamping it with usedAt.
	Touch(ctx context.Context, participantID string, questionIDs []string, usedAt time.Time) error

	// Active returns the ids used at or after cutoff. Entries older than
	// cutoff are inert and are deleted in the same transaction.
	Active(ctx context.Context, participantID string, cutoff time.Time) ([]string, error)

	// Count returns the number of stored entries for a participant.
	Count(ctx context.Context, participantID string) (int, error)
}

// Recommendation is a question scheduled to be re-served to a participant.
type Recommendation struct {
	ID            int64
	ParticipantID string
	QuestionID    string
	DueAt         time.Time
}

// RecommendationRepo stores pending recommendations.
type RecommendationRepo interface {
	// Add appends a pending recommendation.
	Add(ctx context.Context, participantID, questionID string, dueAt time.Time) error

	// Count returns the number of pending recommendations, due or not.
	Count(ctx context.Context, participantID string) (int, error)

	// TakeDue removes and returns the earliest recommendation due at now,
	// or nil when none is due. A recommendation is returned to at most one caller.
	TakeDue(ctx context.Context, participantID string, now time.Time) (*Recommendation, error)

	// List returns all pending recommendations ordered by due time.
	List(ctx context.Context, participantID string) ([]Recommendation, error)
}

// SubjectRepo stores the subject tags recommended to each participant.
type SubjectRepo interface {
	Add(ctx context.Context, participantID, subject string) error
	Remove(ctx context.Context, participantID, subject string) error
	List(ctx context.Context, participantID string) ([]string, error)
}

// SessionSnapshot is the serialized state of one participant's exam session.
type SessionSnapshot struct {
	ParticipantID string
	SessionID     string
	Complete      bool
	Data          []byte
	UpdatedAt     time.Time
}

// SessionRepo persists one session snapshot per participant.
type SessionRepo interface {
	// Load returns the stored snapshot, or nil if none exists.
	Load(ctx context.Context, participantID string) (*SessionSnapshot, error)

	// Save replaces the participant's snapshot.
	Save(ctx context.Context, snap *SessionSnapshot) error

	// Delete removes the participant's snapshot.
	Delete(ctx context.Context, participantID string) error
}

// LockRepo manages time-bounded passcode locks.
type LockRepo interface {
	// Acquire records a lock at now unless an existing lock is newer than
	// staleBefore. It reports whether this caller won the lock.
	Acquire(ctx context.Context, passcode string, now, staleBefore time.Time) (bool, error)

	// Get returns when the passcode was locked, or false if it never was.
	Get(ctx context.Context, passcode string) (time.Time, bool, error)

	// Release removes any lock on the passcode.
	Release(ctx context.Context, passcode string) error
}

// Result is one finalized exam outcome.
type Result struct {
	ID            string
	SessionID     string
	ParticipantID string
	Passcode      string
	Score         int
	Total         int
	Data          []byte
	CreatedAt     time.Time
}

// ResultRepo appends exam results. Each session produces at most one.
type ResultRepo interface {
	// Append stores r unless a result for r.SessionID exists. It reports
	// whether a row was written.
	Append(ctx context.Context, r *Result) (bool, error)

	// Exists reports whether a result for sessionID has been recorded.
	Exists(ctx context.Context, sessionID string) (bool, error)

	// List returns results ordered by creation time. An empty
	// participantID lists every participant.
	List(ctx context.Context, participantID string) ([]Result, error)
}
