package store

import (
	"context"
	"database/sql"
	"errors"

	entsql "entgo.io/ent/dialect/sql"
)

const sessionTable = "exam_sessions"

// sessionRepo implements SessionRepo. Each save overwrites the previous
// snapshot for the participant.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Load(ctx context.Context, participantID string) (*SessionSnapshot, error) {
	query, args := builder.Select("participant_id", "session_id", "complete", "data", "updated_at").
		From(builder.Table(sessionTable)).
		Where(entsql.EQ("participant_id", participantID)).
		Query()

	var (
		snap     SessionSnapshot
		complete int64
		data     string
		updated  int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&snap.ParticipantID, &snap.SessionID, &complete, &data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fail("load session", err)
	}
	snap.Complete = complete != 0
	snap.Data = []byte(data)
	snap.UpdatedAt = fromMillis(updated)
	return &snap, nil
}

func (r *sessionRepo) Save(ctx context.Context, snap *SessionSnapshot) error {
	complete := 0
	if snap.Complete {
		complete = 1
	}
	query, args := builder.Insert(sessionTable).
		Columns("participant_id", "session_id", "complete", "data", "updated_at").
		Values(snap.ParticipantID, snap.SessionID, complete, string(snap.Data), millis(snap.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("participant_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("save session", err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, participantID string) error {
	query, args := builder.Delete(sessionTable).
		Where(entsql.EQ("participant_id", participantID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("delete session", err)
	}
	return nil
}
