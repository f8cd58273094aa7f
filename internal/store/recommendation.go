package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const recommendationTable = "pending_recommendations"

// takeAttempts bounds retries when a concurrent consumer claims the same row.
const takeAttempts = 5

// recommendationRepo implements RecommendationRepo.
type recommendationRepo struct {
	db *sql.DB
}

func (r *recommendationRepo) Add(ctx context.Context, participantID, questionID string, dueAt time.Time) error {
	query, args := builder.Insert(recommendationTable).
		Columns("participant_id", "question_id", "due_at").
		Values(participantID, questionID, millis(dueAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("add recommendation", err)
	}
	return nil
}

func (r *recommendationRepo) Count(ctx context.Context, participantID string) (int, error) {
	return count(ctx, r.db, recommendationTable, entsql.EQ("participant_id", participantID))
}

func (r *recommendationRepo) TakeDue(ctx context.Context, participantID string, now time.Time) (*Recommendation, error) {
	for range takeAttempts {
		rec, taken, err := r.takeOnce(ctx, participantID, now)
		if err != nil {
			return nil, err
		}
		if rec == nil || taken {
			return rec, nil
		}
	}
	return nil, fail("take recommendation", fmt.Errorf("lost claim %d times", takeAttempts))
}

// takeOnce claims the earliest due row. taken is false when another
// consumer deleted the row between select and delete.
func (r *recommendationRepo) takeOnce(ctx context.Context, participantID string, now time.Time) (*Recommendation, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fail("begin take recommendation", err)
	}
	defer tx.Rollback()

	query, args := builder.Select("id", "participant_id", "question_id", "due_at").
		From(builder.Table(recommendationTable)).
		Where(entsql.And(
			entsql.EQ("participant_id", participantID),
			entsql.LTE("due_at", millis(now)),
		)).
		OrderBy(entsql.Asc("due_at"), entsql.Asc("id")).
		Limit(1).
		Query()

	var (
		rec Recommendation
		due int64
	)
	err = tx.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.ParticipantID, &rec.QuestionID, &due)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fail("select due recommendation", err)
	}
	rec.DueAt = fromMillis(due)

	del, args := builder.Delete(recommendationTable).
		Where(entsql.EQ("id", rec.ID)).
		Query()
	res, err := tx.ExecContext(ctx, del, args...)
	if err != nil {
		return nil, false, fail("consume recommendation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fail("consume recommendation", err)
	}
	if n == 0 {
		return &rec, false, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fail("commit take recommendation", err)
	}
	return &rec, true, nil
}

func (r *recommendationRepo) List(ctx context.Context, participantID string) ([]Recommendation, error) {
	query, args := builder.Select("id", "participant_id", "question_id", "due_at").
		From(builder.Table(recommendationTable)).
		Where(entsql.EQ("participant_id", participantID)).
		OrderBy(entsql.Asc("due_at"), entsql.Asc("id")).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail("list recommendations", err)
	}
	defer rows.Close()

	var out []Recommendation
	for rows.Next() {
		var (
			rec Recommendation
			due int64
		)
		if err := rows.Scan(&rec.ID, &rec.ParticipantID, &rec.QuestionID, &due); err != nil {
			return nil, fail("scan recommendation", err)
		}
		rec.DueAt = fromMillis(due)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("iterate recommendations", err)
	}
	return out, nil
}
