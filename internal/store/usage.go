package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const usageTable = "usage_entries"

// usageRepo implements UsageRepo over the usage_entries table.
type usageRepo struct {
	db *sql.DB
}

func (r *usageRepo) Touch(ctx context.Context, participantID string, questionIDs []string, usedAt time.Time) error {
	if len(questionIDs) == 0 {
		return nil
	}
	ins := builder.Insert(usageTable).Columns("participant_id", "question_id", "used_at")
	for _, id := range questionIDs {
		ins.Values(participantID, id, millis(usedAt))
	}
	ins.OnConflict(
		entsql.ConflictColumns("participant_id", "question_id"),
		entsql.ResolveWithNewValues(),
	)
	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("touch usage", err)
	}
	return nil
}

func (r *usageRepo) Active(ctx context.Context, participantID string, cutoff time.Time) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fail("begin usage query", err)
	}
	defer tx.Rollback()

	del, args := builder.Delete(usageTable).
		Where(entsql.And(
			entsql.EQ("participant_id", participantID),
			entsql.LT("used_at", millis(cutoff)),
		)).Query()
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return nil, fail("prune usage", err)
	}

	query, args := builder.Select("question_id").
		From(builder.Table(usageTable)).
		Where(entsql.EQ("participant_id", participantID)).
		OrderBy("question_id").
		Query()
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail("query usage", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fail("scan usage", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("iterate usage", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fail("commit usage query", err)
	}
	return ids, nil
}

func (r *usageRepo) Count(ctx context.Context, participantID string) (int, error) {
	return count(ctx, r.db, usageTable, entsql.EQ("participant_id", participantID))
}

// count runs SELECT COUNT(*) against table filtered by where.
func count(ctx context.Context, db *sql.DB, table string, where *entsql.Predicate) (int, error) {
	query, args := builder.Select(entsql.Count("*")).
		From(builder.Table(table)).
		Where(where).
		Query()
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fail("count "+table, err)
	}
	return n, nil
}
