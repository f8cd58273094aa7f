package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
)

const subjectTable = "recommended_subjects"

type subjectRepo struct {
	db *sql.DB
}

func (r *subjectRepo) Add(ctx context.Context, participantID, subject string) error {
	query, args := builder.Insert(subjectTable).
		Columns("participant_id", "subject").
		Values(participantID, subject).
		OnConflict(
			entsql.ConflictColumns("participant_id", "subject"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("add subject", err)
	}
	return nil
}

func (r *subjectRepo) Remove(ctx context.Context, participantID, subject string) error {
	query, args := builder.Delete(subjectTable).
		Where(entsql.And(
			entsql.EQ("participant_id", participantID),
			entsql.EQ("subject", subject),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("remove subject", err)
	}
	return nil
}

func (r *subjectRepo) List(ctx context.Context, participantID string) ([]string, error) {
	query, args := builder.Select("subject").
		From(builder.Table(subjectTable)).
		Where(entsql.EQ("participant_id", participantID)).
		OrderBy("subject").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail("list subjects", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fail("scan subject", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("iterate subjects", err)
	}
	return out, nil
}
