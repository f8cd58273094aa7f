package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const resultTable = "exam_results"

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Append(ctx context.Context, res *Result) (bool, error) {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query, args := builder.Insert(resultTable).
		Columns("id", "session_id", "participant_id", "passcode", "score", "total", "data", "created_at").
		Values(res.ID, res.SessionID, res.ParticipantID, res.Passcode, res.Score, res.Total, string(res.Data), millis(res.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.DoNothing(),
		).
		Query()
	out, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fail("append result", err)
	}
	n, err := out.RowsAffected()
	if err != nil {
		return false, fail("append result", err)
	}
	return n > 0, nil
}

func (r *resultRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := count(ctx, r.db, resultTable, entsql.EQ("session_id", sessionID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *resultRepo) List(ctx context.Context, participantID string) ([]Result, error) {
	sel := builder.Select("id", "session_id", "participant_id", "passcode", "score", "total", "data", "created_at").
		From(builder.Table(resultTable)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	if participantID != "" {
		sel.Where(entsql.EQ("participant_id", participantID))
	}
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail("list results", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			res     Result
			data    string
			created int64
		)
		if err := rows.Scan(&res.ID, &res.SessionID, &res.ParticipantID, &res.Passcode,
			&res.Score, &res.Total, &data, &created); err != nil {
			return nil, fail("scan result", err)
		}
		res.Data = []byte(data)
		res.CreatedAt = fromMillis(created)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("iterate results", err)
	}
	return out, nil
}
