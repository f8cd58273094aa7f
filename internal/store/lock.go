package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const lockTable = "passcode_locks"

type lockRepo struct {
	db *sql.DB
}

// Acquire is a single upsert: a fresh row always wins, and an existing row
// is only overwritten when its lock has gone stale.
func (r *lockRepo) Acquire(ctx context.Context, passcode string, now, staleBefore time.Time) (bool, error) {
	query, args := builder.Insert(lockTable).
		Columns("passcode", "locked_at").
		Values(passcode, millis(now)).
		OnConflict(
			entsql.ConflictColumns("passcode"),
			entsql.ResolveWithNewValues(),
			entsql.UpdateWhere(entsql.LTE("locked_at", millis(staleBefore))),
		).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fail("acquire lock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fail("acquire lock", err)
	}
	return n > 0, nil
}

func (r *lockRepo) Get(ctx context.Context, passcode string) (time.Time, bool, error) {
	query, args := builder.Select("locked_at").
		From(builder.Table(lockTable)).
		Where(entsql.EQ("passcode", passcode)).
		Query()
	var at int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fail("get lock", err)
	}
	return fromMillis(at), true, nil
}

func (r *lockRepo) Release(ctx context.Context, passcode string) error {
	query, args := builder.Delete(lockTable).
		Where(entsql.EQ("passcode", passcode)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fail("release lock", err)
	}
	return nil
}
