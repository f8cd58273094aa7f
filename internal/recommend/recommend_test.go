package recommend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/shelfexam/internal/store"
)

var start = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.DSN(filepath.Join(t.TempDir(), "rec.db")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestQueue_DueOnlyAfterDelay(t *testing.T) {
	q := NewQueue(openStore(t).RecommendationRepo()).WithClock(func() time.Time { return start })
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "ann@x.org", "q3", DefaultDelay))

	pending, err := q.HasPending(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.True(t, pending)

	_, ok, err := q.NextDue(ctx, "ann@x.org", start.Add(DefaultDelay-time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "surfaced before due")

	id, ok, err := q.NextDue(ctx, "ann@x.org", start.Add(DefaultDelay))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q3", id)

	// Consumed exactly once.
	_, ok, err = q.NextDue(ctx, "ann@x.org", start.Add(DefaultDelay))
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err = q.HasPending(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestQueue_AppendOnly(t *testing.T) {
	q := NewQueue(openStore(t).RecommendationRepo()).WithClock(func() time.Time { return start })
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "ann@x.org", "q3", time.Hour))
	require.NoError(t, q.Enqueue(ctx, "ann@x.org", "q3", 2*time.Hour))

	recs, err := q.Pending(ctx, "ann@x.org")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].DueAt.Before(recs[1].DueAt))
}

func TestSubjects_Normalized(t *testing.T) {
	s := NewSubjects(openStore(t).SubjectRepo())
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "ann@x.org", "  Surgery "))
	require.NoError(t, s.Add(ctx, "ann@x.org", "surgery"))
	require.NoError(t, s.Add(ctx, "ann@x.org", "Pediatrics"))
	assert.ErrorIs(t, s.Add(ctx, "ann@x.org", "  "), ErrEmptySubject)

	tags, err := s.Tags(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.Equal(t, []string{"pediatrics", "surgery"}, tags)

	require.NoError(t, s.Remove(ctx, "ann@x.org", "SURGERY"))
	tags, err = s.Tags(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.Equal(t, []string{"pediatrics"}, tags)
}
