package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/shelfexam/internal/store"
)

func TestTracker_RoundTripInProgress(t *testing.T) {
	st, err := store.Open(store.DSN(filepath.Join(t.TempDir(), "tracker.db")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tr := NewTracker(st.SessionRepo())
	ctx := context.Background()
	pool := testPool(t, 10)

	missing, err := tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.Nil(t, missing)

	s := newSession("1", "2", "3", "4", "5")
	s.Items[3].Origin = OriginRecommended
	s.StartedAt = finish
	require.NoError(t, s.SubmitAnswer(0, "b", mustGet(t, pool, "1")))
	require.NoError(t, s.Advance(finish))
	require.NoError(t, s.SubmitAnswer(1, "c", mustGet(t, pool, "2")))
	require.NoError(t, s.Advance(finish))
	require.NoError(t, tr.Save(ctx, s))

	got, err := tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 2, got.Position)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, PhaseInProgress, got.Phase())
	assert.Equal(t, s.Items, got.Items)
	assert.True(t, got.StartedAt.Equal(finish))
	assert.Equal(t, s.Passcode, got.Passcode)

	require.NoError(t, tr.Discard(ctx, "ann@x.org"))
	gone, err := tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
