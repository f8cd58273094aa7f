package exam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/recommend"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/store"
)

const testRoster = `
[recipients]
P1 = "Ann@X.org|2026-06-01"
P2 = "bob@x.org|2026-01-01"
P3_sur = "cy@x.org|2026-06-01"
P4 = "ann@x.org|2026-06-01"
BAD = "no-date-here"

[subjects]
sur = "surgery"
`

type mail struct{ to, subject, body string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail{to, subject, body})
	return nil
}

type harness struct {
	svc    *Service
	store  *store.Store
	mailer *fakeMailer
	now    time.Time
}

func (h *harness) clock() time.Time        { return h.now }
func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func newHarness(t *testing.T, n int) *harness {
	t.Helper()
	st, err := store.Open(store.DSN(filepath.Join(t.TempDir(), "exam.db")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	roster, err := access.ParseRoster([]byte(testRoster))
	require.NoError(t, err)

	records := make([]question.Record, n)
	for i := range n {
		subject := "medicine"
		if i%2 == 1 {
			subject = "surgery"
		}
		records[i] = question.Record{
			ID:          fmt.Sprintf("%d", i+1),
			Subject:     subject,
			Stem:        fmt.Sprintf("Stem %d", i+1),
			Choices:     map[question.Letter]string{"a": "wrong", "b": "right", "c": "other"},
			Correct:     "b",
			Explanation: "because",
		}
	}
	pool, err := question.NewPool(records)
	require.NoError(t, err)

	h := &harness{
		store:  st,
		mailer: &fakeMailer{},
		now:    time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	h.svc = New(Options{
		Pool:   pool,
		Store:  st,
		Roster: roster,
		Mailer: h.mailer,
		Rand:   rand.New(rand.NewPCG(7, 11)),
		Clock:  h.clock,
		Logger: zerolog.New(io.Discard),
	})
	return h
}

// finish answers every remaining question, choosing the wrong letter when
// wrong reports true for the item.
func finish(t *testing.T, a *Attempt, wrong func(i int, it session.Item) bool) {
	t.Helper()
	ctx := context.Background()
	for !a.Completed() {
		v := a.Current()
		letter := question.Letter("b")
		if wrong(v.Position, v.Item) {
			letter = "a"
		}
		require.NoError(t, a.Answer(ctx, letter))
		require.NoError(t, a.Next(ctx))
	}
}

func TestLogin_Errors(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	_, err := h.svc.Login(ctx, "nope")
	assert.ErrorIs(t, err, access.ErrInvalidPasscode)

	_, err = h.svc.Login(ctx, "BAD")
	assert.ErrorIs(t, err, access.ErrInvalidPasscode)

	_, err = h.svc.Login(ctx, "P2")
	assert.ErrorIs(t, err, access.ErrExpiredPasscode)
	assert.Contains(t, Describe(err), "expired")
}

func TestCompleteThenLockedThenFresh(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.org", a.Identity().ParticipantID)
	assert.Equal(t, session.DefaultSize, a.Current().Total)
	first := a.Summary().Items

	finish(t, a, func(i int, _ session.Item) bool { return i >= 3 })

	sum := a.Summary()
	assert.Equal(t, 3, sum.Score)
	assert.Equal(t, 5, sum.Total)

	recs, err := h.svc.Results(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Score)
	assert.Equal(t, 5, recs[0].TotalQuestions)

	// One review mail with a missed question.
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "Ann@X.org", h.mailer.sent[0].to)

	h.advance(5 * time.Hour)
	_, err = h.svc.Login(ctx, "P1")
	var locked *access.LockedError
	require.ErrorAs(t, err, &locked)
	assert.True(t, locked.Until.Equal(h.now.Add(time.Hour)))
	assert.ErrorIs(t, err, access.ErrLocked)

	h.advance(time.Hour)
	b, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, b.Resumed())
	assert.False(t, b.Completed())
	seen := make(map[string]bool)
	for _, it := range first {
		seen[it.QuestionID] = true
	}
	for _, it := range b.Summary().Items {
		assert.False(t, seen[it.QuestionID], "question %s repeated", it.QuestionID)
	}

	// Still exactly one result for the first session.
	recs, err = h.svc.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestResumeRestoresState(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	require.NoError(t, a.Answer(ctx, "b"))
	require.NoError(t, a.Next(ctx))
	require.NoError(t, a.Answer(ctx, "a"))
	require.NoError(t, a.Next(ctx))
	before := a.Summary()

	h.advance(time.Minute)
	b, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, b.Resumed())

	v := b.Current()
	assert.Equal(t, 2, v.Position)
	assert.Equal(t, 1, v.Score)
	assert.Equal(t, 2, v.Answered)
	assert.Equal(t, before.Items, b.Summary().Items)
}

func TestAnswerTwiceKeepsScore(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	require.NoError(t, a.Answer(ctx, "b"))
	err = a.Answer(ctx, "b")
	assert.ErrorIs(t, err, session.ErrAlreadyAnswered)
	assert.Equal(t, 1, a.Current().Score)

	err = a.Jump(ctx, 3)
	assert.ErrorIs(t, err, session.ErrInvalidPosition)
}

func TestMissedRecommendedQuestionReturnsAsPending(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	subjects := recommend.NewSubjects(h.store.SubjectRepo())
	require.NoError(t, subjects.Add(ctx, "ann@x.org", "surgery"))

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)

	var missed string
	finish(t, a, func(_ int, it session.Item) bool {
		if it.Origin == session.OriginRecommended {
			missed = it.QuestionID
			return true
		}
		return false
	})
	require.NotEmpty(t, missed, "no recommended-origin question in session")

	stats, err := h.svc.Stats(ctx, "ann@x.org")
	require.NoError(t, err)
	require.Len(t, stats.Pending, 1)
	assert.Equal(t, missed, stats.Pending[0].QuestionID)

	// Lock has elapsed but the recommendation is not yet due: no special.
	h.advance(7 * time.Hour)
	b, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	for _, it := range b.Summary().Items {
		assert.Equal(t, session.OriginStandard, it.Origin)
	}
	finish(t, b, func(int, session.Item) bool { return false })

	h.advance(41 * time.Hour)
	c, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	var found bool
	for _, it := range c.Summary().Items {
		if it.QuestionID == missed {
			found = true
			assert.Equal(t, session.OriginPending, it.Origin)
		}
	}
	assert.True(t, found, "missed question %s not re-served", missed)
}

func TestSubjectDesignationFiltersPool(t *testing.T) {
	h := newHarness(t, 20)

	a, err := h.svc.Login(context.Background(), "P3_sur")
	require.NoError(t, err)
	for _, it := range a.Summary().Items {
		rec, ok := h.svc.Pool().Get(it.QuestionID)
		require.True(t, ok)
		assert.Equal(t, "surgery", rec.Subject)
	}
}

func TestRefinalizeAfterInterruptedCompletion(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	finish(t, a, func(int, session.Item) bool { return true })

	// Simulate a crash after the snapshot was saved but before any
	// finalization step ran.
	tr := session.NewTracker(h.store.SessionRepo())
	s, err := tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	s.Finalization = session.Finalization{}
	require.NoError(t, tr.Save(ctx, s))
	require.NoError(t, h.store.LockRepo().Release(ctx, "P1"))

	_, err = h.svc.Login(ctx, "P1")
	assert.ErrorIs(t, err, access.ErrLocked)

	recs, err := h.svc.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "re-finalization must not duplicate the result")

	s, err = tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	assert.True(t, s.Finalization.Done())
}

func TestReset(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	finish(t, a, func(int, session.Item) bool { return false })

	_, err = h.svc.Login(ctx, "P1")
	require.ErrorIs(t, err, access.ErrLocked)

	require.NoError(t, h.svc.Reset(ctx, "P1"))
	b, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, b.Completed())
}

func TestResetFinalizesPendingCompletion(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	_, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)

	// Complete the stored session without running any finalization step.
	tr := session.NewTracker(h.store.SessionRepo())
	s, err := tr.Load(ctx, "ann@x.org")
	require.NoError(t, err)
	for !s.Complete {
		rec, ok := h.svc.Pool().Get(s.Current().QuestionID)
		require.True(t, ok)
		require.NoError(t, s.SubmitAnswer(s.Position, "b", rec))
		require.NoError(t, s.Advance(h.now))
	}
	require.NoError(t, tr.Save(ctx, s))

	require.NoError(t, h.svc.Reset(ctx, "P1"))

	recs, err := h.svc.Results(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, s.ID, recs[0].SessionID)
	assert.Equal(t, s.Len(), recs[0].Score)

	b, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, b.Summary().SessionID)
}

func TestResetReleasesPriorPasscode(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	finish(t, a, func(int, session.Item) bool { return false })

	// P4 belongs to the same participant; resetting through it must also
	// clear the lock taken under P1.
	require.NoError(t, h.svc.Reset(ctx, "P4"))

	_, err = h.svc.Login(ctx, "P1")
	assert.NoError(t, err)
}

func TestFailedSaveLeavesAttemptUnchanged(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	a, err := h.svc.Login(ctx, "P1")
	require.NoError(t, err)
	before := a.Current()

	require.NoError(t, h.store.Close())

	err = a.Answer(ctx, "b")
	require.ErrorIs(t, err, store.ErrPersistence)
	assert.Equal(t, "Your progress could not be saved. Please try again.", Describe(err))

	after := a.Current()
	assert.Equal(t, session.ResultUnanswered, after.Item.Result)
	assert.False(t, after.ReadOnly)
	assert.Equal(t, 0, after.Score)
	assert.Equal(t, 0, after.Answered)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, before.Record.ID, after.Record.ID)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{access.ErrInvalidPasscode, "Invalid passcode. Please try again."},
		{session.ErrPoolExhausted, "No new questions are available right now. Please try later."},
		{&store.PersistenceError{Op: "save session", Err: errors.New("disk full")}, "Your progress could not be saved. Please try again."},
		{fmt.Errorf("wrapped: %w", session.ErrNotAnswered), "Choose an answer before moving on."},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}
