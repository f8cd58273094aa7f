package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/shelfexam/internal/question"
)

// DefaultSize is the number of questions in a session.
const DefaultSize = 5

// UsageLedger is the part of the usage ledger the builder needs.
type UsageLedger interface {
	UsedQuestionIDs(ctx context.Context, participantID string) (map[string]struct{}, error)
	MarkUsed(ctx context.Context, participantID string, questionIDs []string) error
}

// RecommendationSource supplies due pending recommendations.
type RecommendationSource interface {
	HasPending(ctx context.Context, participantID string) (bool, error)
	NextDue(ctx context.Context, participantID string, now time.Time) (string, bool, error)
}

// SubjectSource lists the subjects recommended to a participant.
type SubjectSource interface {
	Tags(ctx context.Context, participantID string) ([]string, error)
}

// Builder assembles new exam sessions.
type Builder struct {
	// Pool is the full question pool. Special questions are looked up here
	// even when a build samples from a filtered subset.
	Pool *question.Pool

	Ledger          UsageLedger
	Recommendations RecommendationSource
	Subjects        SubjectSource // optional

	Size   int
	Logger zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewBuilder creates a Builder. A nil rng is seeded randomly.
func NewBuilder(pool *question.Pool, ledger UsageLedger, recs RecommendationSource, subjects SubjectSource, size int, rng *rand.Rand, logger zerolog.Logger) *Builder {
	if size <= 0 {
		size = DefaultSize
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{
		Pool:            pool,
		Ledger:          ledger,
		Recommendations: recs,
		Subjects:        subjects,
		Size:            size,
		Logger:          logger,
		rng:             rng,
		now:             time.Now,
	}
}

// WithClock replaces the builder's time source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build creates a session for participantID. Standard questions are sampled
// from candidates, or from the full pool when candidates is nil. Every
// selected question is marked used.
func (b *Builder) Build(ctx context.Context, participantID, passcode string, candidates *question.Pool) (*ExamSession, error) {
	if candidates == nil {
		candidates = b.Pool
	}
	now := b.now()

	used, err := b.Ledger.UsedQuestionIDs(ctx, participantID)
	if err != nil {
		return nil, err
	}

	special, hasSpecial, err := b.pickSpecial(ctx, participantID, now, used)
	if err != nil {
		return nil, err
	}
	if hasSpecial {
		delete(used, special.QuestionID)
	}

	var eligible []string
	for _, id := range candidates.IDs() {
		if _, excluded := used[id]; excluded {
			continue
		}
		if hasSpecial && id == special.QuestionID {
			continue
		}
		eligible = append(eligible, id)
	}
	if len(eligible) == 0 && !hasSpecial {
		return nil, ErrPoolExhausted
	}

	need := b.Size
	if hasSpecial {
		need--
	}

	b.mu.Lock()
	ids := b.sample(eligible, candidates, special, need, participantID)
	items := make([]Item, 0, b.Size)
	if hasSpecial {
		items = append(items, special)
	}
	for _, id := range ids {
		items = append(items, Item{QuestionID: id, Result: ResultUnanswered})
	}
	b.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	b.mu.Unlock()

	s := &ExamSession{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Passcode:      passcode,
		Items:         items,
		StartedAt:     now,
	}
	if err := b.Ledger.MarkUsed(ctx, participantID, s.QuestionIDs()); err != nil {
		return nil, err
	}

	b.Logger.Info().
		Str("participant", participantID).
		Str("session", s.ID).
		Int("questions", len(items)).
		Bool("special", hasSpecial).
		Msg("session built")
	return s, nil
}

// sample draws need ids without replacement. When eligible runs short the
// remainder is drawn with replacement. Callers hold b.mu.
func (b *Builder) sample(eligible []string, candidates *question.Pool, special Item, need int, participantID string) []string {
	if need <= 0 {
		return nil
	}
	if len(eligible) >= need {
		perm := b.rng.Perm(len(eligible))
		out := make([]string, need)
		for i := range need {
			out[i] = eligible[perm[i]]
		}
		return out
	}

	source := eligible
	if len(source) == 0 {
		source = candidates.IDs()
	}
	if len(source) == 0 {
		source = []string{special.QuestionID}
	}
	b.Logger.Warn().
		Str("participant", participantID).
		Int("eligible", len(eligible)).
		Int("needed", need).
		Msg("eligible pool too small, sampling with replacement")

	out := append([]string(nil), eligible...)
	for len(out) < need {
		out = append(out, source[b.rng.IntN(len(source))])
	}
	return out
}

// pickSpecial selects at most one special question. A due pending
// recommendation wins. Otherwise, only when nothing is pending at all, a
// question is drawn from a random recommended subject.
func (b *Builder) pickSpecial(ctx context.Context, participantID string, now time.Time, used map[string]struct{}) (Item, bool, error) {
	if b.Recommendations != nil {
		id, ok, err := b.Recommendations.NextDue(ctx, participantID, now)
		if err != nil {
			return Item{}, false, err
		}
		if ok {
			if b.Pool.Has(id) {
				return Item{QuestionID: id, Origin: OriginPending, Result: ResultUnanswered}, true, nil
			}
			b.Logger.Warn().
				Str("participant", participantID).
				Str("question", id).
				Msg("pending recommendation references unknown question, dropped")
			return Item{}, false, nil
		}

		pending, err := b.Recommendations.HasPending(ctx, participantID)
		if err != nil {
			return Item{}, false, err
		}
		if pending {
			return Item{}, false, nil
		}
	}

	if b.Subjects == nil {
		return Item{}, false, nil
	}
	tags, err := b.Subjects.Tags(ctx, participantID)
	if err != nil {
		return Item{}, false, fmt.Errorf("recommended subjects: %w", err)
	}
	if len(tags) == 0 {
		return Item{}, false, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subject := tags[b.rng.IntN(len(tags))]
	ids := b.Pool.BySubject(subject)
	if len(ids) == 0 {
		b.Logger.Warn().Str("subject", subject).Msg("recommended subject has no questions")
		return Item{}, false, nil
	}
	var fresh []string
	for _, id := range ids {
		if _, seen := used[id]; !seen {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) > 0 {
		ids = fresh
	}
	return Item{QuestionID: ids[b.rng.IntN(len(ids))], Origin: OriginRecommended, Result: ResultUnanswered}, true, nil
}
