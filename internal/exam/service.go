// Package exam wires the question pool, usage ledger, recommendation queue,
// session builder, and access gate into the operations a participant drives.
package exam

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/ledger"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/recommend"
	"github.com/abhisek/shelfexam/internal/results"
	"github.com/abhisek/shelfexam/internal/review"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/store"
)

// Options configures a Service. Zero durations and sizes select the
// package defaults.
type Options struct {
	Pool   *question.Pool
	Store  *store.Store
	Roster *access.Roster
	Mailer review.Mailer // nil logs reviews instead of mailing them

	SessionSize         int
	ExclusionWindow     time.Duration
	LockDuration        time.Duration
	RecommendationDelay time.Duration
	PasscodeValidity    time.Duration

	Rand   *rand.Rand
	Clock  func() time.Time
	Logger zerolog.Logger
}

// Service runs exam attempts.
type Service struct {
	pool     *question.Pool
	roster   *access.Roster
	gate     *access.Gate
	tracker  *session.Tracker
	ledger   *ledger.Ledger
	queue    *recommend.Queue
	subjects *recommend.Subjects
	locks    store.LockRepo
	results  *results.Recorder
	reviews  *review.Dispatcher

	lockDuration time.Duration
	delay        time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New assembles a Service from opts.
func New(opts Options) *Service {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	delay := opts.RecommendationDelay
	if delay <= 0 {
		delay = recommend.DefaultDelay
	}
	lockDuration := opts.LockDuration
	if lockDuration <= 0 {
		lockDuration = access.DefaultLockDuration
	}
	mailer := opts.Mailer
	if mailer == nil {
		mailer = review.LogMailer{Logger: opts.Logger}
	}

	st := opts.Store
	s := &Service{
		pool:         opts.Pool,
		roster:       opts.Roster,
		tracker:      session.NewTracker(st.SessionRepo()).WithClock(now),
		ledger:       ledger.New(st.UsageRepo(), opts.ExclusionWindow).WithClock(now),
		queue:        recommend.NewQueue(st.RecommendationRepo()).WithClock(now),
		subjects:     recommend.NewSubjects(st.SubjectRepo()),
		locks:        st.LockRepo(),
		results:      results.NewRecorder(st.ResultRepo()),
		reviews:      &review.Dispatcher{Mailer: mailer, Logger: opts.Logger},
		lockDuration: lockDuration,
		delay:        delay,
		logger:       opts.Logger,
		now:          now,
		// Split the stream so the builder and finalizer draw independently.
		rng: rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())),
	}

	builder := session.NewBuilder(opts.Pool, s.ledger, s.queue, s.subjects, opts.SessionSize,
		rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())), opts.Logger).WithClock(now)

	s.gate = &access.Gate{
		Roster:       opts.Roster,
		Pool:         opts.Pool,
		Tracker:      s.tracker,
		Locks:        s.locks,
		Builder:      builder,
		Finalizer:    s,
		Validity:     opts.PasscodeValidity,
		LockDuration: lockDuration,
		Logger:       opts.Logger,
	}
	return s
}

// Pool returns the full question pool.
func (s *Service) Pool() *question.Pool {
	return s.pool
}

// Login authenticates passcode and returns the participant's attempt,
// resumed or freshly built.
func (s *Service) Login(ctx context.Context, passcode string) (*Attempt, error) {
	adm, err := s.gate.Authenticate(ctx, passcode, s.now())
	if err != nil {
		return nil, err
	}
	return &Attempt{
		svc:      s,
		identity: adm.Identity,
		session:  adm.Session,
		resumed:  adm.Resumed,
	}, nil
}

// pick returns a uniformly random item.
func (s *Service) pick(items []session.Item) session.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return items[s.rng.IntN(len(items))]
}
