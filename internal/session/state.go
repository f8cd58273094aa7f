package session

import (
	"time"

	"github.com/abhisek/shelfexam/internal/question"
)

// Origin records why a question was included in a session.
type Origin string

const (
	OriginStandard    Origin = ""
	OriginPending     Origin = "pending"     // due pending recommendation
	OriginRecommended Origin = "recommended" // drawn from a recommended subject
)

// Result is the per-question answer outcome.
type Result string

const (
	ResultUnanswered Result = "unanswered"
	ResultCorrect    Result = "correct"
	ResultIncorrect  Result = "incorrect"
)

// Phase is the coarse session state.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseCompleted
)

func (p Phase) String() string {
	if p == PhaseCompleted {
		return "completed"
	}
	return "in progress"
}

// Item is one question slot in a session.
type Item struct {
	QuestionID string          `json:"question_id"`
	Origin     Origin          `json:"origin,omitempty"`
	Selected   question.Letter `json:"selected,omitempty"`
	Result     Result          `json:"result"`
	Feedback   string          `json:"feedback,omitempty"`
}

// Answered reports whether the item has a recorded result.
func (it Item) Answered() bool {
	return it.Result == ResultCorrect || it.Result == ResultIncorrect
}

// Finalization tracks the completion side effects that have already run, so
// a retried finalization skips finished steps.
type Finalization struct {
	Locked          bool `json:"locked"`
	ResultStored    bool `json:"result_stored"`
	Recommendations bool `json:"recommendations"`
	ReviewSent      bool `json:"review_sent"`
}

// Done reports whether every finalization step has run.
func (f Finalization) Done() bool {
	return f.Locked && f.ResultStored && f.Recommendations && f.ReviewSent
}

// ExamSession is one participant's ordered exam and answer state.
//
// Items before Furthest are always answered. Position may move back to any
// index up to Furthest for read-only review.
type ExamSession struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	Passcode      string    `json:"passcode"`
	Items         []Item    `json:"items"`
	Position      int       `json:"position"`
	Furthest      int       `json:"furthest"`
	Score         int       `json:"score"`
	Complete      bool      `json:"complete"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at,omitzero"`

	Finalization Finalization `json:"finalization"`
}

// Phase returns the session's state.
func (s *ExamSession) Phase() Phase {
	if s.Complete {
		return PhaseCompleted
	}
	return PhaseInProgress
}

// Len returns the number of questions in the session.
func (s *ExamSession) Len() int {
	return len(s.Items)
}

// Current returns the item at the current position, or nil once complete.
func (s *ExamSession) Current() *Item {
	if s.Complete || s.Position < 0 || s.Position >= len(s.Items) {
		return nil
	}
	return &s.Items[s.Position]
}

// QuestionIDs returns the ordered question ids.
func (s *ExamSession) QuestionIDs() []string {
	ids := make([]string, len(s.Items))
	for i, it := range s.Items {
		ids[i] = it.QuestionID
	}
	return ids
}

// Answered returns how many items have a result.
func (s *ExamSession) Answered() int {
	n := 0
	for _, it := range s.Items {
		if it.Answered() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy. Transitions are applied to a clone and only
// committed once persisted.
func (s *ExamSession) Clone() *ExamSession {
	c := *s
	c.Items = make([]Item, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}
