package session

import (
	"fmt"
	"testing"

	"github.com/abhisek/shelfexam/internal/question"
)

// testPool returns n questions; every correct answer is "b". Subjects
// alternate between medicine and surgery.
func testPool(t *testing.T, n int) *question.Pool {
	t.Helper()
	records := make([]question.Record, n)
	for i := range n {
		subject := "medicine"
		if i%2 == 1 {
			subject = "surgery"
		}
		records[i] = question.Record{
			ID:      fmt.Sprintf("%d", i+1),
			Subject: subject,
			Stem:    fmt.Sprintf("Question %d?", i+1),
			Choices: map[question.Letter]string{
				"a": "alpha", "b": "bravo", "c": "charlie",
			},
			Correct:     "b",
			Explanation: "bravo is right",
		}
	}
	p, err := question.NewPool(records)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return p
}

func newSession(ids ...string) *ExamSession {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{QuestionID: id, Result: ResultUnanswered}
	}
	return &ExamSession{ID: "s1", ParticipantID: "ann@x.org", Passcode: "P1", Items: items}
}

func mustGet(t *testing.T, p *question.Pool, id string) question.Record {
	t.Helper()
	r, ok := p.Get(id)
	if !ok {
		t.Fatalf("question %s not in pool", id)
	}
	return r
}
