package review

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/shelfexam/internal/question"
)

func testArtifact() Artifact {
	return Artifact{
		SessionID:     "s1",
		ParticipantID: "ann@x.org",
		Recipient:     "Ann@x.org",
		Question: question.Record{
			ID:          "17",
			Subject:     "Surgery",
			Stem:        "Most common cause of small bowel obstruction?",
			Anchor:      "A 54-year-old presents with vomiting.",
			Choices:     map[question.Letter]string{"a": "Hernia", "b": "Adhesions", "d": "Volvulus"},
			Correct:     "b",
			Explanation: "Prior surgery causes adhesions.",
		},
		Selected: "a",
	}
}

func TestArtifactBody(t *testing.T) {
	body := testArtifact().Body()

	for _, want := range []string{
		"A 54-year-old presents with vomiting.",
		"  A. Hernia\n  B. Adhesions\n  D. Volvulus\n",
		"Your answer: A. Hernia",
		"Correct answer: B. Adhesions",
		"Prior surgery causes adhesions.",
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, "Shelf exam review: Surgery", testArtifact().Subject())
}

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func TestDispatch(t *testing.T) {
	m := &recordingMailer{}
	d := &Dispatcher{Mailer: m, Logger: zerolog.New(io.Discard)}

	require.NoError(t, d.Dispatch(context.Background(), testArtifact()))
	assert.Equal(t, "Ann@x.org", m.to)
	assert.Contains(t, m.body, "Correct answer")

	noTo := testArtifact()
	noTo.Recipient = ""
	assert.ErrorIs(t, d.Dispatch(context.Background(), noTo), ErrNoRecipient)

	m.err = errors.New("relay down")
	assert.Error(t, d.Dispatch(context.Background(), testArtifact()))
}

func TestSMTPMailer(t *testing.T) {
	m := NewSMTPMailer("smtp.example.org", "587", "user", "secret", "exams@example.org")

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "ann@x.org", "Review", "line one\nline two"))
	assert.Equal(t, "smtp.example.org:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"ann@x.org"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: exams@example.org\r\nTo: ann@x.org\r\nSubject: Review\r\n"))
	assert.Contains(t, gotMsg, "line one\r\nline two")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "ann@x.org", "Review", "x"), context.Canceled)
}
