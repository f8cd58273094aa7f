package login

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/shelfexam/internal/access"
	ex "github.com/abhisek/shelfexam/internal/exam"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/router"
	examscreen "github.com/abhisek/shelfexam/internal/screens/exam"
	"github.com/abhisek/shelfexam/internal/session"
)

type stubAttempt struct{}

func (stubAttempt) Current() ex.View                              { return ex.View{Total: 1} }
func (stubAttempt) Answer(context.Context, question.Letter) error { return nil }
func (stubAttempt) Next(context.Context) error                    { return nil }
func (stubAttempt) Jump(context.Context, int) error               { return nil }
func (stubAttempt) Completed() bool                               { return false }
func (stubAttempt) Summary() *session.Summary                     { return &session.Summary{} }

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func submit(t *testing.T, s *LoginScreen) tea.Msg {
	t.Helper()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestLoginScreen_EmptyPasscode(t *testing.T) {
	called := false
	s := New(func(context.Context, string) (examscreen.Attempt, error) {
		called = true
		return stubAttempt{}, nil
	})

	if msg := submit(t, s); msg != nil {
		t.Fatalf("expected no navigation, got %T", msg)
	}
	if called {
		t.Error("authenticator should not be called for an empty passcode")
	}
	if s.errMsg == "" {
		t.Error("expected a prompt for the passcode")
	}
}

func TestLoginScreen_Success(t *testing.T) {
	var got string
	s := New(func(_ context.Context, passcode string) (examscreen.Attempt, error) {
		got = passcode
		return stubAttempt{}, nil
	})

	typeText(s, "ann_med")
	msg := submit(t, s)

	if got != "ann_med" {
		t.Errorf("passcode = %q, want %q", got, "ann_med")
	}
	push, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := push.Screen.(*examscreen.ExamScreen); !ok {
		t.Errorf("expected exam screen, got %T", push.Screen)
	}
	if s.input.Value() != "" {
		t.Error("input should be cleared after login")
	}
}

func TestLoginScreen_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", access.ErrInvalidPasscode, "Invalid passcode. Please try again."},
		{"expired", access.ErrExpiredPasscode, "This passcode has expired. Access is no longer allowed."},
		{"locked", &access.LockedError{Until: time.Now().Add(time.Hour)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(func(context.Context, string) (examscreen.Attempt, error) {
				return nil, tt.err
			})
			typeText(s, "x")
			if msg := submit(t, s); msg != nil {
				t.Fatalf("expected no navigation, got %T", msg)
			}
			if s.errMsg == "" {
				t.Fatal("expected an error message")
			}
			if tt.want != "" && s.errMsg != tt.want {
				t.Errorf("errMsg = %q, want %q", s.errMsg, tt.want)
			}
		})
	}
}
