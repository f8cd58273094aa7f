package exam

import (
	"context"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"

	ex "github.com/abhisek/shelfexam/internal/exam"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/router"
	"github.com/abhisek/shelfexam/internal/screen"
	"github.com/abhisek/shelfexam/internal/screens/summary"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/ui/components"
	"github.com/abhisek/shelfexam/internal/ui/layout"
)

// Attempt is the exam attempt driven by this screen.
type Attempt interface {
	Current() ex.View
	Answer(ctx context.Context, letter question.Letter) error
	Next(ctx context.Context) error
	Jump(ctx context.Context, position int) error
	Completed() bool
	Summary() *session.Summary
}

// actionDoneMsg reports the outcome of a persisted transition.
type actionDoneMsg struct {
	Err error
}

// ExamScreen shows one question at a time.
type ExamScreen struct {
	attempt Attempt
	view    ex.View
	choices components.MultiChoice
	busy    bool
	errMsg  string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)

// New creates an ExamScreen for attempt.
func New(attempt Attempt) *ExamScreen {
	s := &ExamScreen{attempt: attempt}
	s.refresh()
	return s
}

func (s *ExamScreen) Init() tea.Cmd {
	return nil
}

func (s *ExamScreen) Title() string {
	return "Exam"
}

// Status reports position and running score for the header.
func (s *ExamScreen) Status() string {
	return fmt.Sprintf("Q %d/%d  Score %d  ", s.view.Position+1, s.view.Total, s.view.Score)
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	if s.view.ReadOnly {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if s.view.Position > 0 {
			hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Suspend"})
	}
	return []layout.KeyHint{
		{Key: "↑↓/A-E", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Suspend"},
	}
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		return s.handleDone(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	key := msg.String()
	switch key {
	case "enter":
		s.errMsg = ""
		if s.view.ReadOnly {
			return s, s.run(s.attempt.Next)
		}
		letter := s.choices.Current()
		return s, s.run(func(ctx context.Context) error {
			return s.attempt.Answer(ctx, letter)
		})
	case "right", "n":
		if s.view.ReadOnly {
			return s, s.run(s.attempt.Next)
		}
		return s, nil
	case "left", "p":
		if s.view.Position > 0 {
			return s, s.jump(s.view.Position - 1)
		}
		return s, nil
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= s.view.Total {
		return s, s.jump(n - 1)
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *ExamScreen) jump(position int) tea.Cmd {
	return s.run(func(ctx context.Context) error {
		return s.attempt.Jump(ctx, position)
	})
}

// run executes fn off the update loop.
func (s *ExamScreen) run(fn func(context.Context) error) tea.Cmd {
	s.busy = true
	return func() tea.Msg {
		return actionDoneMsg{Err: fn(context.Background())}
	}
}

func (s *ExamScreen) handleDone(msg actionDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = ex.Describe(msg.Err)
	}
	if s.attempt.Completed() {
		sum := summary.New(s.attempt.Summary())
		if msg.Err != nil {
			sum.SetWarning(s.errMsg)
		}
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
	}
	s.refresh()
	return s, nil
}

// refresh reloads the view and keeps the cursor when the question is unchanged.
func (s *ExamScreen) refresh() {
	prev := s.view
	s.view = s.attempt.Current()
	if prev.Record.ID == s.view.Record.ID && prev.Position == s.view.Position && len(s.choices.Choices) > 0 {
		if s.view.ReadOnly {
			s.choices.Reveal(s.view.Item.Selected)
		}
		return
	}
	s.choices = components.NewMultiChoice(s.view.Record, 0)
	if s.view.ReadOnly {
		s.choices.Reveal(s.view.Item.Selected)
	}
}
