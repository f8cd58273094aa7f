package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ex "github.com/abhisek/shelfexam/internal/exam"
	"github.com/abhisek/shelfexam/internal/router"
	"github.com/abhisek/shelfexam/internal/screen"
	examscreen "github.com/abhisek/shelfexam/internal/screens/exam"
	"github.com/abhisek/shelfexam/internal/screens/summary"
	"github.com/abhisek/shelfexam/internal/ui/components"
	"github.com/abhisek/shelfexam/internal/ui/layout"
	"github.com/abhisek/shelfexam/internal/ui/theme"
)

// Authenticator admits a passcode and returns the attempt to drive.
type Authenticator func(ctx context.Context, passcode string) (examscreen.Attempt, error)

type loginResultMsg struct {
	Attempt examscreen.Attempt
	Err     error
}

// LoginScreen asks for a passcode.
type LoginScreen struct {
	auth   Authenticator
	input  components.TextInput
	busy   bool
	errMsg string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen backed by auth.
func New(auth Authenticator) *LoginScreen {
	return &LoginScreen{
		auth:  auth,
		input: components.NewTextInput("passcode", true, 64),
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *LoginScreen) Title() string {
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		return s.handleResult(msg)
	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if msg.String() == "enter" {
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LoginScreen) submit() tea.Cmd {
	passcode := strings.TrimSpace(s.input.Value())
	if passcode == "" {
		s.errMsg = "Please enter your passcode."
		return nil
	}
	s.busy = true
	s.errMsg = ""
	auth := s.auth
	return func() tea.Msg {
		attempt, err := auth(context.Background(), passcode)
		return loginResultMsg{Attempt: attempt, Err: err}
	}
}

func (s *LoginScreen) handleResult(msg loginResultMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.input.Reset()
	if msg.Err != nil {
		s.errMsg = ex.Describe(msg.Err)
		return s, nil
	}

	var next screen.Screen
	if msg.Attempt.Completed() {
		next = summary.New(msg.Attempt.Summary())
	} else {
		next = examscreen.New(msg.Attempt)
	}
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *LoginScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("Shelf Exam"))
	sections = append(sections, theme.Subtitle.Render("Enter the passcode you were given"))
	sections = append(sections, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(min(width-8, 40)).
		Render(s.input.View())
	sections = append(sections, box)

	switch {
	case s.busy:
		sections = append(sections, "", theme.Hint.Render("Checking..."))
	case s.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Render(s.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
