package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"codequest/internal/router"
	"codequest/internal/screen"
	"codequest/internal/screens"
	adminscreen "codequest/internal/screens/admin"
	"codequest/internal/screens/profile"
	"codequest/internal/session"
	"codequest/internal/ui/components"
	"codequest/internal/ui/layout"
	"codequest/internal/ui/theme"
)

const loginTimeout = 15 * time.Second

// fields in tab order
const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// loginDoneMsg carries the async login result, tagged with the instance
// that started it so a stale result cannot drive a newer login screen.
type loginDoneMsg struct {
	owner *LoginScreen
	user  *session.User
	err   error
}

// LoginScreen is the email/password form.
type LoginScreen struct {
	deps     screens.Deps
	email    components.TextInput
	password components.TextInput
	focused  int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

func New(deps screens.Deps) *LoginScreen {
	s := &LoginScreen{
		deps:     deps,
		email:    components.NewTextInput("you@example.com", 254),
		password: components.NewPasswordInput("password", 128),
	}
	s.password.Blur()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	return "Log in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if msg.owner != s {
			return s, nil
		}
		s.busy = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		// Route by role, replacing this screen so Esc doesn't come back
		// to a stale login form.
		var next screen.Screen
		if msg.user.IsAdmin() {
			next = adminscreen.New(s.deps)
		} else {
			next = profile.New(s.deps)
		}
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "down", "up":
			s.focused = (s.focused + 1) % fieldCount
			if s.focused == fieldEmail {
				s.password.Blur()
				return s, s.email.Focus()
			}
			s.email.Blur()
			return s, s.password.Focus()
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focused == fieldEmail {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if email == "" {
		s.errMsg = "Enter your email address."
		return nil
	}
	if password == "" {
		s.errMsg = "Enter your password."
		return nil
	}

	s.errMsg = ""
	s.busy = true

	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		user, err := deps.Auth.Login(ctx, email, password)
		return loginDoneMsg{owner: s, user: user, err: err}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Log in"))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Render("Email"))
	b.WriteString("\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Password"))
	b.WriteString("\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Logging in..."))
	case s.errMsg != "":
		b.WriteString(theme.StatusErr.Render(s.errMsg))
	default:
		b.WriteString(theme.Hint.Render("No account? Ask an admin to create one for you."))
	}

	card := theme.Card.Width(48).Render(b.String())

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
