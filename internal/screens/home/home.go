package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"codequest/internal/router"
	"codequest/internal/screen"
	"codequest/internal/screens"
	adminscreen "codequest/internal/screens/admin"
	"codequest/internal/screens/challenges"
	"codequest/internal/screens/login"
	"codequest/internal/screens/profile"
	"codequest/internal/ui/components"
	"codequest/internal/ui/theme"
)

const banner = `
   ______          __      ____                  __
  / ____/___  ____/ /__   / __ \__  _____  _____/ /_
 / /   / __ \/ __  / _ \ / / / / / / / _ \/ ___/ __/
/ /___/ /_/ / /_/ /  __// /_/ / /_/ /  __(__  ) /_
\____/\____/\__,_/\___/ \___\_\__,_/\___/____/\__/`

// HomeScreen is the landing screen: hero text plus the main menu.
type HomeScreen struct {
	deps      screens.Deps
	menu      components.Menu
	notice    string
	lastShape string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen with a menu matching the session state.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.menuItems())
	h.lastShape = h.authShape()
	return h
}

// authShape fingerprints the session so the menu can be rebuilt when a
// pushed screen logs in or out.
func (h *HomeScreen) authShape() string {
	u := h.deps.Auth.CurrentUser()
	if u == nil {
		return ""
	}
	if u.IsAdmin() {
		return u.Email + "|admin"
	}
	return u.Email
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	authed := h.deps.Auth.IsAuthenticated()
	isAdmin := authed && h.deps.Auth.IsAdmin()

	var items []components.MenuItem

	items = append(items, components.MenuItem{
		Label: "BROWSE CHALLENGES",
		Action: func() tea.Cmd {
			if isAdmin {
				// Admins review, they don't solve.
				return push(adminscreen.New(h.deps))
			}
			return push(challenges.New(h.deps))
		},
	})

	if authed && !isAdmin {
		items = append(items, components.MenuItem{
			Label:  "MY PROFILE",
			Action: func() tea.Cmd { return push(profile.New(h.deps)) },
		})
	}

	if isAdmin {
		items = append(items, components.MenuItem{
			Label:  "REVIEW SUBMISSIONS",
			Action: func() tea.Cmd { return push(adminscreen.New(h.deps)) },
		})
	}

	if authed {
		items = append(items, components.MenuItem{
			Label: "LOG OUT",
			Action: func() tea.Cmd {
				if err := h.deps.Auth.Logout(); err != nil {
					h.notice = err.Error()
				} else {
					h.notice = "Logged out."
				}
				return nil
			},
		})
	} else {
		items = append(items, components.MenuItem{
			Label:  "LOG IN",
			Action: func() tea.Cmd { return push(login.New(h.deps)) },
		})
	}

	items = append(items, components.MenuItem{
		Label:  "QUIT",
		Action: func() tea.Cmd { return tea.Quit },
	})

	return items
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// Rebuild the menu when the session changes: logging in or out happens
	// on a pushed screen, or right here via the LOG OUT item.
	if _, ok := msg.(tea.KeyMsg); ok {
		if h.authShape() != h.lastShape {
			h.menu = components.NewMenu(h.menuItems())
			h.lastShape = h.authShape()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)

	if h.authShape() != h.lastShape {
		h.menu = components.NewMenu(h.menuItems())
		h.lastShape = h.authShape()
	}
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(banner))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Sharpen your skills with coding challenges at your own level."))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Solve, submit, and collect points as an admin reviews your work."))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	if h.notice != "" {
		b.WriteString("\n" + theme.StatusOK.Render(h.notice))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}
