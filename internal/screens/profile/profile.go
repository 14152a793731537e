package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"codequest/internal/api"
	"codequest/internal/catalog"
	"codequest/internal/router"
	"codequest/internal/scoring"
	"codequest/internal/screen"
	"codequest/internal/screens"
	adminscreen "codequest/internal/screens/admin"
	"codequest/internal/screens/detail"
	"codequest/internal/ui/components"
	"codequest/internal/ui/layout"
	"codequest/internal/ui/theme"
)

const (
	loadTimeout = 15 * time.Second

	recentLimit = 5
)

// loadedMsg is tagged with the instance that started the load so a result
// outliving its screen cannot populate a newer instance.
type loadedMsg struct {
	owner      *ProfileScreen
	challenges []catalog.Challenge
	mine       []api.Submission
	err        error
}

// ProfileScreen is the student dashboard: score, progress toward the full
// catalog, and recent activity.
type ProfileScreen struct {
	deps       screens.Deps
	challenges []catalog.Challenge
	mine       []api.Submission
	loading    bool
	loadErr    error
	selected   int
	activity   []scoring.Activity
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

func New(deps screens.Deps) *ProfileScreen {
	return &ProfileScreen{deps: deps, loading: true}
}

func (p *ProfileScreen) Init() tea.Cmd {
	deps := p.deps

	// The dashboard is per-user; admins get the review screen instead.
	if !deps.Auth.IsAuthenticated() {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	if deps.Auth.IsAdmin() {
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: adminscreen.New(deps)}
		}
	}

	email := deps.Auth.CurrentUser().Email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		challenges := deps.Catalog.Load(ctx)

		subs, err := deps.Client.ListSubmissions(ctx)
		if err != nil {
			return loadedMsg{owner: p, challenges: challenges, err: err}
		}

		var mine []api.Submission
		for _, s := range subs {
			if s.UserEmail == email {
				mine = append(mine, s)
			}
		}
		return loadedMsg{owner: p, challenges: challenges, mine: mine}
	}
}

func (p *ProfileScreen) Title() string {
	return "My Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate activity"},
		{Key: "Enter", Description: "Open challenge"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != p {
			return p, nil
		}
		p.loading = false
		p.loadErr = msg.err
		p.challenges = msg.challenges
		p.mine = msg.mine
		p.activity = scoring.Recent(p.mine, p.challenges, recentLimit)
		p.selected = 0
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			p.loading = true
			return p, p.Init()
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
		case "down", "j":
			if p.selected < len(p.activity)-1 {
				p.selected++
			}
		case "enter":
			if p.selected >= 0 && p.selected < len(p.activity) {
				deps := p.deps
				id := p.activity[p.selected].ChallengeID
				return p, func() tea.Msg {
					return router.PushScreenMsg{Screen: detail.New(deps, id)}
				}
			}
		}
	}

	return p, nil
}

func (p *ProfileScreen) View(width, height int) string {
	if p.loading {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Hint.Render("Loading your profile..."))
	}

	user := p.deps.Auth.CurrentUser()
	if user == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(theme.Title.Render(user.Name()))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(user.Email))
	b.WriteString("\n\n")

	if p.loadErr != nil {
		b.WriteString(theme.StatusErr.Render("Could not load your submissions: " + p.loadErr.Error()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press r to retry."))
		return p.framed(width, height, b.String())
	}

	score := scoring.Score(p.mine)
	total := scoring.TotalPossible(p.challenges)
	progress := scoring.Progress(p.challenges, p.mine)

	b.WriteString(theme.Body.Render(fmt.Sprintf("Total score: %.0f / %.0f points", score, total)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Progress", float64(progress)/100, true, 60)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Render("Recent Activity"))
	b.WriteString("\n")

	if len(p.activity) == 0 {
		b.WriteString(theme.Hint.Render("No submissions yet. Pick a challenge to get started."))
		b.WriteString("\n")
	}

	for i, a := range p.activity {
		marker := "   "
		titleStyle := theme.Unselected
		if i == p.selected {
			marker = " ▸ "
			titleStyle = theme.Selected
		}

		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker,
			titleStyle.Render(a.Title),
			statusBadge(a.Status),
			theme.Hint.Render(fmt.Sprintf("%.0f pts", a.Points)),
		))
		if a.CodeSnippet != "" {
			b.WriteString("      " + theme.Hint.Render(a.CodeSnippet) + "\n")
		}
	}

	return p.framed(width, height, b.String())
}

func (p *ProfileScreen) framed(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(content)
}

func statusBadge(status api.Status) string {
	switch status {
	case api.StatusApproved:
		return theme.StatusOK.Render("approved")
	case api.StatusRejected:
		return theme.StatusErr.Render("rejected")
	default:
		return theme.StatusWarn.Render("pending")
	}
}
