package challenges

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"codequest/internal/catalog"
	"codequest/internal/router"
	"codequest/internal/screen"
	"codequest/internal/screens"
	adminscreen "codequest/internal/screens/admin"
	"codequest/internal/screens/detail"
	"codequest/internal/ui/components"
	"codequest/internal/ui/layout"
	"codequest/internal/ui/theme"
)

const loadTimeout = 15 * time.Second

// loadedMsg carries the fetched (or fallback) catalog. The owner tag ties
// the result to the instance that started the fetch; a result landing on a
// later instance of the same screen is dropped.
type loadedMsg struct {
	owner      *ChallengesScreen
	challenges []catalog.Challenge
}

// ChallengesScreen is the searchable, filterable challenge list.
type ChallengesScreen struct {
	deps      screens.Deps
	all       []catalog.Challenge
	search    components.TextInput
	searching bool
	filters   map[string]bool
	selected  int
	loading   bool
}

var _ screen.Screen = (*ChallengesScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengesScreen)(nil)
var _ screen.EscCapturer = (*ChallengesScreen)(nil)

func New(deps screens.Deps) *ChallengesScreen {
	return &ChallengesScreen{
		deps:    deps,
		search:  components.NewTextInput("search...", 60),
		filters: map[string]bool{},
		loading: true,
	}
}

func (c *ChallengesScreen) Init() tea.Cmd {
	// Admins review rather than solve; send them to the review screen.
	if c.deps.Auth.IsAuthenticated() && c.deps.Auth.IsAdmin() {
		deps := c.deps
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: adminscreen.New(deps)}
		}
	}

	deps := c.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{owner: c, challenges: deps.Catalog.Load(ctx)}
	}
}

func (c *ChallengesScreen) Title() string {
	return "Challenges"
}

func (c *ChallengesScreen) KeyHints() []layout.KeyHint {
	if c.searching {
		return []layout.KeyHint{
			{Key: "Enter/Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Search"},
		{Key: "1/2/3", Description: "Filter difficulty"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChallengesScreen) CapturesEsc() bool {
	return c.searching
}

func (c *ChallengesScreen) visible() []catalog.Challenge {
	return catalog.Filter(c.all, c.search.Value(), c.filters)
}

func (c *ChallengesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != c {
			return c, nil
		}
		c.loading = false
		c.all = msg.challenges
		c.selected = 0
		return c, nil

	case tea.KeyMsg:
		if c.searching {
			switch msg.String() {
			case "enter", "esc":
				c.searching = false
				c.search.Blur()
				return c, nil
			}
			var cmd tea.Cmd
			c.search, cmd = c.search.Update(msg)
			c.selected = 0
			return c, cmd
		}

		switch msg.String() {
		case "/":
			c.searching = true
			return c, c.search.Focus()
		case "1":
			c.toggle(catalog.DifficultyBeginner)
		case "2":
			c.toggle(catalog.DifficultyIntermediate)
		case "3":
			c.toggle(catalog.DifficultyAdvanced)
		case "up", "k":
			if c.selected > 0 {
				c.selected--
			}
		case "down", "j":
			if c.selected < len(c.visible())-1 {
				c.selected++
			}
		case "enter":
			visible := c.visible()
			if c.selected >= 0 && c.selected < len(visible) {
				target := visible[c.selected]
				deps := c.deps
				return c, func() tea.Msg {
					return router.PushScreenMsg{Screen: detail.New(deps, target.ID)}
				}
			}
		}
	}

	return c, nil
}

func (c *ChallengesScreen) toggle(class string) {
	c.filters[class] = !c.filters[class]
	c.selected = 0
}

func (c *ChallengesScreen) View(width, height int) string {
	if c.loading {
		return centered(width, height, theme.Hint.Render("Loading challenges..."))
	}

	var b strings.Builder

	b.WriteString(theme.Title.Render("Discover Code Challenges"))
	b.WriteString("\n\n")

	searchLine := "Search: " + c.search.View()
	if !c.searching && strings.TrimSpace(c.search.Value()) == "" {
		searchLine = theme.Hint.Render("Press / to search")
	}
	b.WriteString(searchLine)
	b.WriteString("   ")
	b.WriteString(c.filterLine())
	b.WriteString("\n\n")

	visible := c.visible()
	if len(visible) == 0 {
		b.WriteString(theme.Hint.Render("No challenges found. Adjust your search or filters."))
	}

	for i, ch := range visible {
		marker := "   "
		style := theme.Unselected
		if i == c.selected {
			marker = " ▸ "
			style = theme.Selected
		}

		diff := lipgloss.NewStyle().
			Foreground(theme.DifficultyColor(ch.DifficultyClass)).
			Render(fmt.Sprintf("%-14s", ch.Difficulty))

		line := fmt.Sprintf("%s%s  %s  %4.0f pts", marker, diff, style.Render(ch.Title), ch.MaxPoints())
		b.WriteString(line)
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (c *ChallengesScreen) filterLine() string {
	part := func(key, class, label string) string {
		style := theme.Hint
		if c.filters[class] {
			style = theme.Selected
		}
		return style.Render(fmt.Sprintf("[%s] %s", key, label))
	}
	return part("1", catalog.DifficultyBeginner, "Beginner") + "  " +
		part("2", catalog.DifficultyIntermediate, "Intermediate") + "  " +
		part("3", catalog.DifficultyAdvanced, "Advanced")
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
