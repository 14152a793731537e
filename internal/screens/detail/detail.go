package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"codequest/internal/api"
	"codequest/internal/catalog"
	"codequest/internal/screen"
	"codequest/internal/screens"
	"codequest/internal/store"
	"codequest/internal/submit"
	"codequest/internal/ui/components"
	"codequest/internal/ui/layout"
	"codequest/internal/ui/theme"
)

const requestTimeout = 15 * time.Second

// focus states for the detail screen.
const (
	focusView = iota
	focusEditor
	focusComment
	focusConfirm
)

// Async results carry the instance that started them. The router delivers
// messages to whichever screen is active, so a result from a torn-down
// detail screen can land on a newer one showing a different challenge;
// Update drops results whose owner is not the receiver.
type loadedMsg struct {
	owner     *DetailScreen
	challenge catalog.Challenge
	found     bool
	latest    *api.Submission
	comments  []store.Comment
}

type confirmMsg struct {
	owner    *DetailScreen
	decision submit.Decision
}

type submitDoneMsg struct {
	owner *DetailScreen
	sub   *api.Submission
	err   error
}

type commentDoneMsg struct {
	owner   *DetailScreen
	comment store.Comment
	err     error
}

// DetailScreen shows one challenge: its text, the user's submission status,
// the solution editor, and the local comment thread.
type DetailScreen struct {
	deps screens.Deps

	// routeID is the id the user navigated with; the resolved catalog id may
	// differ when the backend aliases ids.
	routeID   string
	challenge catalog.Challenge
	found     bool
	loading   bool

	latest   *api.Submission
	comments []store.Comment

	editor       components.TextArea
	commentInput components.TextInput
	focus        int

	pending submit.Decision
	busy    bool
	status  string
	isErr   bool
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)
var _ screen.EscCapturer = (*DetailScreen)(nil)

func New(deps screens.Deps, challengeID string) *DetailScreen {
	return &DetailScreen{
		deps:         deps,
		routeID:      challengeID,
		loading:      true,
		editor:       components.NewTextArea("Write your solution here...", 70, 10),
		commentInput: components.NewTextInput("Add a comment...", 200),
	}
}

func (d *DetailScreen) Init() tea.Cmd {
	deps := d.deps
	routeID := d.routeID

	var email string
	if u := deps.Auth.CurrentUser(); u != nil {
		email = u.Email
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ch, found := deps.Catalog.ByID(ctx, routeID)

		var latest *api.Submission
		if email != "" {
			if subs, err := deps.Client.ListSubmissions(ctx); err == nil {
				latest = submit.Newest(submit.Mine(subs, email, routeID, ch.ID))
			}
		}

		comments, _ := deps.Comments.ForChallenge(ctx, routeID)

		return loadedMsg{owner: d, challenge: ch, found: found, latest: latest, comments: comments}
	}
}

func (d *DetailScreen) Title() string {
	if d.found {
		return d.challenge.Title
	}
	return "Challenge"
}

func (d *DetailScreen) CapturesEsc() bool {
	return d.focus != focusView
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	switch d.focus {
	case focusEditor:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Stop editing"},
		}
	case focusComment:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Post"},
			{Key: "Esc", Description: "Cancel"},
		}
	case focusConfirm:
		return []layout.KeyHint{
			{Key: "y", Description: "Overwrite"},
			{Key: "n", Description: "Keep approved solution"},
		}
	default:
		hints := []layout.KeyHint{
			{Key: "e", Description: "Edit solution"},
		}
		if d.deps.Auth.IsAuthenticated() {
			hints = append(hints, layout.KeyHint{Key: "c", Description: "Comment"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != d {
			return d, nil
		}
		d.loading = false
		d.challenge = msg.challenge
		d.found = msg.found
		d.latest = msg.latest
		d.comments = msg.comments
		if d.latest != nil && d.latest.Code != "" {
			d.editor.SetValue(d.latest.Code)
		}
		return d, nil

	case confirmMsg:
		if msg.owner != d {
			return d, nil
		}
		d.busy = false
		d.pending = msg.decision
		d.focus = focusConfirm
		d.status = "Your current solution is approved. Submitting again resets it to pending review."
		d.isErr = false
		return d, nil

	case submitDoneMsg:
		if msg.owner != d {
			return d, nil
		}
		d.busy = false
		if msg.err != nil {
			d.status = msg.err.Error()
			d.isErr = true
			return d, nil
		}
		if msg.sub != nil {
			d.latest = msg.sub
		}
		d.deps.Log.Event("submission.saved", map[string]any{"challenge": d.routeID})
		d.focus = focusView
		d.editor.Blur()
		d.status = "Solution submitted for review."
		d.isErr = false
		return d, nil

	case commentDoneMsg:
		if msg.owner != d {
			return d, nil
		}
		d.busy = false
		if msg.err != nil {
			d.status = msg.err.Error()
			d.isErr = true
			return d, nil
		}
		d.comments = append(d.comments, msg.comment)
		d.commentInput.Model.SetValue("")
		d.commentInput.Blur()
		d.focus = focusView
		d.status = ""
		return d, nil

	case tea.KeyMsg:
		if d.busy {
			return d, nil
		}
		return d.handleKey(msg)
	}

	return d, nil
}

func (d *DetailScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch d.focus {
	case focusEditor:
		switch msg.String() {
		case "esc":
			d.focus = focusView
			d.editor.Blur()
			return d, nil
		case "ctrl+s":
			return d, d.submit()
		}
		var cmd tea.Cmd
		d.editor, cmd = d.editor.Update(msg)
		return d, cmd

	case focusComment:
		switch msg.String() {
		case "esc":
			d.focus = focusView
			d.commentInput.Blur()
			return d, nil
		case "enter":
			return d, d.postComment()
		}
		var cmd tea.Cmd
		d.commentInput, cmd = d.commentInput.Update(msg)
		return d, cmd

	case focusConfirm:
		switch msg.String() {
		case "y", "Y":
			d.focus = focusView
			return d, d.performSubmit(d.pending)
		case "n", "N", "esc":
			d.focus = focusView
			d.pending = submit.Decision{}
			d.status = "Kept your approved solution."
			d.isErr = false
			return d, nil
		}
		return d, nil

	default:
		switch msg.String() {
		case "e":
			d.focus = focusEditor
			d.status = ""
			return d, d.editor.Focus()
		case "c":
			if d.deps.Auth.IsAuthenticated() {
				d.focus = focusComment
				d.status = ""
				return d, d.commentInput.Focus()
			}
		}
		return d, nil
	}
}

// submit refetches the remote submission list and runs the reconciliation
// rule against it. Deciding on the stale screen state would race concurrent
// sessions into duplicate records.
func (d *DetailScreen) submit() tea.Cmd {
	user := d.deps.Auth.CurrentUser()
	if user == nil {
		d.status = "Log in from the home screen to submit a solution."
		d.isErr = true
		return nil
	}
	code := strings.TrimSpace(d.editor.Value())
	if code == "" {
		d.status = "Your solution is empty."
		d.isErr = true
		return nil
	}

	d.busy = true
	d.status = "Submitting..."
	d.isErr = false

	deps := d.deps
	routeID := d.routeID
	stateID := d.challenge.ID
	email := user.Email

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		subs, err := deps.Client.ListSubmissions(ctx)
		if err != nil {
			return submitDoneMsg{owner: d, err: err}
		}

		decision := submit.Decide(subs, email, routeID, stateID)
		if decision.NeedsConfirm {
			return confirmMsg{owner: d, decision: decision}
		}
		return d.write(ctx, decision)
	}
}

// performSubmit runs the confirmed overwrite path.
func (d *DetailScreen) performSubmit(decision submit.Decision) tea.Cmd {
	d.busy = true
	d.status = "Submitting..."
	d.isErr = false

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return d.write(ctx, decision)
	}
}

// write creates or updates the submission record per the decision.
func (d *DetailScreen) write(ctx context.Context, decision submit.Decision) submitDoneMsg {
	user := d.deps.Auth.CurrentUser()
	if user == nil {
		return submitDoneMsg{owner: d, err: api.ErrNotLoggedIn}
	}

	code := strings.TrimSpace(d.editor.Value())
	ref := d.challenge.ID
	if ref == "" {
		ref = d.routeID
	}
	points := d.challenge.MaxPoints()

	if decision.Existing != nil {
		patch := submit.UpdatePatch(ref, user.Email, code, points)
		sub, err := d.deps.Client.UpdateSubmission(ctx, decision.Existing.ID.String(), patch)
		return submitDoneMsg{owner: d, sub: sub, err: err}
	}

	payload := submit.CreatePayload(ref, user.Email, code, points)
	sub, err := d.deps.Client.CreateSubmission(ctx, payload)
	return submitDoneMsg{owner: d, sub: sub, err: err}
}

func (d *DetailScreen) postComment() tea.Cmd {
	user := d.deps.Auth.CurrentUser()
	if user == nil {
		return nil
	}

	d.busy = true
	deps := d.deps
	routeID := d.routeID
	name := user.Name()
	email := user.Email
	body := d.commentInput.Value()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		c, err := deps.Comments.Post(ctx, routeID, name, email, body)
		return commentDoneMsg{owner: d, comment: c, err: err}
	}
}

func (d *DetailScreen) View(width, height int) string {
	if d.loading {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Hint.Render("Loading challenge..."))
	}

	if !d.found {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.StatusErr.Render("Challenge not found."))
	}

	var b strings.Builder

	diff := lipgloss.NewStyle().
		Foreground(theme.DifficultyColor(d.challenge.DifficultyClass)).
		Render(d.challenge.Difficulty)
	b.WriteString(theme.Title.Render(d.challenge.Title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  ·  %.0f points\n\n", diff, d.challenge.MaxPoints()))

	b.WriteString(theme.Body.Render(d.challenge.Description))
	b.WriteString("\n\n")

	b.WriteString(d.statusLine())
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Render("Your Solution"))
	b.WriteString("\n")
	b.WriteString(d.editor.View())
	b.WriteString("\n\n")

	b.WriteString(d.commentSection())

	if d.status != "" {
		b.WriteString("\n")
		style := theme.StatusOK
		if d.isErr {
			style = theme.StatusErr
		}
		if d.focus == focusConfirm {
			style = theme.StatusWarn
		}
		b.WriteString(style.Render(d.status))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(b.String())
}

func (d *DetailScreen) statusLine() string {
	if !d.deps.Auth.IsAuthenticated() {
		return theme.Hint.Render("Log in from the home screen to submit a solution.")
	}
	if d.latest == nil {
		return theme.Hint.Render("You have not submitted a solution yet.")
	}

	switch d.latest.Status {
	case api.StatusApproved:
		return theme.StatusOK.Render(fmt.Sprintf("Approved · %.0f points awarded", d.latest.Awarded()))
	case api.StatusRejected:
		return theme.StatusErr.Render("Rejected · resubmit to try again")
	default:
		return theme.StatusWarn.Render("Pending review")
	}
}

func (d *DetailScreen) commentSection() string {
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Comments (%d)", len(d.comments))))
	b.WriteString("\n")

	if len(d.comments) == 0 {
		b.WriteString(theme.Hint.Render("No comments yet."))
		b.WriteString("\n")
	}
	for _, c := range d.comments {
		author := theme.Selected.Render(c.AuthorName)
		when := theme.Hint.Render(c.CreatedAt.Format("2006-01-02 15:04"))
		b.WriteString(fmt.Sprintf("%s  %s\n  %s\n", author, when, c.Body))
	}

	if d.focus == focusComment {
		b.WriteString(d.commentInput.View())
		b.WriteString("\n")
	}

	return b.String()
}
