// Package admin is the review screen: grading pending submissions with
// partial credit and managing the platform's accounts.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	adminsvc "codequest/internal/admin"
	"codequest/internal/api"
	"codequest/internal/catalog"
	"codequest/internal/router"
	"codequest/internal/screen"
	"codequest/internal/screens"
	"codequest/internal/ui/components"
	"codequest/internal/ui/layout"
	"codequest/internal/ui/theme"
)

const requestTimeout = 15 * time.Second

// tabs
const (
	tabSubmissions = iota
	tabAccounts
)

// interaction modes
const (
	modeList = iota
	modeForm
	modeConfirm
)

// create-form fields
const (
	formEmail = iota
	formPassword
	formRole
	formSubmit
	formFieldCount
)

// Async results are tagged with the instance that started them; Update
// drops results owned by a torn-down instance of this screen.
type loadedMsg struct {
	owner *AdminScreen
	dash  *adminsvc.Dashboard
	err   error
}

type gradeDoneMsg struct {
	owner    *AdminScreen
	awarded  float64
	rejected bool
	email    string
	err      error
}

type createDoneMsg struct {
	owner *AdminScreen
	email string
	err   error
}

type deleteDoneMsg struct {
	owner *AdminScreen
	email string
	err   error
}

// AdminScreen shows pending submissions for grading and the account roster.
type AdminScreen struct {
	deps screens.Deps

	dash       *adminsvc.Dashboard
	challenges []catalog.Challenge
	loading    bool
	loadErr    error

	tab  int
	mode int

	subSel int
	pctIdx int

	accSel int

	formEmail    components.TextInput
	formPassword components.TextInput
	formAdmin    bool
	formFocus    int

	busy   bool
	status string
	isErr  bool
}

var _ screen.Screen = (*AdminScreen)(nil)
var _ screen.KeyHintProvider = (*AdminScreen)(nil)
var _ screen.EscCapturer = (*AdminScreen)(nil)

func New(deps screens.Deps) *AdminScreen {
	return &AdminScreen{
		deps:         deps,
		loading:      true,
		pctIdx:       len(adminsvc.Percents) - 1,
		formEmail:    components.NewTextInput("email", 120),
		formPassword: components.NewPasswordInput("password", 120),
	}
}

func (a *AdminScreen) Init() tea.Cmd {
	if !a.deps.Auth.IsAuthenticated() || !a.deps.Auth.IsAdmin() {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return a.load()
}

func (a *AdminScreen) load() tea.Cmd {
	deps := a.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		dash, err := deps.Admin.LoadDashboard(ctx)
		return loadedMsg{owner: a, dash: dash, err: err}
	}
}

func (a *AdminScreen) Title() string {
	return "Review"
}

func (a *AdminScreen) CapturesEsc() bool {
	return a.mode != modeList
}

func (a *AdminScreen) KeyHints() []layout.KeyHint {
	switch a.mode {
	case modeForm:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirm:
		return []layout.KeyHint{
			{Key: "y", Description: "Delete account"},
			{Key: "n", Description: "Cancel"},
		}
	}
	if a.tab == tabSubmissions {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "←→", Description: "Percent"},
			{Key: "a", Description: "Approve"},
			{Key: "x", Description: "Reject"},
			{Key: "Tab", Description: "Accounts"},
			{Key: "r", Description: "Refresh"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "n", Description: "New account"},
		{Key: "d", Description: "Delete"},
		{Key: "Tab", Description: "Submissions"},
		{Key: "r", Description: "Refresh"},
	}
}

func (a *AdminScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != a {
			return a, nil
		}
		a.loading = false
		a.busy = false
		a.loadErr = msg.err
		if msg.err == nil {
			a.dash = msg.dash
			a.challenges = catalog.Normalize(msg.dash.Challenges)
			a.clampSelections()
		}
		return a, nil

	case gradeDoneMsg:
		if msg.owner != a {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			a.status = msg.err.Error()
			a.isErr = true
			return a, nil
		}
		if msg.rejected {
			a.status = fmt.Sprintf("Rejected %s's submission.", msg.email)
		} else {
			a.status = fmt.Sprintf("Approved %s's submission for %.0f points.", msg.email, msg.awarded)
		}
		a.deps.Log.Event("admin.graded", map[string]any{
			"email":    msg.email,
			"rejected": msg.rejected,
			"awarded":  msg.awarded,
		})
		a.isErr = false
		return a, a.load()

	case createDoneMsg:
		if msg.owner != a {
			return a, nil
		}
		a.busy = false
		if msg.err != nil {
			a.status = msg.err.Error()
			a.isErr = true
			return a, nil
		}
		a.mode = modeList
		a.resetForm()
		a.status = fmt.Sprintf("Created account %s.", msg.email)
		a.isErr = false
		return a, a.load()

	case deleteDoneMsg:
		if msg.owner != a {
			return a, nil
		}
		a.busy = false
		a.mode = modeList
		if msg.err != nil {
			a.status = msg.err.Error()
			a.isErr = true
			return a, a.load()
		}
		a.deps.Log.Event("admin.account.deleted", map[string]any{"email": msg.email})
		a.status = fmt.Sprintf("Deleted account %s.", msg.email)
		a.isErr = false
		return a, a.load()

	case tea.KeyMsg:
		if a.busy {
			return a, nil
		}
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *AdminScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch a.mode {
	case modeForm:
		return a.handleFormKey(msg)
	case modeConfirm:
		switch msg.String() {
		case "y", "Y":
			return a, a.deleteSelected()
		case "n", "N", "esc":
			a.mode = modeList
			a.status = ""
		}
		return a, nil
	}

	switch msg.String() {
	case "tab":
		if a.tab == tabSubmissions {
			a.tab = tabAccounts
		} else {
			a.tab = tabSubmissions
		}
		a.status = ""
		return a, nil
	case "r":
		a.status = ""
		return a, a.load()
	}

	if a.tab == tabSubmissions {
		return a.handleSubmissionsKey(msg)
	}
	return a.handleAccountsKey(msg)
}

func (a *AdminScreen) handleSubmissionsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	pending := a.pending()

	switch msg.String() {
	case "up", "k":
		if a.subSel > 0 {
			a.subSel--
			a.pctIdx = len(adminsvc.Percents) - 1
		}
	case "down", "j":
		if a.subSel < len(pending)-1 {
			a.subSel++
			a.pctIdx = len(adminsvc.Percents) - 1
		}
	case "left", "h":
		if a.pctIdx > 0 {
			a.pctIdx--
		}
	case "right", "l":
		if a.pctIdx < len(adminsvc.Percents)-1 {
			a.pctIdx++
		}
	case "a":
		if a.subSel >= 0 && a.subSel < len(pending) {
			return a, a.approve(pending[a.subSel], adminsvc.Percents[a.pctIdx])
		}
	case "x":
		if a.subSel >= 0 && a.subSel < len(pending) {
			return a, a.reject(pending[a.subSel])
		}
	}
	return a, nil
}

func (a *AdminScreen) handleAccountsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	profiles := a.profiles()

	switch msg.String() {
	case "up", "k":
		if a.accSel > 0 {
			a.accSel--
		}
	case "down", "j":
		if a.accSel < len(profiles)-1 {
			a.accSel++
		}
	case "n":
		a.mode = modeForm
		a.formFocus = formEmail
		a.status = ""
		return a, a.formEmail.Focus()
	case "d":
		if a.accSel >= 0 && a.accSel < len(profiles) {
			a.mode = modeConfirm
			a.status = fmt.Sprintf(
				"Delete %s and all their submissions? This cannot be undone.",
				profiles[a.accSel].UserEmail,
			)
			a.isErr = false
		}
	}
	return a, nil
}

func (a *AdminScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.resetForm()
		return a, nil
	case "tab", "down":
		return a, a.focusFormField((a.formFocus + 1) % formFieldCount)
	case "shift+tab", "up":
		return a, a.focusFormField((a.formFocus + formFieldCount - 1) % formFieldCount)
	case "enter":
		if a.formFocus == formSubmit {
			return a, a.createAccount()
		}
		return a, a.focusFormField((a.formFocus + 1) % formFieldCount)
	case " ":
		if a.formFocus == formRole {
			a.formAdmin = !a.formAdmin
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.formFocus {
	case formEmail:
		a.formEmail, cmd = a.formEmail.Update(msg)
	case formPassword:
		a.formPassword, cmd = a.formPassword.Update(msg)
	}
	return a, cmd
}

func (a *AdminScreen) focusFormField(field int) tea.Cmd {
	a.formFocus = field
	a.formEmail.Blur()
	a.formPassword.Blur()
	switch field {
	case formEmail:
		return a.formEmail.Focus()
	case formPassword:
		return a.formPassword.Focus()
	}
	return nil
}

func (a *AdminScreen) resetForm() {
	a.formEmail.Model.SetValue("")
	a.formPassword.Model.SetValue("")
	a.formEmail.Blur()
	a.formPassword.Blur()
	a.formAdmin = false
	a.formFocus = formEmail
}

func (a *AdminScreen) approve(sub api.Submission, percent int) tea.Cmd {
	a.busy = true
	a.status = "Approving..."
	a.isErr = false

	deps := a.deps
	challenges := a.challenges
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		awarded, err := deps.Admin.Approve(ctx, sub, percent, challenges)
		return gradeDoneMsg{owner: a, awarded: awarded, email: sub.UserEmail, err: err}
	}
}

func (a *AdminScreen) reject(sub api.Submission) tea.Cmd {
	a.busy = true
	a.status = "Rejecting..."
	a.isErr = false

	deps := a.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := deps.Admin.Reject(ctx, sub)
		return gradeDoneMsg{owner: a, rejected: true, email: sub.UserEmail, err: err}
	}
}

func (a *AdminScreen) createAccount() tea.Cmd {
	email := strings.TrimSpace(a.formEmail.Value())
	password := a.formPassword.Value()
	if email == "" || password == "" {
		a.status = "Email and password are required."
		a.isErr = true
		return nil
	}

	role := "user"
	if a.formAdmin {
		role = "admin"
	}

	a.busy = true
	a.status = "Creating account..."
	a.isErr = false

	deps := a.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := deps.Admin.CreateAccount(ctx, email, password, role)
		return createDoneMsg{owner: a, email: email, err: err}
	}
}

func (a *AdminScreen) deleteSelected() tea.Cmd {
	profiles := a.profiles()
	if a.accSel < 0 || a.accSel >= len(profiles) {
		a.mode = modeList
		return nil
	}
	target := profiles[a.accSel]

	var selfEmail string
	if u := a.deps.Auth.CurrentUser(); u != nil {
		selfEmail = u.Email
	}

	a.busy = true
	a.status = "Deleting account..."
	a.isErr = false

	deps := a.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := deps.Admin.DeleteAccount(ctx, target, selfEmail)
		return deleteDoneMsg{owner: a, email: target.UserEmail, err: err}
	}
}

func (a *AdminScreen) pending() []api.Submission {
	if a.dash == nil {
		return nil
	}
	return a.dash.Pending
}

func (a *AdminScreen) profiles() []api.Profile {
	if a.dash == nil {
		return nil
	}
	return a.dash.Profiles
}

func (a *AdminScreen) clampSelections() {
	if n := len(a.pending()); a.subSel >= n {
		a.subSel = n - 1
	}
	if a.subSel < 0 {
		a.subSel = 0
	}
	if n := len(a.profiles()); a.accSel >= n {
		a.accSel = n - 1
	}
	if a.accSel < 0 {
		a.accSel = 0
	}
}

func (a *AdminScreen) View(width, height int) string {
	if a.loading {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Hint.Render("Loading review dashboard..."))
	}

	var b strings.Builder

	b.WriteString(a.tabBar())
	b.WriteString("\n\n")

	if a.loadErr != nil {
		b.WriteString(theme.StatusErr.Render("Could not load the dashboard: " + a.loadErr.Error()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press r to retry."))
		return a.framed(width, height, b.String())
	}

	switch {
	case a.mode == modeForm:
		b.WriteString(a.formView())
	case a.tab == tabSubmissions:
		b.WriteString(a.submissionsView())
	default:
		b.WriteString(a.accountsView())
	}

	if a.status != "" {
		b.WriteString("\n\n")
		style := theme.StatusOK
		if a.isErr {
			style = theme.StatusErr
		}
		if a.mode == modeConfirm {
			style = theme.StatusWarn
		}
		b.WriteString(style.Render(a.status))
	}

	return a.framed(width, height, b.String())
}

func (a *AdminScreen) framed(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 4).
		Render(content)
}

func (a *AdminScreen) tabBar() string {
	render := func(label string, active bool) string {
		if active {
			return theme.ButtonActive.Render(label)
		}
		return theme.ButtonInactive.Render(label)
	}
	pendingLabel := fmt.Sprintf("Submissions (%d)", len(a.pending()))
	accountsLabel := fmt.Sprintf("Accounts (%d)", len(a.profiles()))
	return render(pendingLabel, a.tab == tabSubmissions) + "  " + render(accountsLabel, a.tab == tabAccounts)
}

func (a *AdminScreen) submissionsView() string {
	pending := a.pending()
	if len(pending) == 0 {
		return theme.Hint.Render("No submissions waiting for review.")
	}

	var b strings.Builder
	for i, s := range pending {
		marker := "   "
		style := theme.Unselected
		if i == a.subSel {
			marker = " ▸ "
			style = theme.Selected
		}

		title := "Challenge"
		if c, ok := catalog.Find(a.challenges, s.Challenge.String()); ok && c.Title != "" {
			title = c.Title
		}

		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker,
			style.Render(s.UserEmail),
			theme.Body.Render(title),
			theme.Hint.Render(fmt.Sprintf("%.0f pts requested", float64(s.PointsRequested))),
		))
	}

	if a.subSel >= 0 && a.subSel < len(pending) {
		b.WriteString("\n")
		b.WriteString(a.gradingPanel(pending[a.subSel]))
	}
	return b.String()
}

func (a *AdminScreen) gradingPanel(s api.Submission) string {
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render("Solution"))
	b.WriteString("\n")
	code := strings.TrimSpace(s.Code)
	if code == "" {
		b.WriteString(theme.Hint.Render("(empty submission)"))
	} else {
		lines := strings.Split(code, "\n")
		if len(lines) > 8 {
			lines = append(lines[:8], theme.Hint.Render("..."))
		}
		b.WriteString(theme.Body.Render(strings.Join(lines, "\n")))
	}
	b.WriteString("\n\n")

	max := adminsvc.MaxPoints(s, a.challenges)
	percent := adminsvc.Percents[a.pctIdx]
	awarded := adminsvc.AwardedPoints(max, percent)

	b.WriteString("Grade: ")
	for i, p := range adminsvc.Percents {
		label := fmt.Sprintf(" %d%% ", p)
		if i == a.pctIdx {
			b.WriteString(theme.ButtonActive.Render(label))
		} else {
			b.WriteString(theme.Hint.Render(label))
		}
	}
	b.WriteString(theme.Body.Render(fmt.Sprintf("  → %.0f of %.0f points", awarded, max)))

	return b.String()
}

func (a *AdminScreen) accountsView() string {
	profiles := a.profiles()

	var b strings.Builder
	if len(profiles) == 0 {
		b.WriteString(theme.Hint.Render("No profiles found. Press n to create an account."))
		return b.String()
	}

	header := fmt.Sprintf("   %-24s %-32s %s", "NAME", "EMAIL", "SCORE")
	b.WriteString(theme.Hint.Render(header))
	b.WriteString("\n")

	for i, p := range profiles {
		marker := "   "
		style := theme.Unselected
		if i == a.accSel {
			marker = " ▸ "
			style = theme.Selected
		}
		name := p.DisplayName
		if name == "" {
			name = p.UserEmail
		}
		line := fmt.Sprintf("%-24s %-32s %.0f", name, p.UserEmail, float64(p.TotalScore))
		b.WriteString(marker + style.Render(line) + "\n")
	}

	if a.dash != nil {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d auth accounts on the platform", len(a.dash.Users))))
	}
	return b.String()
}

func (a *AdminScreen) formView() string {
	field := func(label, view string, focused bool) string {
		style := theme.Unselected
		if focused {
			style = theme.Selected
		}
		return style.Render(label) + "\n" + view
	}

	role := "user"
	if a.formAdmin {
		role = "admin"
	}
	roleView := fmt.Sprintf("[%s]  (space toggles)", role)

	submit := components.NewButton("Create", a.formFocus == formSubmit, nil).View()

	form := strings.Join([]string{
		theme.Title.Render("New Account"),
		"",
		field("Email", a.formEmail.View(), a.formFocus == formEmail),
		"",
		field("Password", a.formPassword.View(), a.formFocus == formPassword),
		"",
		field("Role", roleView, a.formFocus == formRole),
		"",
		submit,
	}, "\n")

	return theme.Card.Render(form)
}
