package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for multi-line entry (solutions and
// comments).
type TextArea struct {
	Model textarea.Model
}

// NewTextArea creates a new text area.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	if width > 0 {
		ta.SetWidth(width)
	}
	if height > 0 {
		ta.SetHeight(height)
	}
	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text area.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the current content.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the content.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

// Focus gives the area keyboard focus.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the area has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}

// SetSize adjusts the rendered dimensions.
func (t *TextArea) SetSize(width, height int) {
	if width > 0 {
		t.Model.SetWidth(width)
	}
	if height > 0 {
		t.Model.SetHeight(height)
	}
}
