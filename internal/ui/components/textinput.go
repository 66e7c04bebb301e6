// Package components holds small reusable TUI widgets.
package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// InputMode restricts which characters a TextInput accepts.
type InputMode int

const (
	// ModeText accepts anything.
	ModeText InputMode = iota
	// ModeInteger accepts digits.
	ModeInteger
	// ModeNumber accepts a signed decimal number.
	ModeNumber
)

// accepts reports whether a typed key is allowed in the mode.
func (m InputMode) accepts(key string) bool {
	switch m {
	case ModeInteger:
		return key >= "0" && key <= "9"
	case ModeNumber:
		return (key >= "0" && key <= "9") || key == "-" || key == "."
	default:
		return true
	}
}

// TextInput wraps bubbles/textinput with character filtering.
type TextInput struct {
	Model textinput.Model
	Mode  InputMode
}

// NewTextInput creates a focused input. limit caps the length when
// positive.
func NewTextInput(placeholder string, mode InputMode, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Mode: mode}
}

// Init starts the cursor blinking.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update filters single-character keys by mode and forwards the rest.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if s := key.String(); len(s) == 1 && !t.Mode.accepts(s) {
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input text.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// IntValue parses the input as an integer.
func (t TextInput) IntValue() (int, error) {
	return strconv.Atoi(t.Value())
}
