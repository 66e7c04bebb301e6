// Package screen defines what the router needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/ui/layout"
)

// Screen is one page of the app.
type Screen interface {
	// Init returns the command to run when the screen is shown.
	Init() tea.Cmd

	// Update handles a message and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider screens supply their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider screens show a status, such as the current tier, at the
// right of the header.
type StatusProvider interface {
	Status() string
}

// Resumer screens refresh when they become active again after the screen
// above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// EscHandler screens react to esc themselves instead of the app popping
// them.
type EscHandler interface {
	HandlesEsc() bool
}
