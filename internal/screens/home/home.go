// Package home is the first screen: a menu to start a quiz, browse
// history or quit.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// Options wires the menu actions.
type Options struct {
	User string

	// Start opens the setup form.
	Start func() tea.Cmd

	// History opens past sessions. Nil disables the entry.
	History func() tea.Cmd

	// Recommended looks up the tier suggested by the learner's last
	// session.
	Recommended func() (difficulty.Tier, bool)
}

// HomeScreen shows the main menu.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	rec    difficulty.Tier
	hasRec bool
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.Resumer         = (*HomeScreen)(nil)
)

// New creates the home screen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start", Hint: "Pick a name, tier and number of rounds", Action: opts.Start},
		{Label: "History", Hint: "Past sessions and recommendations", Action: opts.History, Disabled: opts.History == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	h.loadRecommendation()
	return h
}

func (h *HomeScreen) loadRecommendation() {
	if h.opts.Recommended != nil {
		h.rec, h.hasRec = h.opts.Recommended()
	}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

// Resume refreshes the recommendation after a session.
func (h *HomeScreen) Resume() tea.Cmd {
	h.loadRecommendation()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Center(width, theme.Title.Render("Adaptive Math Practice")))
	b.WriteString("\n")
	b.WriteString(theme.Center(width, theme.Dim.Render("Puzzles get harder when you are quick and right, easier when you struggle.")))
	b.WriteString("\n\n")
	if h.hasRec {
		line := "Last time we suggested " + theme.TierBadge(h.rec)
		if h.opts.User != "" {
			line = "Welcome back, " + h.opts.User + ". " + line
		}
		b.WriteString(theme.Center(width, theme.Body.Render(line)))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Center(width, theme.Card.Width(min(40, width-4)).Render(h.menu.View())))
	return b.String()
}

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}
