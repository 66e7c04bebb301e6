// Package setup is the form that collects the learner name, starting tier
// and number of rounds before a quiz.
package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// Round limits of the form.
const (
	MinRounds     = 3
	MaxRounds     = 30
	DefaultRounds = 10
)

type field int

const (
	fieldName field = iota
	fieldTier
	fieldRounds
	fieldCount
)

// Defaults prefill the form.
type Defaults struct {
	User   string
	Tier   difficulty.Tier
	Rounds int
}

// StartFunc creates a session from the form values.
type StartFunc func(cfg session.Config) (*session.Session, error)

// NextFunc builds the screen that plays s.
type NextFunc func(s *session.Session) screen.Screen

// SetupScreen is the pre-quiz form.
type SetupScreen struct {
	name   components.TextInput
	rounds components.TextInput
	tier   difficulty.Tier
	focus  field
	errMsg string

	start StartFunc
	next  NextFunc
}

var (
	_ screen.Screen          = (*SetupScreen)(nil)
	_ screen.KeyHintProvider = (*SetupScreen)(nil)
)

// New creates the form.
func New(d Defaults, start StartFunc, next NextFunc) *SetupScreen {
	if d.Rounds < MinRounds || d.Rounds > MaxRounds {
		d.Rounds = DefaultRounds
	}
	if !d.Tier.Valid() {
		d.Tier = difficulty.Easy
	}
	s := &SetupScreen{
		name:   components.NewTextInput(attempt.DefaultUser, components.ModeText, 32),
		rounds: components.NewTextInput(fmt.Sprint(DefaultRounds), components.ModeInteger, 2),
		tier:   d.Tier,
		start:  start,
		next:   next,
	}
	s.name.SetValue(d.User)
	s.rounds.SetValue(fmt.Sprint(d.Rounds))
	s.rounds.Blur()
	return s
}

func (s *SetupScreen) Init() tea.Cmd { return s.name.Init() }

func (s *SetupScreen) Title() string { return "New Session" }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next field"}}
	if s.focus == fieldTier {
		hints = append(hints, layout.KeyHint{Key: "←→ 1-3", Description: "Tier"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Start"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// Config returns the session settings the form currently describes.
func (s *SetupScreen) Config() (session.Config, error) {
	n, err := s.rounds.IntValue()
	if err != nil || n < MinRounds || n > MaxRounds {
		return session.Config{}, fmt.Errorf("rounds must be between %d and %d", MinRounds, MaxRounds)
	}
	user := strings.TrimSpace(s.name.Value())
	if user == "" {
		user = attempt.DefaultUser
	}
	return session.Config{User: user, Rounds: n, InitialTier: s.tier}, nil
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.forward(msg)
	}

	switch key.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return s.submit()
	}

	if s.focus == fieldTier {
		switch k := key.String(); k {
		case "left", "h":
			s.tier = max(s.tier-1, difficulty.Easy)
		case "right", "l":
			s.tier = min(s.tier+1, difficulty.Hard)
		case "1", "2", "3":
			s.tier, _ = difficulty.ParseTier(k)
		}
		return s, nil
	}
	return s.forward(msg)
}

func (s *SetupScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldRounds:
		s.rounds, cmd = s.rounds.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.name.Blur()
	s.rounds.Blur()
	switch f {
	case fieldName:
		return s.name.Focus()
	case fieldRounds:
		return s.rounds.Focus()
	}
	return nil
}

func (s *SetupScreen) submit() (screen.Screen, tea.Cmd) {
	cfg, err := s.Config()
	if err != nil {
		s.errMsg = err.Error()
		return s, s.setFocus(fieldRounds)
	}
	if s.start == nil || s.next == nil {
		return s, nil
	}
	sess, err := s.start(cfg)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	return s, router.Replace(s.next(sess))
}

func (s *SetupScreen) View(width, height int) string {
	label := func(f field, text string) string {
		if s.focus == f {
			return theme.Selected.Render("> " + text)
		}
		return theme.Body.Render("  " + text)
	}

	var tiers []string
	for _, t := range difficulty.Tiers {
		num := theme.Dim.Render(fmt.Sprintf("%d ", int(t)+1))
		if t == s.tier {
			tiers = append(tiers, num+"["+theme.TierBadge(t)+"]")
		} else {
			tiers = append(tiers, num+theme.Dim.Render(t.String()))
		}
	}

	var b strings.Builder
	b.WriteString(label(fieldName, "Name    ") + " " + s.name.View() + "\n\n")
	b.WriteString(label(fieldTier, "Tier    ") + " " + strings.Join(tiers, "   ") + "\n\n")
	b.WriteString(label(fieldRounds, "Rounds  ") + " " + s.rounds.View() +
		theme.Dim.Render(fmt.Sprintf("  (%d-%d)", MinRounds, MaxRounds)) + "\n")
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render("  "+s.errMsg) + "\n")
	}

	card := theme.Card.Width(min(60, width-4)).Render(b.String())
	return "\n" + theme.Center(width, card)
}
