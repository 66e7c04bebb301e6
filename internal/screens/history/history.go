// Package history lists completed sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/store"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// PageSize is the number of sessions loaded.
const PageSize = 50

// SessionSource lists completed sessions.
type SessionSource interface {
	QuerySessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionEvent, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Err      error
}

// HistoryScreen displays past sessions.
type HistoryScreen struct {
	source   SessionSource
	user     string
	sessions []store.SessionEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.EscHandler      = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

// New creates a history screen. A non-empty user limits the list to that
// learner.
func New(source SessionSource, user string) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		user:     user,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source, user := s.source, s.user
	return func() tea.Msg {
		sessions, err := source.QuerySessions(context.Background(), store.QueryOpts{Limit: PageSize, User: user})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) HandlesEsc() bool { return true }

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return "\n\n" + theme.Center(width, theme.ErrorText.Render("Error: "+s.errMsg))
	}
	if !s.loaded {
		return "\n\n" + theme.Center(width, theme.Dim.Render("Loading history..."))
	}
	if len(s.sessions) == 0 {
		return "\n\n" + theme.Center(width, theme.Hint.Render("No sessions yet. Start practicing!"))
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		var accuracy float64
		if sess.Questions > 0 {
			accuracy = float64(sess.Correct) / float64(sess.Questions) * 100
		}

		prefix := "  "
		style := theme.Body
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-12s %3d questions  %3.0f%%  %s → %s",
			prefix, sess.Timestamp.Local().Format("Jan 02 15:04"), sess.User,
			sess.Questions, accuracy, sess.FinalTier, sess.RecommendedTier)
		b.WriteString(theme.Center(width, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(theme.Center(width, theme.Dim.Render(fmt.Sprintf(
				"    started %s  strategy %s  %d:%02d",
				sess.InitialTier, sess.Strategy, sess.DurationSecs/60, sess.DurationSecs%60))))
			b.WriteString("\n")
			path := sess.ExportPath
			if path == "" {
				path = "not saved"
			}
			b.WriteString(theme.Center(width, theme.Dim.Render("    attempts: "+path)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
