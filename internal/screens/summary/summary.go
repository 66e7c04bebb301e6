// Package summary shows the result of a finished session and the coach
// note, if a coach is configured.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/coach"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/ui/layout"
	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// AdviseFunc fetches a coach note for a result.
type AdviseFunc func(ctx context.Context, res *session.Result) (*coach.Note, error)

type noteMsg struct {
	Note *coach.Note
	Err  error
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	res       *session.Result
	exportErr error
	advise    AdviseFunc

	note        *coach.Note
	noteErr     error
	noteLoading bool
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.EscHandler      = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

// New creates a summary screen. exportErr is shown in place of the CSV
// path. A nil advise hides the coach section.
func New(res *session.Result, exportErr error, advise AdviseFunc) *SummaryScreen {
	return &SummaryScreen{
		res:         res,
		exportErr:   exportErr,
		advise:      advise,
		noteLoading: advise != nil && res != nil && !res.Summary.Empty(),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	if !s.noteLoading {
		return nil
	}
	advise, res := s.advise, s.res
	return func() tea.Msg {
		note, err := advise(context.Background(), res)
		return noteMsg{Note: note, Err: err}
	}
}

func (s *SummaryScreen) HandlesEsc() bool { return true }

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteMsg:
		s.noteLoading = false
		s.note, s.noteErr = msg.Note, msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, router.Home
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.res == nil {
		return ""
	}
	sum := s.res.Summary

	var b strings.Builder
	b.WriteString(theme.Center(width, theme.Title.Render("Session complete!")))
	b.WriteString("\n\n")

	mins := int(s.res.Duration.Minutes())
	secs := int(s.res.Duration.Seconds()) % 60
	b.WriteString(theme.Center(width, theme.Dim.Render(fmt.Sprintf("%s  Duration: %d:%02d", s.res.User, mins, secs))))
	b.WriteString("\n\n")

	if sum.Empty() {
		b.WriteString(theme.Center(width, theme.Dim.Render("No puzzles answered.")))
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Center(width, theme.Body.Render(fmt.Sprintf(
			"Questions: %d      Correct: %d      Accuracy: %.0f%%      Avg time: %.2fs",
			sum.Total, sum.Correct, sum.Accuracy, sum.MeanTime))))
		b.WriteString("\n\n")
		b.WriteString(section(width, "By tier"))
		b.WriteString(theme.Center(width, renderTiers(sum.ByTier)))
		b.WriteString("\n\n")
		b.WriteString(section(width, "Last attempts"))
		b.WriteString(theme.Center(width, renderTail(attempt.Tail(s.res.Records, attempt.TailSize))))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Center(width, "Recommended next tier: "+theme.TierBadge(sum.Recommended)))
	b.WriteString("\n")
	if s.exportErr != nil {
		b.WriteString(theme.Center(width, theme.ErrorText.Render("Could not save attempts: "+s.exportErr.Error())))
	} else if s.res.ExportPath != "" {
		b.WriteString(theme.Center(width, theme.Dim.Render("Attempts saved to "+s.res.ExportPath)))
	}
	b.WriteString("\n")

	if coachView := s.renderCoach(width); coachView != "" {
		b.WriteString("\n")
		b.WriteString(coachView)
	}
	return b.String()
}

func section(width int, title string) string {
	divider := theme.Dim.Render(strings.Repeat("─", max(min(width-8, 60), 0)))
	return theme.Center(width, theme.Dim.Render(title)) + "\n" + theme.Center(width, divider) + "\n"
}

func renderTiers(stats []attempt.TierStats) string {
	lines := make([]string, 0, len(stats))
	for _, ts := range stats {
		lines = append(lines, fmt.Sprintf("%-8s %3d attempts  %3.0f%% correct  %6.2fs avg",
			ts.Tier, ts.Attempts, ts.Accuracy, ts.MeanTime))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTail(records []attempt.Record) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		mark := theme.Correct.Render("✓")
		if !r.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		lines = append(lines, fmt.Sprintf("%s %-10s %-18s = %-6s %6.2fs",
			mark, r.Tier, r.Prompt, puzzle.FormatAnswer(r.Answer), r.TimeTaken))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *SummaryScreen) renderCoach(width int) string {
	switch {
	case s.advise == nil:
		return ""
	case s.noteLoading:
		return theme.Center(width, theme.Dim.Render("Asking the coach..."))
	case s.noteErr != nil:
		if errors.Is(s.noteErr, llm.ErrNotConfigured) {
			return ""
		}
		return theme.Center(width, theme.Dim.Render("Coach unavailable right now."))
	case s.note == nil:
		return ""
	}

	lines := []string{theme.Body.Bold(true).Render("Coach: " + s.note.Headline)}
	for _, tip := range s.note.Tips {
		lines = append(lines, theme.Body.Render("  • "+tip))
	}
	return theme.Center(width, theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
