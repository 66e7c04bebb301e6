package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/store"
)

type fakeSource struct {
	sessions []store.SessionEvent
	err      error
	opts     store.QueryOpts
}

func (f *fakeSource) QuerySessions(_ context.Context, opts store.QueryOpts) ([]store.SessionEvent, error) {
	f.opts = opts
	return f.sessions, f.err
}

func sampleSessions() []store.SessionEvent {
	ts := time.Date(2026, 3, 4, 10, 30, 0, 0, time.Local)
	return []store.SessionEvent{
		{Sequence: 2, Timestamp: ts, SessionEventData: store.SessionEventData{
			SessionID: "b", User: "Ada", Strategy: "rule", InitialTier: "Easy", FinalTier: "Hard",
			RecommendedTier: "Hard", Questions: 5, Correct: 4, DurationSecs: 75, ExportPath: "/tmp/b.csv",
		}},
		{Sequence: 1, Timestamp: ts.Add(-time.Hour), SessionEventData: store.SessionEventData{
			SessionID: "a", User: "Ada", Strategy: "tree", InitialTier: "Medium", FinalTier: "Easy",
			RecommendedTier: "Easy", Questions: 4, Correct: 1,
		}},
	}
}

func loaded(t *testing.T, src *fakeSource) *HistoryScreen {
	t.Helper()
	s := New(src, "Ada")
	cmd := s.Init()
	require.NotNil(t, cmd)
	_, _ = s.Update(cmd())
	return s
}

func TestHistory_LoadsSessions(t *testing.T) {
	src := &fakeSource{sessions: sampleSessions()}
	s := loaded(t, src)

	assert.Equal(t, PageSize, src.opts.Limit)
	assert.Equal(t, "Ada", src.opts.User)

	view := s.View(100, 30)
	assert.Contains(t, view, "Mar 04 10:30")
	assert.Contains(t, view, "80%")
	assert.Contains(t, view, "Hard → Hard")
	assert.Contains(t, view, "Easy → Easy")
}

func TestHistory_Loading(t *testing.T) {
	s := New(&fakeSource{}, "")
	assert.Contains(t, s.View(80, 24), "Loading history")
}

func TestHistory_Empty(t *testing.T) {
	s := loaded(t, &fakeSource{})
	assert.Contains(t, s.View(80, 24), "No sessions yet")
}

func TestHistory_Error(t *testing.T) {
	s := loaded(t, &fakeSource{err: errors.New("db locked")})
	assert.Contains(t, s.View(80, 24), "Error: db locked")
}

func TestHistory_NavigateAndExpand(t *testing.T) {
	s := loaded(t, &fakeSource{sessions: sampleSessions()})

	_, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
	_, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)

	_, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	assert.Contains(t, view, "strategy tree")
	assert.Contains(t, view, "attempts: not saved")

	_, _ = s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	_, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 30), "attempts: /tmp/b.csv")
	assert.Contains(t, s.View(100, 30), "1:15")
}

func TestHistory_EscPops(t *testing.T) {
	s := loaded(t, &fakeSource{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Len(t, s.KeyHints(), 3)
}
