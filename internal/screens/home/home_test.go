package home

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

type startedMsg struct{}

func TestHome_StartRunsAction(t *testing.T) {
	h := New(Options{Start: func() tea.Cmd {
		return func() tea.Msg { return startedMsg{} }
	}})

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, startedMsg{}, cmd())
}

func TestHome_HistoryDisabledWithoutStore(t *testing.T) {
	h := New(Options{Start: func() tea.Cmd { return nil }})

	_, _ = h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "Quit", h.menu.Items[h.menu.Selected].Label)
}

func TestHome_QuitKey(t *testing.T) {
	h := New(Options{})
	_, cmd := h.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHome_RecommendationRefreshesOnResume(t *testing.T) {
	tier, ok := difficulty.Medium, false
	h := New(Options{User: "Ada", Recommended: func() (difficulty.Tier, bool) { return tier, ok }})
	assert.NotContains(t, h.View(100, 30), "Last time we suggested")

	tier, ok = difficulty.Hard, true
	h.Resume()
	view := h.View(100, 30)
	assert.Contains(t, view, "Welcome back, Ada.")
	assert.Contains(t, view, "Hard")
}

func TestHome_TitleAndHints(t *testing.T) {
	h := New(Options{})
	assert.Equal(t, "Home", h.Title())
	assert.Len(t, h.KeyHints(), 3)
}
