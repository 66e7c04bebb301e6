package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prev := int64(0)
	for range 5 {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, user := range []string{"ada", "bob", "ada"} {
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			SessionID: "s1",
			User:      user,
			Tier:      "Easy",
			Prompt:    "1 + 1 = ?",
			Answer:    2,
			Response:  "2",
			Correct:   i%2 == 0,
			TimeTaken: float64(i) + 0.5,
			NextTier:  "Medium",
		})
		require.NoError(t, err)
	}

	all, err := repo.QueryAttempts(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].Sequence, all[1].Sequence)

	ada, err := repo.QueryAttempts(ctx, QueryOpts{User: "ada"})
	require.NoError(t, err)
	require.Len(t, ada, 2)
	assert.True(t, ada[0].Correct)
	assert.Equal(t, 2.5, ada[0].TimeTaken)
	assert.Equal(t, "Medium", ada[0].NextTier)
	assert.WithinDuration(t, time.Now(), ada[0].Timestamp, time.Minute)

	limited, err := repo.QueryAttempts(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	after, err := repo.QueryAttempts(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionStart, User: "ada"}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "a", Action: ActionEnd, User: "ada", InitialTier: "Easy", FinalTier: "Medium",
		RecommendedTier: "Hard", Questions: 5, Correct: 4, DurationSecs: 60, ExportPath: "logs/a.csv",
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "b", Action: ActionEnd, User: "bob", Questions: 3}))

	sessions, err := repo.QuerySessions(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b", sessions[0].SessionID)

	latest, err := repo.LatestSession(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "Hard", latest.RecommendedTier)
	assert.Equal(t, 4, latest.Correct)
	assert.Equal(t, "logs/a.csv", latest.ExportPath)

	none, err := repo.LatestSession(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSessionEventValidation(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	assert.Error(t, repo.AppendSessionEvent(ctx, SessionEventData{Action: ActionStart}))
	assert.Error(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "x", Action: "pause"}))
}

func TestLLMRequestEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "coach", InputTokens: 10, OutputTokens: 5, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "coach", ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.True(t, events[1].Success)
	assert.Equal(t, 10, events[1].InputTokens)
}

func TestQueryByTimeRange(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendAttemptEvent(ctx, AttemptEventData{SessionID: "s", User: "u", Tier: "Easy"}))

	future, err := repo.QueryAttempts(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	past, err := repo.QueryAttempts(ctx, QueryOpts{From: time.Now().Add(-time.Hour), To: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, past, 1)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("ADAPTIQ_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("ADAPTIQ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "adaptiq", "adaptiq.db"), p)
}
