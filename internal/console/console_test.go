package console

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/coach"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/puzzle"
)

type sumGen struct{}

func (sumGen) Generate(t difficulty.Tier) (*puzzle.Puzzle, error) {
	return &puzzle.Puzzle{Prompt: "3 + 4 = ?", Answer: 7, Tier: t}, nil
}

func stepClock() func() time.Time {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func testOptions(t *testing.T) Options {
	return Options{
		ExportDir: t.TempDir(),
		Generator: sumGen{},
		Clock:     stepClock(),
	}
}

func TestRun_FullSession(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("Ada\n1\n3\n7\n7\n7\n")

	res, err := Run(context.Background(), in, &out, testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "Ada", res.User)
	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, difficulty.Hard, res.Summary.Recommended)
	assert.FileExists(t, res.ExportPath)

	text := out.String()
	assert.Contains(t, text, "Hi Ada! Starting at Easy difficulty. 3 puzzles.")
	assert.Contains(t, text, "Puzzle 3 of 3  Difficulty: Medium")
	assert.Contains(t, text, "Correct! (took 1.00s)")
	assert.Contains(t, text, "Next difficulty: Medium")
	assert.Contains(t, text, "Accuracy: 100.0%")
	assert.Contains(t, text, "Recommended next level: Hard")
	assert.Contains(t, text, "Attempts saved to ")
}

func TestRun_InvalidTierReprompts(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\n9\nhard\nabc\n1\n")

	res, err := Run(context.Background(), in, &out, testOptions(t))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Invalid choice, try again.")
	assert.Equal(t, "Learner", res.User)
	assert.Equal(t, difficulty.Hard, res.Records[0].Tier)
	assert.Contains(t, out.String(), "5 puzzles")
	// Input ran out after one answer.
	assert.Equal(t, 1, res.Summary.Total)
	assert.Contains(t, out.String(), "Incorrect. Correct answer: 7")
}

func TestRun_NoInput(t *testing.T) {
	_, err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, testOptions(t))
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestRun_PresetsSkipPrompts(t *testing.T) {
	var out bytes.Buffer
	tier := difficulty.Medium
	opts := testOptions(t)
	opts.User = "Sam"
	opts.Tier = &tier
	opts.Rounds = 1

	res, err := Run(context.Background(), strings.NewReader("7\n"), &out, opts)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Enter learner name")
	assert.NotContains(t, out.String(), "Choose initial difficulty")
	assert.Equal(t, difficulty.Medium, res.Records[0].Tier)
}

func TestRun_WithCoach(t *testing.T) {
	var out bytes.Buffer
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"headline":"Fast and accurate.","tips":["Try Hard next time."]}`),
	})
	opts := testOptions(t)
	opts.Coach = coach.NewService(mock, coach.DefaultConfig())
	opts.Rounds = 1

	_, err := Run(context.Background(), strings.NewReader("Ada\n2\n7\n"), &out, opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Coach: Fast and accurate.")
	assert.Contains(t, out.String(), "  - Try Hard next time.")
}

func TestParseRounds(t *testing.T) {
	tests := map[string]int{
		"":     5,
		"abc":  5,
		"0":    5,
		"-2":   5,
		"12":   12,
		" 7 ":  7,
		"1000": 100,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseRounds(in), "input %q", in)
	}
}
