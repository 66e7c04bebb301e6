package attempt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Empty())
	assert.Equal(t, difficulty.Medium, s.Recommended)
	assert.Empty(t, s.ByTier)
	assert.Equal(t, Trend{}, s.Trend)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		rec(difficulty.Easy, true, 4),
		rec(difficulty.Easy, true, 6),
		rec(difficulty.Medium, false, 14),
		rec(difficulty.Easy, false, 9),
		rec(difficulty.Medium, true, 11),
		rec(difficulty.Medium, true, 10),
	}

	s := Summarize(records)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 4, s.Correct)
	if !almostEqual(s.Accuracy, 66.667) {
		t.Errorf("Accuracy = %f, want 66.667", s.Accuracy)
	}
	if !almostEqual(s.MeanTime, 9) {
		t.Errorf("MeanTime = %f, want 9", s.MeanTime)
	}

	require.Len(t, s.ByTier, 2)
	assert.Equal(t, difficulty.Easy, s.ByTier[0].Tier)
	assert.Equal(t, 3, s.ByTier[0].Attempts)
	if !almostEqual(s.ByTier[0].MeanTime, 19.0/3) {
		t.Errorf("Easy MeanTime = %f", s.ByTier[0].MeanTime)
	}
	assert.Equal(t, difficulty.Medium, s.ByTier[1].Tier)
	if !almostEqual(s.ByTier[1].Accuracy, 66.667) {
		t.Errorf("Medium Accuracy = %f", s.ByTier[1].Accuracy)
	}

	assert.Equal(t, 5, s.Trend.Count)
	if !almostEqual(s.Trend.Accuracy, 60) {
		t.Errorf("Trend Accuracy = %f, want 60", s.Trend.Accuracy)
	}

	// last three: F/9, T/11, T/10 at Medium -> 2 correct, mean 10 <= 12.
	assert.Equal(t, difficulty.Hard, s.Recommended)
}

func TestSummarize_DoesNotMutate(t *testing.T) {
	records := []Record{rec(difficulty.Hard, true, 1), rec(difficulty.Easy, false, 2)}
	before := append([]Record(nil), records...)
	Summarize(records)
	assert.Equal(t, before, records)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    difficulty.Tier
	}{
		{"single weak easy", []Record{rec(difficulty.Easy, false, 3)}, difficulty.Easy},
		{"single correct hard demotes", []Record{rec(difficulty.Hard, true, 3)}, difficulty.Medium},
		{"strong medium", []Record{rec(difficulty.Medium, true, 5), rec(difficulty.Medium, true, 5), rec(difficulty.Medium, true, 5)}, difficulty.Hard},
		{"slow medium stays", []Record{rec(difficulty.Medium, true, 15), rec(difficulty.Medium, true, 15), rec(difficulty.Medium, false, 15)}, difficulty.Medium},
		{"uses last tier", []Record{rec(difficulty.Hard, true, 5), rec(difficulty.Hard, true, 5), rec(difficulty.Easy, true, 5)}, difficulty.Medium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.records))
		})
	}
}

func TestTail(t *testing.T) {
	var records []Record
	for i := range 15 {
		records = append(records, Record{Prompt: string(rune('a' + i))})
	}
	tail := Tail(records, TailSize)
	require.Len(t, tail, 10)
	assert.Equal(t, "f", tail[0].Prompt)
	assert.Len(t, Tail(records[:3], 10), 3)
	assert.Empty(t, Tail(records, 0))
}
