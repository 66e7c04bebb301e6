package difficulty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestController_PromotesOnFastCorrect(t *testing.T) {
	c := NewController(Easy, WithHistory(Outcome{true, 5}, Outcome{true, 6}))
	assert.Equal(t, Medium, c.Update(true, 7))
	assert.Equal(t, Medium, c.Tier())
}

func TestController_DemotesOnMistakes(t *testing.T) {
	c := NewController(Medium, WithHistory(Outcome{false, 20}, Outcome{false, 22}))
	assert.Equal(t, Easy, c.Update(true, 19))
}

func TestController_StaysAtCeiling(t *testing.T) {
	c := NewController(Hard, WithHistory(Outcome{true, 10}, Outcome{true, 11}))
	assert.Equal(t, Hard, c.Update(false, 12))
}

func TestController_PredictNextEmptyWindow(t *testing.T) {
	c := NewController(Medium)
	assert.Equal(t, Easy, c.PredictNext())
	assert.Equal(t, Medium, c.Tier())
	assert.Empty(t, c.History())
}

func TestController_PredictNextDoesNotMutate(t *testing.T) {
	c := NewController(Easy, WithHistory(Outcome{true, 3}, Outcome{true, 3}, Outcome{true, 3}))
	before := c.History()
	assert.Equal(t, Medium, c.PredictNext())
	assert.Equal(t, Medium, c.PredictNext())
	assert.Equal(t, Easy, c.Tier())
	assert.Equal(t, before, c.History())
}

func TestController_WindowEvictsOldest(t *testing.T) {
	c := NewController(Easy, WithWindowSize(2))
	c.Update(false, 30)
	c.Update(true, 2)
	c.Update(true, 2)

	h := c.History()
	assert.Len(t, h, 2)
	assert.True(t, h[0].Correct)
	assert.True(t, h[1].Correct)
}

func TestController_OneStepPerUpdate(t *testing.T) {
	c := NewController(Easy, WithDecider(DeciderFunc(func(Features) Tier { return Hard })))
	assert.Equal(t, Medium, c.Update(true, 1))
	assert.Equal(t, Hard, c.Update(true, 1))
}

func TestController_InvalidDeciderKeepsTier(t *testing.T) {
	c := NewController(Medium, WithDecider(DeciderFunc(func(Features) Tier { return Tier(7) })))
	assert.Equal(t, Medium, c.Update(false, 50))
	assert.Equal(t, Medium, c.PredictNext())
}

func TestController_ClampsBadResponseTime(t *testing.T) {
	c := NewController(Easy)
	c.Update(true, -4)
	c.Update(true, math.NaN())

	f := c.Features()
	if !almostEqual(f.MeanTime, 0) {
		t.Errorf("MeanTime = %f, want 0", f.MeanTime)
	}
}

func TestController_ClampsInitialTier(t *testing.T) {
	assert.Equal(t, Hard, NewController(Tier(5)).Tier())
	assert.Equal(t, Easy, NewController(Tier(-1)).Tier())
}

type recordingLearner struct {
	observed []Sample
}

func (r *recordingLearner) Decide(f Features) Tier { return f.RuleLabel() }
func (r *recordingLearner) Observe(f Features, label Tier) {
	r.observed = append(r.observed, Sample{Features: f, Label: label})
}

func TestController_FeedsLearner(t *testing.T) {
	l := &recordingLearner{}
	c := NewController(Easy, WithDecider(l))
	c.Update(true, 4)
	c.Update(true, 4)

	assert.Len(t, l.observed, 2)
	assert.Equal(t, Medium, l.observed[1].Label)
	assert.Equal(t, 2, l.observed[1].Features.Correct)
}

func TestWindowFeatures(t *testing.T) {
	w := NewWindow(3)
	assert.Equal(t, DefaultFeatures(Hard), w.Features(Hard))

	w.Push(Outcome{true, 4})
	w.Push(Outcome{false, 8})
	f := w.Features(Medium)
	assert.Equal(t, 1, f.Correct)
	assert.False(t, f.LastCorrect)
	if !almostEqual(f.MeanTime, 6) {
		t.Errorf("MeanTime = %f, want 6", f.MeanTime)
	}
	assert.Equal(t, []float64{1, 1, 6, 0}, f.Vector())
}
