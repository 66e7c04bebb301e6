package difficulty

import (
	"math"
	"math/rand/v2"
)

// baseTimes is the typical mean response time, in seconds, per tier used
// when simulating learners.
var baseTimes = [3]float64{6, 10, 16}

// Sample is one labelled training example.
type Sample struct {
	Features Features
	Label    Tier
}

// Synthesize simulates n windows of answers and labels each with Rule.
// The output is deterministic for a given seed.
func Synthesize(n, window int, seed uint64) []Sample {
	if window <= 0 {
		window = DefaultWindowSize
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	samples := make([]Sample, 0, n)
	for range n {
		t := Tier(r.IntN(len(Tiers)))
		pCorrect := 0.6 + 0.1*float64(t-1)

		correct := 0
		last := false
		for range window {
			last = r.Float64() < pCorrect
			if last {
				correct++
			}
		}

		base := baseTimes[t]
		mean := math.Max(1.0, base+r.NormFloat64()*0.3*base)

		f := Features{Tier: t, Correct: correct, MeanTime: mean, LastCorrect: last}
		samples = append(samples, Sample{Features: f, Label: f.RuleLabel()})
	}
	return samples
}

// Matrix splits samples into the feature matrix and label vector a
// classifier trains on.
func Matrix(samples []Sample) ([][]float64, []int) {
	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		x[i] = s.Features.Vector()
		y[i] = int(s.Label)
	}
	return x, y
}
