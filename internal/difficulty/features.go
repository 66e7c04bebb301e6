package difficulty

// Default feature values used when no outcome has been observed yet.
const (
	DefaultCorrect     = 1
	DefaultMeanTime    = 10.0
	DefaultLastCorrect = true
)

// Features summarizes the recent window at a tier. It is the input to a
// Decider.
type Features struct {
	Tier        Tier
	Correct     int
	MeanTime    float64
	LastCorrect bool
}

// DefaultFeatures returns the features used for an empty window.
func DefaultFeatures(t Tier) Features {
	return Features{
		Tier:        t,
		Correct:     DefaultCorrect,
		MeanTime:    DefaultMeanTime,
		LastCorrect: DefaultLastCorrect,
	}
}

// Vector flattens f into the numeric layout a classifier consumes:
// tier index, correct count, mean time, last correct (0 or 1).
func (f Features) Vector() []float64 {
	last := 0.0
	if f.LastCorrect {
		last = 1
	}
	return []float64{float64(f.Tier), float64(f.Correct), f.MeanTime, last}
}

// FeatureNames labels the columns produced by Vector.
var FeatureNames = []string{"tier", "correct", "mean_time", "last_correct"}

// RuleLabel is the tier the decision rule assigns to f.
func (f Features) RuleLabel() Tier {
	return Rule(f.Tier, f.Correct, f.MeanTime)
}
