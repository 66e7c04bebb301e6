package difficulty

// TimeThresholds holds the per-tier mean response time, in seconds, under
// which a learner with enough correct answers is promoted.
var TimeThresholds = [3]float64{8.0, 12.0, 18.0}

const (
	// PromoteMinCorrect is the number of correct answers in the window
	// needed for promotion.
	PromoteMinCorrect = 2

	// DemoteMaxCorrect demotes when correct answers are at or below it.
	DemoteMaxCorrect = 1

	// SlowFactor scales the tier threshold to find the demotion time.
	SlowFactor = 1.5
)

// Rule maps the window statistics at a tier to a target tier.
// The target may be at most one tier away from t.
func Rule(t Tier, correct int, meanTime float64) Tier {
	t = clampTier(t)
	threshold := TimeThresholds[t]

	switch {
	case correct >= PromoteMinCorrect && meanTime <= threshold:
		return clampTier(t + 1)
	case correct <= DemoteMaxCorrect || meanTime > SlowFactor*threshold:
		return clampTier(t - 1)
	default:
		return t
	}
}

// Step moves current one tier toward target, never further.
func Step(current, target Tier) Tier {
	switch {
	case target > current:
		return clampTier(current + 1)
	case target < current:
		return clampTier(current - 1)
	default:
		return current
	}
}
