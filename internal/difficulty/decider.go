package difficulty

// Decider chooses a target tier from window features.
type Decider interface {
	Decide(f Features) Tier
}

// Learner is a Decider that also learns from labelled observations.
type Learner interface {
	Decider
	Observe(f Features, label Tier)
}

// RuleDecider decides with Rule.
type RuleDecider struct{}

// Decide implements Decider.
func (RuleDecider) Decide(f Features) Tier {
	return f.RuleLabel()
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(Features) Tier

// Decide implements Decider.
func (fn DeciderFunc) Decide(f Features) Tier { return fn(f) }
