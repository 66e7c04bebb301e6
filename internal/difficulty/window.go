package difficulty

// DefaultWindowSize is the number of recent outcomes the controller keeps.
const DefaultWindowSize = 3

// Outcome is a single scored answer.
type Outcome struct {
	Correct      bool
	ResponseTime float64
}

// Window is a fixed capacity FIFO of recent outcomes.
type Window struct {
	outcomes []Outcome
	size     int
}

// NewWindow creates a window holding at most size outcomes.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size, outcomes: make([]Outcome, 0, size)}
}

// Push appends o, evicting the oldest entry past capacity.
func (w *Window) Push(o Outcome) {
	w.outcomes = append(w.outcomes, o)
	if len(w.outcomes) > w.size {
		w.outcomes = w.outcomes[len(w.outcomes)-w.size:]
	}
}

// Len returns the number of outcomes held.
func (w *Window) Len() int { return len(w.outcomes) }

// Size returns the window capacity.
func (w *Window) Size() int { return w.size }

// Outcomes returns a copy of the held outcomes, oldest first.
func (w *Window) Outcomes() []Outcome {
	out := make([]Outcome, len(w.outcomes))
	copy(out, w.outcomes)
	return out
}

// Features computes the feature vector for the window at tier t.
func (w *Window) Features(t Tier) Features {
	if len(w.outcomes) == 0 {
		return DefaultFeatures(t)
	}
	correct := 0
	sum := 0.0
	for _, o := range w.outcomes {
		if o.Correct {
			correct++
		}
		sum += o.ResponseTime
	}
	return Features{
		Tier:        t,
		Correct:     correct,
		MeanTime:    sum / float64(len(w.outcomes)),
		LastCorrect: w.outcomes[len(w.outcomes)-1].Correct,
	}
}
