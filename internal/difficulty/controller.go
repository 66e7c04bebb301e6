package difficulty

import (
	"math"

	"go.uber.org/zap"
)

// Controller tracks the current tier of one learner and adjusts it after
// every answer.
type Controller struct {
	tier    Tier
	window  *Window
	decider Decider
	logger  *zap.Logger
	seed    []Outcome
}

// Option configures a Controller.
type Option func(*Controller)

// WithWindowSize sets the number of recent outcomes considered.
func WithWindowSize(n int) Option {
	return func(c *Controller) { c.window = NewWindow(n) }
}

// WithDecider replaces the default RuleDecider.
func WithDecider(d Decider) Option {
	return func(c *Controller) {
		if d != nil {
			c.decider = d
		}
	}
}

// WithHistory pre-fills the window with outcomes without making decisions.
func WithHistory(outcomes ...Outcome) Option {
	return func(c *Controller) { c.seed = append(c.seed, outcomes...) }
}

// WithLogger sets the logger used for decision traces.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller starting at initial.
// An out of range initial tier is clamped.
func NewController(initial Tier, opts ...Option) *Controller {
	c := &Controller{
		tier:    clampTier(initial),
		window:  NewWindow(DefaultWindowSize),
		decider: RuleDecider{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, o := range c.seed {
		c.window.Push(sanitize(o))
	}
	c.seed = nil
	return c
}

// Tier returns the current tier.
func (c *Controller) Tier() Tier { return c.tier }

// History returns the outcomes currently in the window, oldest first.
func (c *Controller) History() []Outcome { return c.window.Outcomes() }

// Features returns the features of the current window.
func (c *Controller) Features() Features { return c.window.Features(c.tier) }

// Update records one answer, decides and stores the next tier.
func (c *Controller) Update(correct bool, responseTime float64) Tier {
	c.window.Push(sanitize(Outcome{Correct: correct, ResponseTime: responseTime}))
	f := c.window.Features(c.tier)

	if l, ok := c.decider.(Learner); ok {
		l.Observe(f, f.RuleLabel())
	}

	target := c.decide(f)
	next := Step(c.tier, target)

	c.logger.Debug("difficulty update",
		zap.Stringer("tier", c.tier),
		zap.Int("correct", f.Correct),
		zap.Float64("mean_time", f.MeanTime),
		zap.Bool("last_correct", f.LastCorrect),
		zap.Stringer("target", target),
		zap.Stringer("next", next),
	)

	c.tier = next
	return next
}

// PredictNext returns the tier the current window would lead to, without
// changing any state.
func (c *Controller) PredictNext() Tier {
	f := c.window.Features(c.tier)
	return Step(c.tier, c.decide(f))
}

func (c *Controller) decide(f Features) Tier {
	target := c.decider.Decide(f)
	if !target.Valid() {
		c.logger.Warn("decider returned invalid tier, keeping current",
			zap.Int("target", int(target)),
			zap.Stringer("tier", c.tier),
		)
		return c.tier
	}
	return target
}

func sanitize(o Outcome) Outcome {
	if math.IsNaN(o.ResponseTime) || o.ResponseTime < 0 {
		o.ResponseTime = 0
	}
	return o
}
