package difficulty

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/classifier"
)

// Learner defaults.
const (
	DefaultRetrainAfter   = 30
	DefaultInitialSamples = 2500
	DefaultRetrainSamples = 2000
	DefaultSeed           = 42
	ValidationFraction    = 0.2
)

// Trainer fits a tree to labelled samples.
type Trainer interface {
	Train(samples []Sample) (*classifier.Tree, error)
}

// TreeTrainer fits a CART tree of bounded depth.
type TreeTrainer struct {
	MaxDepth int
}

// Train implements Trainer.
func (t TreeTrainer) Train(samples []Sample) (*classifier.Tree, error) {
	x, y := Matrix(samples)
	return classifier.Fit(x, y, classifier.Config{MaxDepth: t.MaxDepth})
}

// LearnerConfig configures a TreeLearner.
type LearnerConfig struct {
	// ModelPath is where the fitted tree is loaded from and saved to.
	// Empty disables persistence.
	ModelPath      string
	Window         int
	RetrainAfter   int
	Seed           uint64
	InitialSamples int
	RetrainSamples int
	Trainer        Trainer
	Logger         *zap.Logger
	Now            func() time.Time
}

func (c *LearnerConfig) defaults() {
	if c.Window <= 0 {
		c.Window = DefaultWindowSize
	}
	if c.RetrainAfter <= 0 {
		c.RetrainAfter = DefaultRetrainAfter
	}
	if c.InitialSamples <= 0 {
		c.InitialSamples = DefaultInitialSamples
	}
	if c.RetrainSamples <= 0 {
		c.RetrainSamples = DefaultRetrainSamples
	}
	if c.Trainer == nil {
		c.Trainer = TreeTrainer{MaxDepth: classifier.DefaultMaxDepth}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// TreeLearner decides with a decision tree fitted to rule-labelled data
// and periodically refits with observed examples.
type TreeLearner struct {
	cfg      LearnerConfig
	tree     *classifier.Tree
	buffer   []Sample
	accuracy float64
	retrains int
	failures int
}

// NewLearner loads the model at cfg.ModelPath or trains and saves a new one
// when none is usable.
func NewLearner(cfg LearnerConfig) (*TreeLearner, error) {
	cfg.defaults()
	l := &TreeLearner{cfg: cfg}

	if cfg.ModelPath != "" {
		a, err := classifier.Load(cfg.ModelPath)
		switch {
		case err == nil:
			l.tree = a.Tree
			l.accuracy = a.Accuracy
			cfg.Logger.Info("loaded difficulty model", zap.String("path", cfg.ModelPath))
			return l, nil
		case errors.Is(err, classifier.ErrNoModel):
			cfg.Logger.Info("no difficulty model found, training", zap.String("path", cfg.ModelPath))
		default:
			cfg.Logger.Warn("discarding unusable difficulty model", zap.String("path", cfg.ModelPath), zap.Error(err))
		}
	}

	if err := l.trainInitial(); err != nil {
		return nil, err
	}
	l.save()
	return l, nil
}

func (l *TreeLearner) trainInitial() error {
	samples := Synthesize(l.cfg.InitialSamples, l.cfg.Window, l.cfg.Seed)
	x, y := Matrix(samples)
	train, val := classifier.Split(classifier.Dataset{X: x, Y: y}, ValidationFraction, l.cfg.Seed)

	tree, err := l.cfg.Trainer.Train(toSamples(train))
	if err != nil {
		return fmt.Errorf("train initial model: %w", err)
	}
	l.tree = tree
	l.accuracy = classifier.Accuracy(tree, val.X, val.Y)
	l.cfg.Logger.Info("trained difficulty model",
		zap.Int("samples", train.Len()),
		zap.Int("validation", val.Len()),
		zap.Float64("validation_accuracy", l.accuracy),
		zap.Int("depth", tree.Depth()),
	)
	return nil
}

func (l *TreeLearner) save() {
	if l.cfg.ModelPath == "" {
		return
	}
	err := classifier.Save(l.cfg.ModelPath, &classifier.Artifact{
		CreatedAt: l.cfg.Now().UTC(),
		Accuracy:  l.accuracy,
		Tree:      l.tree,
	})
	if err != nil {
		l.cfg.Logger.Warn("save difficulty model", zap.String("path", l.cfg.ModelPath), zap.Error(err))
	}
}

// Decide implements Decider. It falls back to Rule when the tree cannot
// answer or answers with an unknown tier.
func (l *TreeLearner) Decide(f Features) Tier {
	c, err := l.tree.Predict(f.Vector())
	if err != nil {
		l.cfg.Logger.Warn("tree prediction failed, using rule", zap.Error(err))
		return f.RuleLabel()
	}
	t := Tier(c)
	if !t.Valid() {
		return f.RuleLabel()
	}
	return t
}

// Observe buffers one labelled example and refits once enough have
// accumulated. The buffer is cleared whether or not the refit succeeds.
func (l *TreeLearner) Observe(f Features, label Tier) {
	l.buffer = append(l.buffer, Sample{Features: f, Label: label})
	if len(l.buffer) < l.cfg.RetrainAfter {
		return
	}

	samples := Synthesize(l.cfg.RetrainSamples, l.cfg.Window, l.cfg.Seed+1)
	samples = append(samples, l.buffer...)
	observed := len(l.buffer)
	l.buffer = nil

	tree, err := l.cfg.Trainer.Train(samples)
	if err != nil {
		l.failures++
		l.cfg.Logger.Warn("retrain failed, keeping previous model", zap.Int("observed", observed), zap.Error(err))
		return
	}
	l.tree = tree
	l.retrains++
	l.cfg.Logger.Info("retrained difficulty model", zap.Int("observed", observed), zap.Int("samples", len(samples)))
	l.save()
}

// Tree returns the current tree.
func (l *TreeLearner) Tree() *classifier.Tree { return l.tree }

// ValidationAccuracy is the held-out accuracy of the initial fit, or the
// stored accuracy of a loaded model.
func (l *TreeLearner) ValidationAccuracy() float64 { return l.accuracy }

// Buffered returns the number of observed examples awaiting a refit.
func (l *TreeLearner) Buffered() int { return len(l.buffer) }

// Retrains returns the number of successful refits.
func (l *TreeLearner) Retrains() int { return l.retrains }

// Failures returns the number of failed refits.
func (l *TreeLearner) Failures() int { return l.failures }

func toSamples(d classifier.Dataset) []Sample {
	out := make([]Sample, d.Len())
	for i, row := range d.X {
		out[i] = Sample{
			Features: Features{
				Tier:        Tier(row[0]),
				Correct:     int(row[1]),
				MeanTime:    row[2],
				LastCorrect: row[3] != 0,
			},
			Label: Tier(d.Y[i]),
		}
	}
	return out
}
