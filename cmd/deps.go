package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/coach"
	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/store"
)

// openStore opens the history database at cfg.DBPath, or at the default
// XDG location when unset.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// controllerFactory returns the function that builds a controller for each
// session. The tree strategy shares one learner across sessions so that
// observations accumulate.
func controllerFactory(cfg config.Config, logger *zap.Logger) (func(difficulty.Tier) *difficulty.Controller, error) {
	opts := []difficulty.Option{
		difficulty.WithWindowSize(cfg.Window),
		difficulty.WithLogger(logger),
	}
	if cfg.Strategy == config.StrategyTree {
		learner, err := newLearner(cfg, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, difficulty.WithDecider(learner))
	}
	return func(t difficulty.Tier) *difficulty.Controller {
		return difficulty.NewController(t, opts...)
	}, nil
}

func newLearner(cfg config.Config, logger *zap.Logger) (*difficulty.TreeLearner, error) {
	learner, err := difficulty.NewLearner(difficulty.LearnerConfig{
		ModelPath:    cfg.ModelPath,
		Window:       cfg.Window,
		RetrainAfter: cfg.RetrainAfter,
		Seed:         cfg.Seed,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("difficulty model: %w", err)
	}
	return learner, nil
}

// newCoach returns a coach backed by the configured LLM provider, or nil
// when coaching is off or no provider is set up.
func newCoach(ctx context.Context, cfg config.Config, recorder llm.Recorder, logger *zap.Logger) *coach.Service {
	if !cfg.Coach {
		return nil
	}
	llmCfg, ok := llm.ResolveConfig()
	if !ok {
		logger.Info("no LLM provider configured, coach disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, recorder, logger)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			logger.Warn("LLM provider unavailable, coach disabled", zap.Error(err))
		}
		return nil
	}
	return coach.NewService(provider, coach.DefaultConfig())
}
