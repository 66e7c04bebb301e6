// Package session drives one quiz: it asks the generator for a puzzle at
// the controller's tier, scores the answer, logs it and lets the
// controller pick the next tier.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/store"
)

var (
	// ErrNoPuzzle is returned by Submit when Next has not been called.
	ErrNoPuzzle = errors.New("no puzzle pending")

	// ErrFinished is returned once every round has been played or the
	// session has been finished early.
	ErrFinished = errors.New("session finished")
)

// Generator produces a puzzle for a tier. *puzzle.Generator satisfies it.
type Generator interface {
	Generate(t difficulty.Tier) (*puzzle.Puzzle, error)
}

// Recorder persists session and attempt events. store.EventRepo
// satisfies it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAttemptEvent(ctx context.Context, data store.AttemptEventData) error
}

// Outcome is the result of one submitted answer.
type Outcome struct {
	Round     int
	Puzzle    *puzzle.Puzzle
	Response  string
	Correct   bool
	TimeTaken float64
	Tier      difficulty.Tier
	NextTier  difficulty.Tier
}

// Result is what a finished session produced.
type Result struct {
	SessionID  string
	User       string
	Records    []attempt.Record
	Summary    attempt.Summary
	ExportPath string
	FinalTier  difficulty.Tier
	Duration   time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithRecorder stores events as the session progresses.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is a single-goroutine quiz run.
type Session struct {
	id       string
	cfg      Config
	gen      Generator
	ctrl     *difficulty.Controller
	log      *attempt.Log
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time

	pending *puzzle.Puzzle
	round   int
	started time.Time
	result  *Result
}

// New creates a session. The controller's current tier is the starting
// tier; cfg.InitialTier is only used when ctrl is nil.
func New(cfg Config, gen Generator, ctrl *difficulty.Controller, opts ...Option) (*Session, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, errors.New("session requires a puzzle generator")
	}
	if ctrl == nil {
		ctrl = difficulty.NewController(cfg.InitialTier)
	}
	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		gen:    gen,
		ctrl:   ctrl,
		log:    attempt.NewLog(cfg.User),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id), zap.String("user", cfg.User))
	return s, nil
}

// ID returns the session UUID.
func (s *Session) ID() string { return s.id }

// User returns the learner name.
func (s *Session) User() string { return s.cfg.User }

// Round returns the number of answered puzzles.
func (s *Session) Round() int { return s.round }

// Rounds returns the planned number of rounds.
func (s *Session) Rounds() int { return s.cfg.Rounds }

// Done reports whether every round has been answered or Finish was called.
func (s *Session) Done() bool { return s.result != nil || s.round >= s.cfg.Rounds }

// Tier returns the tier the next puzzle will use.
func (s *Session) Tier() difficulty.Tier { return s.ctrl.Tier() }

// Log returns the session's attempt log.
func (s *Session) Log() *attempt.Log { return s.log }

// Next returns the pending puzzle, generating one at the current tier if
// none is pending. The first call records the session start.
func (s *Session) Next(ctx context.Context) (*puzzle.Puzzle, error) {
	if s.Done() {
		return nil, ErrFinished
	}
	if s.pending != nil {
		return s.pending, nil
	}
	if s.started.IsZero() {
		s.started = s.now()
		s.record(ctx, "start session", func(r Recorder) error {
			return r.AppendSessionEvent(ctx, store.SessionEventData{
				SessionID:   s.id,
				Action:      store.ActionStart,
				User:        s.cfg.User,
				Strategy:    s.cfg.Strategy,
				InitialTier: s.ctrl.Tier().String(),
			})
		})
	}

	p, err := s.gen.Generate(s.ctrl.Tier())
	if err != nil {
		return nil, fmt.Errorf("generate puzzle: %w", err)
	}
	if err := puzzle.Verify(p); err != nil {
		return nil, fmt.Errorf("generated puzzle: %w", err)
	}
	s.pending = p
	return p, nil
}

// Submit scores answer against the pending puzzle. elapsed is the time the
// learner took; negative values count as zero.
func (s *Session) Submit(ctx context.Context, answer string, elapsed time.Duration) (Outcome, error) {
	if s.Done() {
		return Outcome{}, ErrFinished
	}
	p := s.pending
	if p == nil {
		return Outcome{}, ErrNoPuzzle
	}

	secs := max(elapsed.Seconds(), 0)
	correct := puzzle.CheckAnswer(answer, p)
	s.log.Append(attempt.Record{
		Timestamp: s.now(),
		User:      s.cfg.User,
		Tier:      p.Tier,
		Prompt:    p.Prompt,
		Answer:    p.Answer,
		Correct:   correct,
		TimeTaken: secs,
	})
	next := s.ctrl.Update(correct, secs)

	s.pending = nil
	s.round++

	out := Outcome{
		Round:     s.round,
		Puzzle:    p,
		Response:  answer,
		Correct:   correct,
		TimeTaken: secs,
		Tier:      p.Tier,
		NextTier:  next,
	}
	s.logger.Debug("answer submitted",
		zap.Int("round", out.Round),
		zap.Stringer("tier", out.Tier),
		zap.Bool("correct", correct),
		zap.Float64("time_taken", secs),
		zap.Stringer("next_tier", next),
	)
	s.record(ctx, "attempt", func(r Recorder) error {
		return r.AppendAttemptEvent(ctx, store.AttemptEventData{
			SessionID: s.id,
			User:      s.cfg.User,
			Tier:      p.Tier.String(),
			Prompt:    p.Prompt,
			Answer:    p.Answer,
			Response:  answer,
			Correct:   correct,
			TimeTaken: secs,
			NextTier:  next.String(),
		})
	})
	return out, nil
}

// Finish summarizes the session, exports the CSV and records the end
// event. The result is always returned; a failed export is reported as the
// error alongside it. Repeated calls return the first result.
func (s *Session) Finish(ctx context.Context) (*Result, error) {
	if s.result != nil {
		return s.result, nil
	}

	end := s.now()
	if s.started.IsZero() {
		s.started = end
	}
	res := &Result{
		SessionID: s.id,
		User:      s.cfg.User,
		Records:   s.log.Snapshot(),
		Summary:   s.log.Summary(),
		FinalTier: s.ctrl.Tier(),
		Duration:  end.Sub(s.started),
	}

	path, exportErr := s.log.Export(s.cfg.ExportDir, end)
	if exportErr != nil {
		s.logger.Warn("export attempts", zap.Error(exportErr))
		exportErr = fmt.Errorf("export attempts: %w", exportErr)
	} else {
		res.ExportPath = path
	}

	s.record(ctx, "end session", func(r Recorder) error {
		return r.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:       s.id,
			Action:          store.ActionEnd,
			User:            s.cfg.User,
			Strategy:        s.cfg.Strategy,
			FinalTier:       res.FinalTier.String(),
			RecommendedTier: res.Summary.Recommended.String(),
			Questions:       res.Summary.Total,
			Correct:         res.Summary.Correct,
			DurationSecs:    int(res.Duration.Seconds()),
			ExportPath:      res.ExportPath,
		})
	})
	s.logger.Info("session finished",
		zap.Int("questions", res.Summary.Total),
		zap.Int("correct", res.Summary.Correct),
		zap.Stringer("recommended", res.Summary.Recommended),
		zap.String("export", res.ExportPath),
	)

	s.result = res
	return res, exportErr
}

// record runs fn against the recorder if one is set. Failures are logged
// and never interrupt the session.
func (s *Session) record(ctx context.Context, what string, fn func(Recorder) error) {
	if s.recorder == nil || ctx.Err() != nil {
		return
	}
	if err := fn(s.recorder); err != nil {
		s.logger.Warn("record "+what, zap.Error(err))
	}
}
