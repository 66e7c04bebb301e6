// Package console plays a session over plain text streams.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/coach"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/session"
)

// Options wires a console run. Zero-valued prompt fields are asked for
// interactively.
type Options struct {
	User   string
	Tier   *difficulty.Tier
	Rounds int

	ExportDir string
	Strategy  string

	// Generator defaults to a randomly seeded puzzle.Generator.
	Generator session.Generator

	// NewController builds the controller for the chosen tier. It defaults
	// to the rule-based controller.
	NewController func(difficulty.Tier) *difficulty.Controller

	Recorder session.Recorder
	Coach    *coach.Service
	Logger   *zap.Logger
	Clock    func() time.Time
}

// ErrNoInput is returned when input ends before setup is complete.
var ErrNoInput = errors.New("input closed before the session started")

type runner struct {
	in   *bufio.Scanner
	out  io.Writer
	opts Options
}

// Run prompts for any missing settings, plays the session and prints the
// summary. Input ending mid-session finishes early with the rounds played.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*session.Result, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Generator == nil {
		opts.Generator = puzzle.NewRandomGenerator()
	}
	if opts.NewController == nil {
		opts.NewController = func(t difficulty.Tier) *difficulty.Controller {
			return difficulty.NewController(t, difficulty.WithLogger(opts.Logger))
		}
	}
	r := &runner{in: bufio.NewScanner(in), out: out, opts: opts}

	fmt.Fprintln(out, "Adaptive Math Practice")
	cfg, err := r.setup()
	if err != nil {
		return nil, err
	}

	s, err := session.New(cfg, opts.Generator, opts.NewController(cfg.InitialTier),
		session.WithRecorder(opts.Recorder),
		session.WithLogger(opts.Logger),
		session.WithClock(opts.Clock),
	)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "\nHi %s! Starting at %s difficulty. %d puzzles.\n\n", cfg.User, cfg.InitialTier, cfg.Rounds)
	if err := r.play(ctx, s); err != nil {
		return nil, err
	}

	res, err := s.Finish(ctx)
	fmt.Fprintln(out, "\n=== Session Finished ===")
	WriteSummary(out, res)
	if err != nil {
		fmt.Fprintf(out, "\nCould not save CSV: %v\n", err)
	} else {
		fmt.Fprintf(out, "\nAttempts saved to %s\n", res.ExportPath)
	}

	if opts.Coach != nil && !res.Summary.Empty() {
		note, cerr := opts.Coach.Advise(ctx, cfg.User, res.Summary)
		if cerr != nil {
			opts.Logger.Warn("coach note unavailable", zap.Error(cerr))
		} else {
			WriteNote(out, note)
		}
	}
	return res, nil
}

func (r *runner) setup() (session.Config, error) {
	cfg := session.Config{
		User:      r.opts.User,
		Rounds:    r.opts.Rounds,
		ExportDir: r.opts.ExportDir,
		Strategy:  r.opts.Strategy,
	}

	if cfg.User == "" {
		name, _ := r.ask("Enter learner name: ")
		cfg.User = name
	}

	if r.opts.Tier != nil {
		cfg.InitialTier = *r.opts.Tier
	} else {
		t, err := r.chooseTier()
		if err != nil {
			return cfg, err
		}
		cfg.InitialTier = t
	}

	if cfg.Rounds <= 0 {
		answer, _ := r.ask(fmt.Sprintf("How many puzzles this session? (default %d): ", session.DefaultRounds))
		cfg.Rounds = parseRounds(answer)
	}
	return cfg, nil
}

func (r *runner) chooseTier() (difficulty.Tier, error) {
	for {
		fmt.Fprintln(r.out, "Choose initial difficulty:")
		for i, t := range difficulty.Tiers {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, t)
		}
		choice, ok := r.ask("Enter 1/2/3: ")
		if !ok {
			return difficulty.Easy, ErrNoInput
		}
		if t, err := difficulty.ParseTier(choice); err == nil {
			return t, nil
		}
		fmt.Fprintln(r.out, "Invalid choice, try again.")
		fmt.Fprintln(r.out)
	}
}

// parseRounds falls back to the default for anything but a positive
// integer.
func parseRounds(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return session.DefaultRounds
	}
	return min(n, session.MaxRounds)
}

func (r *runner) play(ctx context.Context, s *session.Session) error {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := s.Next(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Puzzle %d of %d  Difficulty: %s\n", s.Round()+1, s.Rounds(), p.Tier)
		fmt.Fprintf(r.out, "   %s\n", p.Prompt)

		start := r.opts.Clock()
		answer, ok := r.ask("Your answer: ")
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		out, err := s.Submit(ctx, answer, r.opts.Clock().Sub(start))
		if err != nil {
			return err
		}

		if out.Correct {
			fmt.Fprintf(r.out, "Correct! (took %.2fs)\n", out.TimeTaken)
		} else {
			fmt.Fprintf(r.out, "Incorrect. Correct answer: %s (took %.2fs)\n", puzzle.FormatAnswer(p.Answer), out.TimeTaken)
		}
		if out.NextTier != out.Tier {
			fmt.Fprintf(r.out, "Next difficulty: %s\n", out.NextTier)
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

// ask prints prompt and reads one line. It reports false at end of input.
func (r *runner) ask(prompt string) (string, bool) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

// WriteSummary prints the aggregate summary of a finished session.
func WriteSummary(w io.Writer, res *session.Result) {
	sum := res.Summary
	if sum.Empty() {
		fmt.Fprintln(w, "No attempts recorded.")
		fmt.Fprintf(w, "Recommended next level: %s\n", sum.Recommended)
		return
	}

	fmt.Fprintf(w, "Total attempts: %d\n", sum.Total)
	fmt.Fprintf(w, "Correct: %d | Accuracy: %.1f%%\n", sum.Correct, sum.Accuracy)
	fmt.Fprintf(w, "Average response time: %.2f s\n", sum.MeanTime)

	fmt.Fprintln(w, "\nPerformance by difficulty:")
	fmt.Fprintf(w, "  %-8s %8s %9s %9s\n", "Tier", "Attempts", "Accuracy", "Avg time")
	for _, ts := range sum.ByTier {
		fmt.Fprintf(w, "  %-8s %8d %8.1f%% %8.2fs\n", ts.Tier, ts.Attempts, ts.Accuracy, ts.MeanTime)
	}

	fmt.Fprintf(w, "\nRecent trend (last %d): Accuracy %.1f%%, Avg time %.2fs\n",
		sum.Trend.Count, sum.Trend.Accuracy, sum.Trend.MeanTime)

	tail := attempt.Tail(res.Records, attempt.TailSize)
	fmt.Fprintf(w, "\nLast %d attempts:\n", len(tail))
	for _, rec := range tail {
		mark := "x"
		if rec.Correct {
			mark = "ok"
		}
		fmt.Fprintf(w, "  %-6s %-18s %-2s %6.2fs\n", rec.Tier, rec.Prompt, mark, rec.TimeTaken)
	}

	fmt.Fprintf(w, "\nRecommended next level: %s\n", sum.Recommended)
}

// WriteNote prints a coaching note.
func WriteNote(w io.Writer, note *coach.Note) {
	if note == nil {
		return
	}
	fmt.Fprintf(w, "\nCoach: %s\n", note.Headline)
	for _, tip := range note.Tips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
}
