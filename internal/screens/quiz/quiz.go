// Package quiz is the screen that plays a session one puzzle at a time.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/ui/components"
	"github.com/abhisek/adaptiq/internal/ui/layout"
)

// FinishFunc builds the screen shown after the session ends.
type FinishFunc func(res *session.Result, err error) screen.Screen

type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	phaseFeedback
	phaseConfirmQuit
)

// puzzleMsg carries the next puzzle.
type puzzleMsg struct {
	Puzzle *puzzle.Puzzle
	Err    error
}

// QuizScreen plays a session.
type QuizScreen struct {
	sess   *session.Session
	finish FinishFunc
	now    func() time.Time

	phase   phase
	resume  phase
	current *puzzle.Puzzle
	shownAt time.Time
	last    session.Outcome
	input   components.TextInput
	errMsg  string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.EscHandler      = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
)

// New creates a quiz screen for s. finish is called once the last round
// is answered or the learner quits.
func New(s *session.Session, finish FinishFunc) *QuizScreen {
	return &QuizScreen{
		sess:   s,
		finish: finish,
		now:    time.Now,
		input:  newAnswerInput(),
	}
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("Type your answer...", components.ModeNumber, 12)
}

func (q *QuizScreen) Init() tea.Cmd {
	return tea.Batch(q.loadPuzzle(), q.input.Init())
}

func (q *QuizScreen) HandlesEsc() bool { return true }

func (q *QuizScreen) Title() string { return "Quiz" }

// Status shows the learner and current tier in the header.
func (q *QuizScreen) Status() string {
	return fmt.Sprintf("%s  %s", q.sess.User(), q.sess.Tier())
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.phase {
	case phaseConfirmQuit:
		return []layout.KeyHint{{Key: "Y", Description: "End session"}, {Key: "N", Description: "Keep going"}}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Quit"}}
	}
}

// loadPuzzle asks the session for the next puzzle on the update goroutine.
// The returned command only delivers the result, so the session is never
// touched from another goroutine.
func (q *QuizScreen) loadPuzzle() tea.Cmd {
	p, err := q.sess.Next(context.Background())
	msg := puzzleMsg{Puzzle: p, Err: err}
	return func() tea.Msg { return msg }
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case puzzleMsg:
		return q.handlePuzzle(msg)
	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	if q.phase == phaseAsking {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handlePuzzle(msg puzzleMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, session.ErrFinished) {
		return q, q.end()
	}
	if msg.Err != nil {
		q.errMsg = msg.Err.Error()
		return q, nil
	}
	q.current = msg.Puzzle
	q.shownAt = q.now()
	q.input = newAnswerInput()
	if q.phase == phaseConfirmQuit {
		q.resume = phaseAsking
		return q, q.input.Init()
	}
	q.phase = phaseAsking
	return q, q.input.Init()
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if q.errMsg != "" {
		return q, router.Home
	}

	switch q.phase {
	case phaseConfirmQuit:
		switch key {
		case "y", "Y":
			return q, q.end()
		case "n", "N", "esc":
			q.phase = q.resume
		}
		return q, nil

	case phaseFeedback:
		if q.sess.Done() {
			return q, q.end()
		}
		q.phase = phaseLoading
		return q, q.loadPuzzle()

	case phaseAsking:
		switch key {
		case "esc":
			q.resume, q.phase = q.phase, phaseConfirmQuit
			return q, nil
		case "enter":
			return q.submit()
		}
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}

	if key == "esc" {
		q.resume, q.phase = q.phase, phaseConfirmQuit
	}
	return q, nil
}

func (q *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	answer := q.input.Value()
	if answer == "" {
		return q, nil
	}
	out, err := q.sess.Submit(context.Background(), answer, q.now().Sub(q.shownAt))
	if err != nil {
		q.errMsg = err.Error()
		return q, nil
	}
	q.last = out
	q.phase = phaseFeedback
	return q, nil
}

// end finishes the session and swaps in the result screen.
func (q *QuizScreen) end() tea.Cmd {
	res, err := q.sess.Finish(context.Background())
	if q.finish == nil {
		return router.Home
	}
	return router.Replace(q.finish(res, err))
}
