// Package app is the root Bubble Tea model of the quiz TUI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/coach"
	"github.com/abhisek/adaptiq/internal/config"
	"github.com/abhisek/adaptiq/internal/difficulty"
	"github.com/abhisek/adaptiq/internal/puzzle"
	"github.com/abhisek/adaptiq/internal/router"
	"github.com/abhisek/adaptiq/internal/screen"
	"github.com/abhisek/adaptiq/internal/screens/history"
	"github.com/abhisek/adaptiq/internal/screens/home"
	"github.com/abhisek/adaptiq/internal/screens/quiz"
	"github.com/abhisek/adaptiq/internal/screens/setup"
	"github.com/abhisek/adaptiq/internal/screens/summary"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
	"github.com/abhisek/adaptiq/internal/ui/layout"
)

// coachTimeout bounds the wait for a coach note on the summary screen.
const coachTimeout = 30 * time.Second

// Options wires the TUI.
type Options struct {
	Config config.Config

	// Repo stores events and backs the history screen. Optional.
	Repo store.EventRepo

	// Coach adds a note to the summary. Optional.
	Coach *coach.Service

	// Generator defaults to a randomly seeded puzzle.Generator.
	Generator session.Generator

	// NewController builds the controller for a session starting at a
	// tier. It defaults to the rule-based controller.
	NewController func(difficulty.Tier) *difficulty.Controller

	Logger *zap.Logger
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Generator == nil {
		o.Generator = puzzle.NewRandomGenerator()
	}
	if o.NewController == nil {
		logger := o.Logger
		o.NewController = func(t difficulty.Tier) *difficulty.Controller {
			return difficulty.NewController(t, difficulty.WithLogger(logger))
		}
	}
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// NewAppModel creates the model with the home screen at the root.
func NewAppModel(opts Options) AppModel {
	opts.defaults()
	m := AppModel{opts: opts}
	homeOpts := home.Options{
		User:        opts.Config.User,
		Start:       m.openSetup,
		Recommended: m.recommended,
	}
	if opts.Repo != nil {
		homeOpts.History = func() tea.Cmd {
			return router.Push(history.New(opts.Repo, ""))
		}
	}
	m.router = router.New(home.New(homeOpts))
	return m
}

// recommended returns the tier suggested after the configured learner's
// last stored session.
func (m AppModel) recommended() (difficulty.Tier, bool) {
	if m.opts.Repo == nil {
		return 0, false
	}
	last, err := m.opts.Repo.LatestSession(context.Background(), m.opts.Config.User)
	if err != nil {
		m.opts.Logger.Warn("load latest session", zap.Error(err))
		return 0, false
	}
	if last == nil {
		return 0, false
	}
	t, err := difficulty.ParseTier(last.RecommendedTier)
	if err != nil {
		return 0, false
	}
	return t, true
}

func (m AppModel) openSetup() tea.Cmd {
	cfg := m.opts.Config
	tier := cfg.InitialTier
	if t, ok := m.recommended(); ok {
		tier = t
	}
	// The form has its own default unless the config file chose one.
	rounds := setup.DefaultRounds
	if cfg.Rounds != config.DefaultRounds {
		rounds = min(max(cfg.Rounds, setup.MinRounds), setup.MaxRounds)
	}
	d := setup.Defaults{User: cfg.User, Tier: tier, Rounds: rounds}
	return router.Push(setup.New(d, m.startSession, m.playSession))
}

func (m AppModel) startSession(sc session.Config) (*session.Session, error) {
	sc.ExportDir = m.opts.Config.ExportDir
	sc.Strategy = string(m.opts.Config.Strategy)
	return session.New(sc, m.opts.Generator, m.opts.NewController(sc.InitialTier),
		session.WithRecorder(m.opts.Repo),
		session.WithLogger(m.opts.Logger),
	)
}

func (m AppModel) playSession(s *session.Session) screen.Screen {
	return quiz.New(s, func(res *session.Result, err error) screen.Screen {
		return summary.New(res, err, m.advise())
	})
}

func (m AppModel) advise() summary.AdviseFunc {
	if m.opts.Coach == nil {
		return nil
	}
	svc, logger := m.opts.Coach, m.opts.Logger
	return func(ctx context.Context, res *session.Result) (*coach.Note, error) {
		ctx, cancel := context.WithTimeout(ctx, coachTimeout)
		defer cancel()
		note, err := svc.Advise(ctx, res.User, res.Summary)
		if err != nil {
			logger.Warn("coach note", zap.Error(err))
		}
		return note, err
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
