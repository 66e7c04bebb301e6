// Package coach asks an LLM for a short note on a finished session.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/llm"
)

// Purpose tags coach requests in the LLM event log.
const Purpose = "coach"

// Note is the coach's feedback.
type Note struct {
	Headline string   `json:"headline"`
	Tips     []string `json:"tips"`
}

// Config tunes the coach requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.4}
}

// Service produces notes through an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a coach. A zero MaxTokens uses the default.
func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Service{provider: provider, cfg: cfg}
}

// Advise returns a note for user's session. Empty sessions get no note.
func (s *Service) Advise(ctx context.Context, user string, sum attempt.Summary) (*Note, error) {
	if s == nil || s.provider == nil {
		return nil, llm.ErrNotConfigured
	}
	if sum.Empty() {
		return nil, errors.New("no attempts to coach on")
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, Purpose), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMessage(user, sum)),
		Schema:      NoteSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("coach note: %w", err)
	}

	var note Note
	if err := json.Unmarshal(resp.Content, &note); err != nil {
		return nil, fmt.Errorf("parse coach note: %w", err)
	}
	note.Headline = strings.TrimSpace(note.Headline)
	if len(note.Tips) > MaxTips {
		note.Tips = note.Tips[:MaxTips]
	}
	return &note, nil
}
