package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/adaptiq/internal/store"
)

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{TotalTokens: 3}})
	m.Push(MockResponse{Err: errors.New("boom")})

	resp, err := m.Generate(context.Background(), Request{System: "one"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Usage.TotalTokens)
	assert.Equal(t, "mock", resp.Model)

	_, err = m.Generate(context.Background(), Request{System: "two"})
	assert.EqualError(t, err, "boom")

	_, err = m.Generate(context.Background(), Request{})
	var un *ErrProviderUnavailable
	assert.ErrorAs(t, err, &un)

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "two", calls[1].System)
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"nope":true}`)})
	_, err := m.Generate(context.Background(), Request{Schema: noteSchema})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "coach", PurposeFrom(WithPurpose(context.Background(), "coach")))
}

type memRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *memRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_Records(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"headline":"ok"}`), Usage: Usage{InputTokens: 7, OutputTokens: 2}},
		MockResponse{Err: errors.New("offline")},
	)
	p := WithLogging(mock, ProviderMock, rec, zap.NewNop())
	ctx := WithPurpose(context.Background(), "coach")

	_, err := p.Generate(ctx, Request{System: "sys", Messages: UserMessage("hello"), Schema: noteSchema})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Messages: UserMessage("again")})
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	first := rec.events[0]
	assert.True(t, first.Success)
	assert.Equal(t, "coach", first.Purpose)
	assert.Equal(t, 7, first.InputTokens)
	assert.Contains(t, first.RequestBody, "[user]\nhello")
	assert.Contains(t, first.RequestBody, "[schema: test-note]")
	assert.Equal(t, `{"headline":"ok"}`, first.ResponseBody)

	second := rec.events[1]
	assert.False(t, second.Success)
	assert.Equal(t, "offline", second.ErrorMessage)
}

func TestLoggingProvider_RecorderFailureIgnored(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, true},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, false},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, true},
		{"mock", Config{Provider: ProviderMock}, true},
		{"unknown", Config{Provider: "carrier-pigeon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDiscoverConfig_Priority(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)

	t.Setenv("OPENAI_API_KEY", "o")
	cfg, _ = DiscoverConfig()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, _ = DiscoverConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g", cfg.Gemini.APIKey)
}

func TestResolveConfig_ExplicitProvider(t *testing.T) {
	t.Setenv("ADAPTIQ_LLM_PROVIDER", ProviderOpenAI)
	t.Setenv("ADAPTIQ_OPENAI_API_KEY", "key")
	t.Setenv("ADAPTIQ_OPENAI_MODEL", "gpt-4o")

	cfg, ok := ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.NoError(t, cfg.Validate())
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: ProviderGemini}, nil, nil)
	assert.Error(t, err)
}
