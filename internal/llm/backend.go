package llm

import (
	"context"
	"errors"
	"net/http"
)

// backend is one vendor SDK. It performs the raw call; validation and
// error classification shared by all vendors live in sdkProvider.
type backend interface {
	call(ctx context.Context, req Request) (*Response, error)
	statusOf(err error) (int, bool)
	model() string
}

// sdkProvider adapts a backend to Provider.
type sdkProvider struct {
	b backend
}

func (p *sdkProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.b.call(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, p.classify(err)
	}
	if resp.StopReason == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *sdkProvider) ModelID() string { return p.b.model() }

func (p *sdkProvider) classify(err error) error {
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return err
	}
	if status, ok := p.b.statusOf(err); ok && status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
