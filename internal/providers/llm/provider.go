package llm

import (
	"context"
	"errors"
)

// Provider is the hosted language-model collaborator. Completions return
// the raw model text; callers own prompt construction and output parsing.
type Provider interface {
	// CompleteJSON sends a chat completion constrained to a JSON object
	// response and returns the raw JSON text.
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	// CompleteVisionJSON is CompleteJSON with an attached image (data URI
	// or https URL).
	CompleteVisionJSON(ctx context.Context, system, user, imageURL string) (string, error)
}

var ErrUnavailable = errors.New("llm_unavailable")

// NoOpProvider satisfies Provider where no model is configured.
type NoOpProvider struct{}

func (p *NoOpProvider) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return "", ErrUnavailable
}

func (p *NoOpProvider) CompleteVisionJSON(ctx context.Context, system, user, imageURL string) (string, error) {
	return "", ErrUnavailable
}
