package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the backend answers with no choices
var ErrEmptyResponse = errors.New("empty response from text generator")

// Prompt is one generation request
type Prompt struct {
	// Role labels the caller for metrics and logs ("classifier", "market_analyst", ...)
	Role   string
	System string
	User   string
	// JSON asks the backend for a JSON object response when it supports it
	JSON bool
}

// Generator produces text for a prompt. Implementations must not retry.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, prompt Prompt) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
