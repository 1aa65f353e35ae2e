package output

import (
	"context"

	"support-relay/internal/domain"
)

// CompletionClient interface - Output port
// Defines what the application needs from an OpenAI-compatible chat completion API.
type CompletionClient interface {
	// ChatCompletion sends a single chat completion request and returns the first choice.
	// Returns domain.ErrMissingCredential when no API key is configured, an upstream
	// error (see domain.IsUpstream) when the call fails, and domain.ErrEmptyCompletion
	// when the response decodes but carries no choice. A non-2xx status with a JSON
	// body is reported as domain.ErrUpstreamRejected.
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)
}
