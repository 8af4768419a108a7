package llm

import (
	"context"
	"time"
)

// CompletionRequest is a single provider-agnostic text completion request.
// Every call made by the classifier, the combat summarizer and the
// generation cycle has exactly this shape.
type CompletionRequest struct {
	// System prompt framing the model's role.
	System string `json:"system,omitempty"`

	// Prompt is the user turn.
	Prompt string `json:"prompt"`

	// Generation parameters
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`

	// Timeout bounds the call. Zero means the caller's context decides.
	Timeout time.Duration `json:"-"`
}

// Context returns a child of ctx bounded by the request timeout.
func (r *CompletionRequest) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}
