// Package llm defines the completion collaborator shared by every component
// that talks to a language model.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answers with no text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Completer performs blocking text completions. Implementations must honor
// ctx cancellation and CompletionRequest.Timeout and must not retry.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Model returns the model identifier recorded in artifact metadata.
	Model() string
}

// CompleteText is a convenience wrapper returning only the completion text.
// An empty completion is reported as ErrEmptyCompletion.
func CompleteText(ctx context.Context, c Completer, req *CompletionRequest) (string, error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Text == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Text, nil
}
