package testutils

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/vignettes/pkg/llm"
)

// MockCompleter is a scripted llm.Completer. Responses are returned in call
// order; once they run out Default is returned.
type MockCompleter struct {
	Responses []string
	Default   string

	// FailOn causes Complete to return an error when the system prompt or
	// the prompt contains it.
	FailOn string

	// Handler, when set, replaces the scripted responses entirely.
	Handler func(req *llm.CompletionRequest) (string, error)

	ModelName string

	mu       sync.Mutex
	requests []llm.CompletionRequest
}

func NewMockCompleter(responses ...string) *MockCompleter {
	return &MockCompleter{
		Responses: responses,
		ModelName: "mock-model",
	}
}

func (m *MockCompleter) Model() string {
	return m.ModelName
}

func (m *MockCompleter) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	n := len(m.requests)
	m.requests = append(m.requests, *req)
	m.mu.Unlock()

	if m.FailOn != "" && (strings.Contains(req.System, m.FailOn) || strings.Contains(req.Prompt, m.FailOn)) {
		return nil, fmt.Errorf("mock completion failure for: %s", m.FailOn)
	}

	var (
		text string
		err  error
	)
	switch {
	case m.Handler != nil:
		text, err = m.Handler(req)
	case n < len(m.Responses):
		text = m.Responses[n]
	default:
		text = m.Default
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, llm.ErrEmptyCompletion
	}

	return &llm.CompletionResponse{
		Model:      m.ModelName,
		CreatedAt:  time.Now(),
		Text:       text,
		StopReason: "stop",
	}, nil
}

// Requests returns a copy of every request received so far.
func (m *MockCompleter) Requests() []llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.CompletionRequest(nil), m.requests...)
}

// Calls returns the number of Complete calls.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
