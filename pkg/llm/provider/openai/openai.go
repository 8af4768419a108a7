// Package openai implements llm.Completer on the OpenAI Responses API.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/papercomputeco/vignettes/pkg/llm"
)

const DefaultModel = "gpt-4o-mini"

// completer implements llm.Completer for OpenAI.
type completer struct {
	client *openai.Client
	model  string
}

// New creates an OpenAI completer. An empty baseURL uses the SDK default.
// Retries are disabled: the caller owns retry policy.
func New(apiKey, model, baseURL string, opts ...option.RequestOption) *completer {
	if model == "" {
		model = DefaultModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	client := openai.NewClient(reqOpts...)
	return &completer{client: &client, model: model}
}

// Model
func (c *completer) Model() string { return c.model }

func (c *completer) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	ctx, cancel := req.Context(ctx)
	defer cancel()

	params := responses.ResponseNewParams{
		Model:       c.model,
		Temperature: openai.Float(req.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
	}
	if req.System != "" {
		params.Instructions = openai.String(req.System)
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return nil, llm.ErrEmptyCompletion
	}

	stop := string(resp.Status)
	if resp.IncompleteDetails.Reason != "" {
		stop = string(resp.IncompleteDetails.Reason)
	}

	return &llm.CompletionResponse{
		Model:      string(resp.Model),
		CreatedAt:  time.Now(),
		Text:       text,
		StopReason: stop,
		Usage: &llm.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
