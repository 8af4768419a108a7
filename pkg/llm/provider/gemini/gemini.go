// Package gemini implements llm.Completer on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/papercomputeco/vignettes/pkg/llm"
)

const DefaultModel = "gemini-2.5-flash"

// completer implements llm.Completer for Gemini.
type completer struct {
	client *genai.Client
	model  string
}

// New dials the Gemini API. Close releases the underlying client.
func New(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*completer, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &completer{client: client, model: model}, nil
}

func (c *completer) Model() string { return c.model }

func (c *completer) Close() error {
	return c.client.Close()
}

func (c *completer) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	// GenerativeModel carries per-call settings, so each call gets its own.
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	ctx, cancel := req.Context(ctx)
	defer cancel()

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	return toCompletion(c.model, resp)
}

var errNoCandidates = errors.New("no content returned from Gemini")

func toCompletion(model string, resp *genai.GenerateContentResponse) (*llm.CompletionResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errNoCandidates
	}

	cand := resp.Candidates[0]

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, llm.ErrEmptyCompletion
	}

	out := &llm.CompletionResponse{
		Model:      model,
		CreatedAt:  time.Now(),
		Text:       text,
		StopReason: stopReason(cand.FinishReason),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return out, nil
}

func stopReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "max_tokens"
	case genai.FinishReasonUnspecified:
		return ""
	default:
		return strings.ToLower(strings.TrimPrefix(r.String(), "FinishReason"))
	}
}
