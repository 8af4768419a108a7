package llm

import (
	"time"
)

// CompletionResponse is a provider-agnostic completion result.
type CompletionResponse struct {
	// Model that generated the response
	Model string `json:"model"`

	// Response timestamp
	CreatedAt time.Time `json:"created_at,omitzero"`

	// Text is the trimmed completion text.
	Text string `json:"text"`

	// Stop reason (e.g., "stop", "length", "end_turn", "max_tokens")
	StopReason string `json:"stop_reason,omitempty"`

	// Token usage
	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Truncated reports whether the provider stopped on its token ceiling.
func (r *CompletionResponse) Truncated() bool {
	switch r.StopReason {
	case "length", "max_tokens", "max_output_tokens", "MAX_TOKENS", "incomplete":
		return true
	}
	return false
}
