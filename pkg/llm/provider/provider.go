// Package provider builds the llm.Completer for a configured provider.
package provider

import (
	"errors"

	"github.com/papercomputeco/vignettes/pkg/credentials"
)

// ErrMissingAPIKey is returned when a hosted provider has no resolvable key.
var ErrMissingAPIKey = errors.New("no API key configured")

// Config holds configuration for creating a completer.
type Config struct {
	Provider string // "openai", "anthropic", "ollama" or "gemini"
	Model    string // e.g. "gpt-4o-mini", "claude-haiku-4-5-20251001"
	APIKey   string // explicit API key (highest priority)
	BaseURL  string // override base URL

	// CredMgr resolves keys stored by "vignettes auth". Optional.
	CredMgr *credentials.Manager
}
