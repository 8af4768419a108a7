package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/vignettes/pkg/credentials"
	"github.com/papercomputeco/vignettes/pkg/llm"
	"github.com/papercomputeco/vignettes/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/vignettes/pkg/llm/provider/gemini"
	"github.com/papercomputeco/vignettes/pkg/llm/provider/ollama"
	"github.com/papercomputeco/vignettes/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Ollama    = "ollama"
	Gemini    = "gemini"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, Anthropic, Ollama, Gemini}
}

// New creates the completer for cfg.Provider.
// Resolution order for API key:
//  1. Explicit APIKey in config
//  2. credentials.Manager (from vignettes auth)
//  3. Environment variables (OPENAI_API_KEY / ANTHROPIC_API_KEY / GEMINI_API_KEY)
//
// Ollama needs no key.
func New(ctx context.Context, cfg Config) (llm.Completer, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = OpenAI
	}

	if name == Ollama {
		return ollama.New(cfg.Model, cfg.BaseURL), nil
	}

	apiKey := credentials.ResolveKey(cfg.CredMgr, name, cfg.APIKey)

	switch name {
	case OpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("%w for %s (set llm.api_key, run vignettes auth, or export %s)", ErrMissingAPIKey, name, credentials.EnvVarForProvider(name))
		}
		return openai.New(apiKey, cfg.Model, cfg.BaseURL), nil

	case Anthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("%w for %s (set llm.api_key, run vignettes auth, or export %s)", ErrMissingAPIKey, name, credentials.EnvVarForProvider(name))
		}
		return anthropic.New(apiKey, cfg.Model, cfg.BaseURL), nil

	case Gemini:
		if apiKey == "" {
			return nil, fmt.Errorf("%w for %s (set llm.api_key, run vignettes auth, or export %s)", ErrMissingAPIKey, name, credentials.EnvVarForProvider(name))
		}
		c, err := gemini.New(ctx, apiKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", cfg.Provider, SupportedProviders())
	}
}
