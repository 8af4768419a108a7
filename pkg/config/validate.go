package config

import (
	"errors"
	"fmt"
	"strings"
)

// PlaceholderAPIKey is the value shipped in example configs. A config that
// still carries it has never been filled in.
const PlaceholderAPIKey = "YOUR-API-KEY-HERE"

var (
	// ErrPlaceholderAPIKey is returned when llm.api_key was never replaced.
	ErrPlaceholderAPIKey = errors.New("llm.api_key still holds the placeholder value, set a real key")

	// ErrMissingSetting is wrapped by Validate for every required key left empty.
	ErrMissingSetting = errors.New("missing required setting")
)

// Validate reports configuration errors that must stop the process at start up.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.LLM.Provider) == "" {
		errs = append(errs, fmt.Errorf("%w: llm.provider", ErrMissingSetting))
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: llm.model", ErrMissingSetting))
	}
	if strings.EqualFold(strings.TrimSpace(c.LLM.APIKey), PlaceholderAPIKey) {
		errs = append(errs, ErrPlaceholderAPIKey)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature))
	}

	for key, v := range map[string]uint{
		"llm.timeout_seconds":        c.LLM.TimeoutSeconds,
		"llm.max_tokens_vignette":    c.LLM.MaxTokensVignette,
		"llm.max_tokens_summary":     c.LLM.MaxTokensSummary,
		"llm.max_tokens_crew_update": c.LLM.MaxTokensCrewUpdate,
		"scheduler.interval_minutes": c.Scheduler.IntervalMinutes,
	} {
		if v == 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive", ErrMissingSetting, key))
		}
	}

	for key, v := range map[string]string{
		"paths.input":        c.Paths.Input,
		"paths.output":       c.Paths.Output,
		"paths.game_state":   c.Paths.GameState,
		"paths.crew_details": c.Paths.CrewDetails,
		"paths.marker":       c.Paths.Marker,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, key))
		}
	}

	return errors.Join(errs...)
}
