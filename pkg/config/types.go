package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent vignettes configuration stored as config.toml
// in the .vignettes/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	LLM       LLMConfig       `toml:"llm"`
	Paths     PathsConfig     `toml:"paths"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Watcher   WatcherConfig   `toml:"watcher"`
	API       APIConfig       `toml:"api"`
	Events    EventsConfig    `toml:"events"`
}

// LLMConfig holds the completion service settings shared by the classifier,
// the combat summarizer and the generation cycle.
type LLMConfig struct {
	Provider            string  `toml:"provider,omitempty"`
	Model               string  `toml:"model,omitempty"`
	APIKey              string  `toml:"api_key,omitempty"`
	BaseURL             string  `toml:"base_url,omitempty"`
	Temperature         float64 `toml:"temperature,omitempty"`
	TimeoutSeconds      uint    `toml:"timeout_seconds,omitempty"`
	MaxTokensVignette   uint    `toml:"max_tokens_vignette,omitempty"`
	MaxTokensSummary    uint    `toml:"max_tokens_summary,omitempty"`
	MaxTokensCrewUpdate uint    `toml:"max_tokens_crew_update,omitempty"`
}

// PathsConfig holds the workspace layout. Relative paths resolve against
// Workspace, which itself defaults to the current working directory.
type PathsConfig struct {
	Workspace    string `toml:"workspace,omitempty"`
	SaveFolder   string `toml:"save_folder,omitempty"`
	Input        string `toml:"input,omitempty"`
	Saves        string `toml:"saves,omitempty"`
	CombatLogs   string `toml:"combat_logs,omitempty"`
	Processing   string `toml:"processing,omitempty"`
	Output       string `toml:"output,omitempty"`
	Logs         string `toml:"logs,omitempty"`
	GameState    string `toml:"game_state,omitempty"`
	CrewDetails  string `toml:"crew_details,omitempty"`
	Themes       string `toml:"themes,omitempty"`
	RecentQuests string `toml:"recent_quests,omitempty"`
	Marker       string `toml:"marker,omitempty"`
	Manifest     string `toml:"manifest,omitempty"`
}

// SchedulerConfig holds the generation trigger settings.
type SchedulerConfig struct {
	IntervalMinutes uint `toml:"interval_minutes,omitempty"`
	PollSeconds     uint `toml:"poll_seconds,omitempty"`
}

// WatcherConfig holds save folder notification settings.
type WatcherConfig struct {
	Extension       string `toml:"extension,omitempty"`
	CooldownSeconds uint   `toml:"cooldown_seconds,omitempty"`
	SettleSeconds   uint   `toml:"settle_seconds,omitempty"`
	CacheSize       uint   `toml:"cache_size,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EventsConfig holds domain event publishing settings.
type EventsConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func uintKey(name string, field func(c *Config) *uint) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if *field(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(*field(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = uint(n)
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"llm.provider": stringKey(func(c *Config) *string { return &c.LLM.Provider }),
	"llm.model":    stringKey(func(c *Config) *string { return &c.LLM.Model }),
	"llm.api_key":  stringKey(func(c *Config) *string { return &c.LLM.APIKey }),
	"llm.base_url": stringKey(func(c *Config) *string { return &c.LLM.BaseURL }),
	"llm.temperature": {
		get: func(c *Config) string { return strconv.FormatFloat(c.LLM.Temperature, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for llm.temperature: %w", err)
			}
			c.LLM.Temperature = f
			return nil
		},
	},
	"llm.timeout_seconds":        uintKey("llm.timeout_seconds", func(c *Config) *uint { return &c.LLM.TimeoutSeconds }),
	"llm.max_tokens_vignette":    uintKey("llm.max_tokens_vignette", func(c *Config) *uint { return &c.LLM.MaxTokensVignette }),
	"llm.max_tokens_summary":     uintKey("llm.max_tokens_summary", func(c *Config) *uint { return &c.LLM.MaxTokensSummary }),
	"llm.max_tokens_crew_update": uintKey("llm.max_tokens_crew_update", func(c *Config) *uint { return &c.LLM.MaxTokensCrewUpdate }),

	"paths.workspace":     stringKey(func(c *Config) *string { return &c.Paths.Workspace }),
	"paths.save_folder":   stringKey(func(c *Config) *string { return &c.Paths.SaveFolder }),
	"paths.input":         stringKey(func(c *Config) *string { return &c.Paths.Input }),
	"paths.saves":         stringKey(func(c *Config) *string { return &c.Paths.Saves }),
	"paths.combat_logs":   stringKey(func(c *Config) *string { return &c.Paths.CombatLogs }),
	"paths.processing":    stringKey(func(c *Config) *string { return &c.Paths.Processing }),
	"paths.output":        stringKey(func(c *Config) *string { return &c.Paths.Output }),
	"paths.logs":          stringKey(func(c *Config) *string { return &c.Paths.Logs }),
	"paths.game_state":    stringKey(func(c *Config) *string { return &c.Paths.GameState }),
	"paths.crew_details":  stringKey(func(c *Config) *string { return &c.Paths.CrewDetails }),
	"paths.themes":        stringKey(func(c *Config) *string { return &c.Paths.Themes }),
	"paths.recent_quests": stringKey(func(c *Config) *string { return &c.Paths.RecentQuests }),
	"paths.marker":        stringKey(func(c *Config) *string { return &c.Paths.Marker }),
	"paths.manifest":      stringKey(func(c *Config) *string { return &c.Paths.Manifest }),

	"scheduler.interval_minutes": uintKey("scheduler.interval_minutes", func(c *Config) *uint { return &c.Scheduler.IntervalMinutes }),
	"scheduler.poll_seconds":     uintKey("scheduler.poll_seconds", func(c *Config) *uint { return &c.Scheduler.PollSeconds }),

	"watcher.extension":        stringKey(func(c *Config) *string { return &c.Watcher.Extension }),
	"watcher.cooldown_seconds": uintKey("watcher.cooldown_seconds", func(c *Config) *uint { return &c.Watcher.CooldownSeconds }),
	"watcher.settle_seconds":   uintKey("watcher.settle_seconds", func(c *Config) *uint { return &c.Watcher.SettleSeconds }),
	"watcher.cache_size":       uintKey("watcher.cache_size", func(c *Config) *uint { return &c.Watcher.CacheSize }),

	"api.listen": stringKey(func(c *Config) *string { return &c.API.Listen }),

	"events.provider": stringKey(func(c *Config) *string { return &c.Events.Provider }),
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error {
			c.Events.Brokers = nil
			for _, b := range strings.Split(v, ",") {
				if b = strings.TrimSpace(b); b != "" {
					c.Events.Brokers = append(c.Events.Brokers, b)
				}
			}
			return nil
		},
	},
	"events.topic": stringKey(func(c *Config) *string { return &c.Events.Topic }),
}
