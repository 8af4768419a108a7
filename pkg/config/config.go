package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/vignettes/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// CurrentV is the config.toml schema version this build reads and writes.
	CurrentV = 0
)

// Configer reads and writes config.toml in a resolved .vignettes/ directory.
type Configer struct {
	path string
}

// NewConfiger resolves the .vignettes/ directory (override first, see
// dotdir.Manager.Target) without requiring config.toml to exist yet.
func NewConfiger(override string) (*Configer, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return &Configer{}, nil
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return &Configer{path: path}, nil
}

// keyOrder lists config keys in the TOML section layout order.
var keyOrder = []string{
	"llm.provider",
	"llm.model",
	"llm.api_key",
	"llm.base_url",
	"llm.temperature",
	"llm.timeout_seconds",
	"llm.max_tokens_vignette",
	"llm.max_tokens_summary",
	"llm.max_tokens_crew_update",
	"paths.workspace",
	"paths.save_folder",
	"paths.input",
	"paths.saves",
	"paths.combat_logs",
	"paths.processing",
	"paths.output",
	"paths.logs",
	"paths.game_state",
	"paths.crew_details",
	"paths.themes",
	"paths.recent_quests",
	"paths.marker",
	"paths.manifest",
	"scheduler.interval_minutes",
	"scheduler.poll_seconds",
	"watcher.extension",
	"watcher.cooldown_seconds",
	"watcher.settle_seconds",
	"watcher.cache_size",
	"api.listen",
	"events.provider",
	"events.brokers",
	"events.topic",
}

// ValidConfigKeys lists every key, ordered by TOML section as keyOrder has
// them, with unordered keys sorted at the end.
func ValidConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for _, k := range keyOrder {
		if _, ok := configKeys[k]; ok {
			keys = append(keys, k)
		}
	}

	var rest []string
	for k := range configKeys {
		if !slices.Contains(keyOrder, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)

	return append(keys, rest...)
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// GetTarget returns the config.toml path, empty when none was resolved.
func (c *Configer) GetTarget() string {
	return c.path
}

// LoadConfig reads config.toml over the defaults. A missing file yields
// NewDefaultConfig.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.path == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	return cfg, nil
}

// ApplyDefaults fills every unset key of cfg from NewDefaultConfig.
func ApplyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = defaults.LLM.Temperature
	}

	for _, info := range configKeys {
		if info.get(cfg) != "" {
			continue
		}
		if d := info.get(defaults); d != "" {
			_ = info.set(cfg, d)
		}
	}
}

// SaveConfig writes cfg to config.toml with owner-only permissions since it
// may hold llm.api_key.
func (c *Configer) SaveConfig(cfg *Config) error {
	switch {
	case cfg == nil:
		return errors.New("cannot save nil config")
	case c.path == "":
		return errors.New("cannot save empty target path")
	}

	data, err := EncodeTOML(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// EncodeTOML renders cfg as config.toml content.
func EncodeTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// SetConfigValue parses value into key and saves the file. Nothing is written
// when the key is unknown or the value does not parse.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue returns key as config.toml holds it, defaults applied.
func (c *Configer) GetConfigValue(key string) (string, error) {
	if !IsValidConfigKey(key) {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return Value(cfg, key)
}

// Value renders one dotted key of cfg the way "config set" accepts it.
func Value(cfg *Config, key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}
	return info.get(cfg), nil
}

// PresetConfig returns a Config with sane defaults for the named provider preset.
// Supported presets: "openai", "anthropic", "ollama", "gemini".
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "openai":
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = "gpt-4o-mini"

	case "anthropic":
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.Model = "claude-haiku-4-5-20251001"
		cfg.LLM.BaseURL = "https://api.anthropic.com"

	case "ollama":
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "llama3.2"
		cfg.LLM.BaseURL = "http://localhost:11434"

	case "gemini":
		cfg.LLM.Provider = "gemini"
		cfg.LLM.Model = "gemini-2.5-flash"

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}

	return cfg, nil
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"openai", "anthropic", "ollama", "gemini"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
