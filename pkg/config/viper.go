package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/vignettes/pkg/dotdir"
)

const envPrefix = "VIGNETTES"

// InitViper returns a viper instance layered, lowest first, as defaults,
// config.toml from the resolved .vignettes/ directory, then VIGNETTES_*
// environment variables (VIGNETTES_LLM_MODEL for llm.model). Flags bound with
// BindRegisteredFlags sit on top.
func InitViper(configDir string) (*viper.Viper, error) {
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v := viper.New()
	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if target != "" {
		v.AddConfigPath(target)
	}

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers every config key so AutomaticEnv can see it.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for key, info := range configKeys {
		v.SetDefault(key, info.get(d))
	}
}

// FromViper materializes a Config from the viper precedence chain. Every
// registered key goes through the same setter used by "config set", so
// values coming from flags or the environment are parsed identically.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()

	for key, info := range configKeys {
		raw := v.GetString(key)
		if key == "events.brokers" {
			// TOML arrays and comma separated env values both land here.
			raw = strings.Join(v.GetStringSlice(key), ",")
		}
		if raw == "" {
			continue
		}
		if err := info.set(cfg, raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
