package config

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag describes a command line override of one config key. Commands share
// definitions through Flags so --workspace means the same thing on serve,
// generate, status and browse.
type Flag struct {
	Name      string
	Shorthand string

	// ViperKey is the dotted config key the flag overrides.
	ViperKey    string
	Description string
}

type FlagSet map[string]Flag

// Registry keys for Flags.
const (
	FlagAPIListen  = "api-listen"
	FlagWorkspace  = "workspace"
	FlagSaveFolder = "save-folder"
	FlagProvider   = "provider"
	FlagModel      = "model"
	FlagInterval   = "interval"

	// The standalone "serve api" command uses "listen" as the flag name
	// but binds to the same viper key as --api-listen.
	FlagAPIListenStandalone = "api-listen-standalone"
)

// Flags is the shared registry used by the vignettes commands.
var Flags = FlagSet{
	FlagAPIListen:           {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagAPIListenStandalone: {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagWorkspace:           {Name: "workspace", Shorthand: "w", ViperKey: "paths.workspace", Description: "Workspace root that relative paths resolve against"},
	FlagSaveFolder:          {Name: "save-folder", ViperKey: "paths.save_folder", Description: "Game save folder to watch for new saves"},
	FlagProvider:            {Name: "provider", ViperKey: "llm.provider", Description: "LLM provider (openai, anthropic, ollama, gemini)"},
	FlagModel:               {Name: "model", Shorthand: "m", ViperKey: "llm.model", Description: "LLM model name"},
	FlagInterval:            {Name: "interval", ViperKey: "scheduler.interval_minutes", Description: "Minimum minutes between generation cycles"},
}

// AddStringFlag registers the string flag key from fs on cmd. Its default is
// the config default for the bound key, so --help shows what applies when
// neither config.toml nor the environment sets it.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	if def, ok := fs[key]; ok {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultValue(def.ViperKey), def.Description)
	}
}

// AddUintFlag registers the uint flag key from fs on cmd.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	def, ok := fs[key]
	if !ok {
		return
	}

	var dflt uint
	if n, err := strconv.ParseUint(defaultValue(def.ViperKey), 10, 0); err == nil {
		dflt = uint(n)
	}
	cmd.Flags().UintVarP(target, def.Name, def.Shorthand, dflt, def.Description)
}

// BindRegisteredFlags connects the named flags registered on cmd to their
// config keys in v, giving them the highest precedence. Keys whose flag cmd
// never registered are skipped.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}
		if f := cmd.Flags().Lookup(def.Name); f != nil {
			_ = v.BindPFlag(def.ViperKey, f)
		}
	}
}

func defaultValue(configKey string) string {
	info, ok := configKeys[configKey]
	if !ok {
		return ""
	}
	return info.get(NewDefaultConfig())
}
