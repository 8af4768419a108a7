// Package configcmder provides the config command for managing persistent
// vignettes configuration stored in the .vignettes/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/credentials"
)

const configLongDesc string = `Manage persistent vignettes configuration.

Configuration is stored as config.toml in the .vignettes/ directory and
provides default values for command flags. CLI flags and VIGNETTES_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  llm.provider, llm.model, llm.api_key, llm.base_url, llm.temperature,
  llm.timeout_seconds, llm.max_tokens_vignette, llm.max_tokens_summary,
  llm.max_tokens_crew_update,
  paths.workspace, paths.save_folder, paths.input, paths.saves, ...,
  scheduler.interval_minutes, scheduler.poll_seconds,
  watcher.extension, watcher.cooldown_seconds, watcher.settle_seconds,
  api.listen, events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  vignettes config set <key> <value>    Set a configuration value
  vignettes config get <key>            Get a configuration value
  vignettes config list                 List all configuration values

Examples:
  vignettes config set llm.provider anthropic
  vignettes config set paths.save_folder ~/Saves
  vignettes config get scheduler.interval_minutes
  vignettes config list`

const configShortDesc string = "Manage persistent vignettes configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd(), newGetCmd(), newListCmd())

	return cmd
}

// secretKey is masked by get and list.
const secretKey = "llm.api_key"

// openConfiger resolves the config file for cmd and announces which file the
// subcommand is about to read or write.
func openConfiger(cmd *cobra.Command) (*config.Configer, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	w := cmd.OutOrStdout()
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(target))
	} else {
		fmt.Fprintf(w, "\n  %s\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}
	return cfger, nil
}

func checkKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s", key, strings.Join(config.ValidConfigKeys(), ", "))
}

// completeKey offers config keys for the first positional argument only.
func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printValue(w io.Writer, key, value string, masked bool) {
	switch {
	case value == "":
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render("<not set>"))
	case masked:
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render(credentials.Mask(value)))
	default:
		fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	}
}
