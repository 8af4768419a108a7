package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Writes the key to config.toml in the .vignettes/ directory, creating the file
when needed. The value is parsed the same way VIGNETTES_* variables are, so
numbers must be whole and lists such as events.brokers take comma separated
values. Run "vignettes config list" for every key.

Examples:
  vignettes config set llm.provider ollama
  vignettes config set llm.base_url http://localhost:11434
  vignettes config set scheduler.interval_minutes 30
  vignettes config set events.brokers kafka-1:9092,kafka-2:9092`

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration value",
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			if err := cfger.SetConfigValue(key, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s %s = %s\n\n",
				cliui.SuccessMark, cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
			return nil
		},
	}
}
