package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
)

const listLongDesc string = `List all configuration values.

Prints every key grouped by its TOML section with the value in effect from
config.toml or the defaults. llm.api_key is masked.`

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			cfg, err := cfger.LoadConfig()
			if err != nil {
				return err
			}

			keys := config.ValidConfigKeys()
			width := 0
			for _, k := range keys {
				width = max(width, len(k))
			}

			w := cmd.OutOrStdout()
			section := ""
			for _, key := range keys {
				if s, _, _ := strings.Cut(key, "."); s != section {
					section = s
					fmt.Fprintf(w, "\n  %s\n", cliui.HeaderStyle.Render("["+section+"]"))
				}
				value, _ := config.Value(cfg, key)
				printValue(w, fmt.Sprintf("%-*s", width, key), value, key == secretKey)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
