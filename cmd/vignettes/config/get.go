package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

const getLongDesc string = `Get a configuration value.

Prints the value config.toml holds for the key, or the default when the file
does not set it. llm.api_key is masked unless --reveal is given.

Examples:
  vignettes config get llm.model
  vignettes config get llm.api_key --reveal
  vignettes config get paths.save_folder`

func newGetCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a configuration value",
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w)
			printValue(w, key, value, key == secretKey && !reveal)
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print llm.api_key unmasked")

	return cmd
}
