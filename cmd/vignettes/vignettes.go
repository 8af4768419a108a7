// Package vignettescmder
package vignettescmder

import (
	"github.com/spf13/cobra"

	versioncmder "github.com/papercomputeco/vignettes/cmd/version"
	authcmder "github.com/papercomputeco/vignettes/cmd/vignettes/auth"
	browsecmder "github.com/papercomputeco/vignettes/cmd/vignettes/browse"
	configcmder "github.com/papercomputeco/vignettes/cmd/vignettes/config"
	generatecmder "github.com/papercomputeco/vignettes/cmd/vignettes/generate"
	initcmder "github.com/papercomputeco/vignettes/cmd/vignettes/init"
	servecmder "github.com/papercomputeco/vignettes/cmd/vignettes/serve"
	showcmder "github.com/papercomputeco/vignettes/cmd/vignettes/show"
	statuscmder "github.com/papercomputeco/vignettes/cmd/vignettes/status"
)

const vignettesLongDesc string = `Vignettes turns your game saves into short narrative scenes.

It watches the save folder, extracts combat logs and discovered locations,
keeps a running game state and periodically asks an LLM for a new vignette
about the party.

Get started:
  vignettes init             Create .vignettes/ and the workspace
  vignettes auth openai      Store a provider API key
  vignettes serve            Watch saves, schedule vignettes and run the API

Read what was written:
  vignettes show             Render the latest vignette
  vignettes browse           Browse and continue vignettes in a TUI`

const vignettesShortDesc string = "Vignettes - narrative scenes from your game saves"

func NewVignettesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vignettes",
		Short:        vignettesShortDesc,
		Long:         vignettesLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .vignettes/ config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(showcmder.NewShowCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(browsecmder.NewBrowseCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
