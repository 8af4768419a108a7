// Package apicmder provides the vignettes API server cobra command.
package apicmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/config"
)

type apiCommander struct {
	listen    string
	workspace string
}

const apiLongDesc string = `Run the vignettes API server for browsing vignettes and combat summaries,
requesting interactive vignettes and triggering generation cycles.

The MCP tools are served from /mcp on the same address. The scheduler is not
started, so /api/scheduler reports 503; use "vignettes serve" for that.`

const apiShortDesc string = "Run the vignettes API server"

func NewAPICmd() *cobra.Command {
	cmder := &apiCommander{}

	cmd := &cobra.Command{
		Use:   "api",
		Short: apiShortDesc,
		Long:  apiLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListenStandalone, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)

	return cmd
}

func (c *apiCommander) run(cmd *cobra.Command) error {
	svc, cleanup, err := setup.Services(cmd, config.FlagAPIListenStandalone, config.FlagWorkspace)
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := svc.NewAPI("", nil)
	if err != nil {
		return err
	}

	return server.Run()
}
