// Package generatecmder provides the generate command for running one
// generation cycle on demand.
package generatecmder

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

type generateCommander struct {
	workspace string
	provider  string
	model     string
	show      bool
	ifDue     bool
}

const generateLongDesc string = `Run one vignette generation cycle now.

The cycle refreshes the game state with the latest combat summary and
discovered locations, writes a new vignette and its summary, updates the crew
details and records the execution time.

By default the scheduler trigger is ignored. Use --if-due to run only when the
scheduler would generate now.

Examples:
  vignettes generate
  vignettes generate --show
  vignettes generate --if-due --model gpt-4o`

const generateShortDesc string = "Generate a vignette now"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	cmd.Flags().BoolVar(&cmder.show, "show", false, "Render the new vignette when done")
	cmd.Flags().BoolVar(&cmder.ifDue, "if-due", false, "Only generate when the scheduler trigger holds")

	return cmd
}

func (c *generateCommander) run(cmd *cobra.Command) error {
	svc, cleanup, err := setup.Services(cmd, config.FlagWorkspace, config.FlagProvider, config.FlagModel)
	if err != nil {
		return err
	}
	defer cleanup()

	w := cmd.OutOrStdout()

	if c.ifDue {
		sched, err := svc.NewScheduler()
		if err != nil {
			return err
		}
		decision, err := sched.Check(time.Now())
		if err != nil {
			return err
		}
		if !decision.Due {
			fmt.Fprintf(w, "\n  %s Not due: %s %s\n\n",
				cliui.DimStyle.Render("●"),
				decision.Reason,
				cliui.DimStyle.Render("(next "+decision.NextDue.Format(time.Kitchen)+")"),
			)
			return nil
		}
	}

	fmt.Fprintln(w)

	var res *vignette.Result
	err = cliui.Step(w, "Generating vignette with "+svc.Generator.Model(), func() error {
		var runErr error
		res, runErr = svc.Generator.Run(cmd.Context())
		return runErr
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s  %s\n", cliui.KeyStyle.Render("Vignette:"), cliui.ValueStyle.Render(res.VignettePath))
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Summary: "), cliui.ValueStyle.Render(res.SummaryPath))
	if res.CrewUpdated {
		fmt.Fprintf(w, "  %s Crew details updated\n", cliui.SuccessMark)
	} else {
		fmt.Fprintf(w, "  %s Crew details unchanged\n", cliui.DimStyle.Render("●"))
	}
	fmt.Fprintln(w)

	if !c.show {
		return nil
	}

	data, err := os.ReadFile(res.VignettePath)
	if err != nil {
		return fmt.Errorf("reading vignette: %w", err)
	}

	rendered, err := cliui.RenderMarkdown(string(data))
	if err != nil {
		svc.Logger.Debug("rendering markdown", "error", err)
	}
	fmt.Fprint(w, rendered)

	return nil
}
