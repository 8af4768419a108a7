// Package statuscmder provides the status command for displaying the
// workspace, the scheduler trigger and the current game state.
package statuscmder

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
	"github.com/papercomputeco/vignettes/pkg/utils"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

const statusLongDesc string = `Show the vignettes workspace status.

Displays the resolved workspace, the LLM settings, whether the scheduler
would generate now and a short view of the game state document.

Examples:
  vignettes status
  vignettes status --workspace ~/campaign`

const statusShortDesc string = "Show workspace and scheduler status"

const previewLen = 72

func NewStatusCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &workspace)

	return cmd
}

func runStatus(cmd *cobra.Command) error {
	cfg, err := setup.LoadConfig(cmd, config.FlagWorkspace)
	if err != nil {
		return err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	now := time.Now()

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Workspace:"), cliui.ValueStyle.Render(layout.Workspace))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Model:    "), cliui.ValueStyle.Render(cfg.LLM.Provider+"/"+cfg.LLM.Model))
	if layout.SaveFolder != "" {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Saves:    "), cliui.ValueStyle.Render(layout.SaveFolder))
	} else {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Saves:    "), cliui.DimStyle.Render("<not set>"))
	}

	if err := printSchedule(out, cfg, layout, now); err != nil {
		return err
	}

	printGameState(out, layout.GameState)

	latest, ok, err := vignette.Find(layout.Output, "")
	if err == nil && ok {
		fmt.Fprintf(out, "\n  %s  %s %s\n",
			cliui.KeyStyle.Render("Latest vignette:"),
			cliui.NameStyle.Render(latest.Name),
			cliui.DimStyle.Render(latest.Timestamp),
		)
	}

	fmt.Fprintln(out)
	return nil
}

func printSchedule(out io.Writer, cfg *config.Config, layout config.Layout, now time.Time) error {
	last, err := scheduler.NewMarkerStore(layout.Marker).Last()
	if err != nil {
		return fmt.Errorf("reading execution marker: %w", err)
	}

	newest, err := scheduler.NewestModification(layout.Input)
	if err != nil {
		return fmt.Errorf("scanning input folder: %w", err)
	}

	lastText := cliui.DimStyle.Render("never")
	if !last.IsZero() {
		lastText = cliui.ValueStyle.Render(last.Format(time.DateTime))
	}
	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Last cycle:"), lastText)

	if scheduler.ShouldGenerate(last, cfg.Interval(), now, newest) {
		fmt.Fprintf(out, "  %s  %s due now\n", cliui.KeyStyle.Render("Next cycle:"), cliui.SuccessMark)
	} else {
		next := now
		if !last.IsZero() {
			next = last.Add(cfg.Interval())
		}
		fmt.Fprintf(out, "  %s  %s %s\n",
			cliui.KeyStyle.Render("Next cycle:"),
			cliui.ValueStyle.Render(next.Format(time.DateTime)),
			cliui.DimStyle.Render("(needs recent input activity)"),
		)
	}

	return nil
}

func printGameState(out io.Writer, path string) {
	doc, err := gamestate.NewStore(path, docstore.NewLocker(), logger.Nop()).Load()
	if err != nil {
		msg := err.Error()
		if errors.Is(err, gamestate.ErrNotFound) {
			msg = "no game state, run vignettes init"
		}
		fmt.Fprintf(out, "\n  %s %s\n", cliui.FailMark, cliui.DimStyle.Render(msg))
		return
	}

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Party:    "), cliui.NameStyle.Render(strconv.Itoa(len(doc.PartyContext.ActiveMembers))+" active"))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Interludes:"), cliui.NameStyle.Render(strconv.Itoa(len(doc.NarrativeLog.PreviousInterludes))))

	for i, loc := range doc.PlotState.RecentLocations {
		fmt.Fprintf(out, "  %s %s\n", cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)), loc)
	}

	if s := doc.CombatLog.LatestExecutiveSummary; s != "" {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Last fight:"), utils.Truncate(s, previewLen))
	}
}
