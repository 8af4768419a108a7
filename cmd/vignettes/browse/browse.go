// Package browsecmder provides the browse command, a terminal UI for reading
// vignettes and continuing them interactively.
package browsecmder

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/services"
)

type browseCommander struct {
	workspace string
}

const browseLongDesc string = `Browse generated vignettes in a terminal UI.

The list on the left holds every vignette in the output directory, newest
first. Interactive continuations are marked with an arrow. The selected
vignette is rendered on the right.

Keys:
  up/down, k/j   Select a vignette
  pgup/pgdn      Scroll the vignette
  i              Continue the selected vignette with a message
  g              Run a generation cycle now
  r              Reload the list
  q              Quit

When the LLM provider cannot be configured the browser opens read-only.`

const browseShortDesc string = "Browse vignettes in a terminal UI"

// minGenerationTimeout bounds a single generation started from the browser.
// A cycle issues several completions so it gets a multiple of the LLM timeout.
const minGenerationTimeout = 10 * time.Minute

func NewBrowseCmd() *cobra.Command {
	cmder := &browseCommander{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: browseShortDesc,
		Long:  browseLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)

	return cmd
}

func (c *browseCommander) run(cmd *cobra.Command) error {
	cfg, err := setup.LoadConfig(cmd, config.FlagWorkspace)
	if err != nil {
		return err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so records only go to the service log.
	log := logger.Nop()
	if layout.Logs != "" {
		fileLog, closer, err := setup.NewFileLogger(cmd, layout.Logs)
		if err != nil {
			return err
		}
		defer closer.Close()
		log = fileLog
	}

	var gen Generator
	svc, err := services.New(cmd.Context(), cfg, log, services.Options{ConfigDir: setup.ConfigDir(cmd)})
	if err != nil {
		log.Warn("browsing read-only", "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Generation unavailable: %v\n", err)
	} else {
		defer func() {
			if err := svc.Close(); err != nil {
				log.Warn("closing services", "error", err)
			}
		}()
		gen = svc.Generator
	}

	timeout := max(cfg.Timeout()*3, minGenerationTimeout)

	p := tea.NewProgram(newModel(layout.Output, gen, timeout), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
