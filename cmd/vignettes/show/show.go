// Package showcmder provides the show command for reading vignettes in the
// terminal.
package showcmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

type showCommander struct {
	workspace string
	raw       bool
	list      bool
}

const showLongDesc string = `Render a vignette in the terminal.

Without a name the most recent vignette is shown. Names may be given with or
without the .md extension.

Examples:
  vignettes show
  vignettes show vignette_2026-03-01_12-30-00
  vignettes show --list
  vignettes show --raw > latest.md`

const showShortDesc string = "Render a vignette in the terminal"

// ErrNoVignettes is returned when the output folder holds no vignettes.
var ErrNoVignettes = errors.New("no vignettes found")

func NewShowCmd() *cobra.Command {
	cmder := &showCommander{}

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return cmder.run(cmd, name)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the markdown without rendering")
	cmd.Flags().BoolVar(&cmder.list, "list", false, "List vignettes instead of showing one")

	return cmd
}

func (c *showCommander) run(cmd *cobra.Command, name string) error {
	cfg, err := setup.LoadConfig(cmd, config.FlagWorkspace)
	if err != nil {
		return err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if c.list {
		entries, err := vignette.List(layout.Output)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "  %s No vignettes in %s\n", cliui.DimStyle.Render("●"), layout.Output)
			return nil
		}
		for _, e := range entries {
			kind := ""
			if e.IsInteractive {
				kind = cliui.WarnStyle.Render(" [interactive]")
			}
			fmt.Fprintf(out, "  %s%s  %s\n",
				cliui.NameStyle.Render(e.Name),
				kind,
				cliui.DimStyle.Render(e.Timestamp),
			)
		}
		return nil
	}

	entry, ok, err := vignette.Find(layout.Output, name)
	if err != nil {
		return err
	}
	if !ok {
		if name == "" {
			return ErrNoVignettes
		}
		return fmt.Errorf("vignette %q not found in %s", name, layout.Output)
	}

	if c.raw {
		fmt.Fprint(out, entry.Content)
		return nil
	}

	rendered, err := cliui.RenderMarkdown(entry.Content)
	if err != nil {
		// glamour failures fall back to the raw text
		rendered = entry.Content
	}
	fmt.Fprint(out, rendered)

	return nil
}
