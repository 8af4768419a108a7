// Package watchcmder provides the save watcher cobra command.
package watchcmder

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/config"
)

type watchCommander struct {
	workspace  string
	saveFolder string
	once       string
}

const watchLongDesc string = `Watch the game save folder and process every new save.

Each settled save is copied into the workspace, extracted and compared with
the previous manifest. New files are classified into locations, the location
history and the game state are updated and pending combat logs are summarized.

Use --once to process a single save file and exit.

Examples:
  vignettes serve watch --save-folder ~/Saves
  vignettes serve watch --once ~/Saves/quicksave.savegame`

const watchShortDesc string = "Watch the save folder and process new saves"

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, config.Flags, config.FlagSaveFolder, &cmder.saveFolder)
	cmd.Flags().StringVar(&cmder.once, "once", "", "Process this save file and exit")

	return cmd
}

func (c *watchCommander) run(cmd *cobra.Command) error {
	svc, cleanup, err := setup.Services(cmd, config.FlagWorkspace, config.FlagSaveFolder)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Processor.Startup(ctx); err != nil {
		svc.Logger.Warn("start up maintenance failed", "error", err)
	}

	if c.once != "" {
		out, err := svc.Processor.Process(ctx, c.once)
		if err != nil {
			return err
		}
		svc.Logger.Info("save processed",
			"new_entries", len(out.NewEntries),
			"locations", out.Locations,
			"combat_summaries", len(out.CombatSummaries),
		)
		return nil
	}

	pool, err := svc.NewPool()
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	w, err := svc.NewWatcher(pool)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	err = w.Run(ctx)
	if ctx.Err() != nil {
		svc.Logger.Info("shutting down", "reason", context.Cause(ctx))
		return nil
	}
	return err
}
