// Package schedulercmder provides the generation scheduler cobra command.
package schedulercmder

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/config"
)

type schedulerCommander struct {
	workspace string
	provider  string
	model     string
	interval  uint
}

const schedulerLongDesc string = `Run the generation scheduler.

The scheduler checks the input folder every poll interval. A vignette is
generated when the configured interval has passed since the last cycle and
something in the input folder changed within that interval.`

const schedulerShortDesc string = "Run the generation scheduler"

func NewSchedulerCmd() *cobra.Command {
	cmder := &schedulerCommander{}

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: schedulerShortDesc,
		Long:  schedulerLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, config.Flags, config.FlagInterval, &cmder.interval)

	return cmd
}

func (c *schedulerCommander) run(cmd *cobra.Command) error {
	svc, cleanup, err := setup.Services(cmd,
		config.FlagWorkspace,
		config.FlagProvider,
		config.FlagModel,
		config.FlagInterval,
	)
	if err != nil {
		return err
	}
	defer cleanup()

	sched, err := svc.NewScheduler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return sched.Run(ctx)
}
