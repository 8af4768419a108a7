// Package servecmder provides the serve command with subcommands for running services.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apicmder "github.com/papercomputeco/vignettes/cmd/vignettes/serve/api"
	schedulercmder "github.com/papercomputeco/vignettes/cmd/vignettes/serve/scheduler"
	watchcmder "github.com/papercomputeco/vignettes/cmd/vignettes/serve/watch"
	"github.com/papercomputeco/vignettes/cmd/vignettes/setup"
	"github.com/papercomputeco/vignettes/pkg/config"
)

type ServeCommander struct {
	apiListen  string
	workspace  string
	saveFolder string
	provider   string
	model      string
	interval   uint
}

const serveLongDesc string = `Run vignettes services.

Use subcommands to run individual services or all services together:
  vignettes serve              Run the save watcher, the scheduler and the API together
  vignettes serve api          Run just the API server
  vignettes serve watch        Run just the save watcher and processor
  vignettes serve scheduler    Run just the generation scheduler`

const serveShortDesc string = "Run vignettes services"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagWorkspace,
	config.FlagSaveFolder,
	config.FlagProvider,
	config.FlagModel,
	config.FlagInterval,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, config.Flags, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, config.Flags, config.FlagSaveFolder, &cmder.saveFolder)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, config.Flags, config.FlagInterval, &cmder.interval)

	cmd.AddCommand(apicmder.NewAPICmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(schedulercmder.NewSchedulerCmd())

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	svc, cleanup, err := setup.Services(cmd, serveFlags...)
	if err != nil {
		return err
	}
	defer cleanup()

	logger := svc.Logger

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := svc.Processor.Startup(ctx); err != nil {
		logger.Warn("start up maintenance failed", "error", err)
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

	sched, err := svc.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	apiServer, err := svc.NewAPI("", sched)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	logger.Info("starting vignettes",
		"workspace", svc.Layout.Workspace,
		"save_folder", svc.Layout.SaveFolder,
		"api_addr", svc.Config.API.Listen,
		"interval", svc.Config.Interval(),
		"model", svc.Generator.Model(),
	)

	// Channel to capture errors from goroutines
	errChan := make(chan error, 3)

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("watcher error: %w", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("scheduler error: %w", err)
		}
	}()

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errChan:
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	cancel()
	if serr := apiServer.Shutdown(); serr != nil {
		logger.Warn("shutting down API server", "error", serr)
	}
	w.Wait()

	return err
}
