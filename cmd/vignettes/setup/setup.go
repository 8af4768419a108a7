// Package setup resolves the configuration and logger shared by the vignettes
// commands.
package setup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/services"
)

// LogFileName is the JSON service log written under paths.logs.
const LogFileName = "vignettes.log"

// ConfigDir returns the --config-dir override, or "" when the flag is absent.
func ConfigDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config-dir")
	return dir
}

// Debug reports whether --debug was set.
func Debug(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

// LoadConfig resolves the config through the viper precedence chain, binding
// the named registry flags that cmd registered.
func LoadConfig(cmd *cobra.Command, flagKeys ...string) (*config.Config, error) {
	v, err := config.InitViper(ConfigDir(cmd))
	if err != nil {
		return nil, err
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// NewLogger returns a console logger, pretty when stdout is a terminal. When
// logsDir is set the records are also appended as JSON to the service log.
// The returned closer releases the log file.
func NewLogger(cmd *cobra.Command, logsDir string) (*slog.Logger, io.Closer, error) {
	debug := Debug(cmd)

	console := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(term.IsTerminal(int(os.Stdout.Fd()))),
		logger.WithWriter(os.Stdout),
	)

	if logsDir == "" {
		return console, nopCloser{}, nil
	}

	file, closer, err := NewFileLogger(cmd, logsDir)
	if err != nil {
		return nil, nil, err
	}

	return logger.Multi(console, file), closer, nil
}

// NewFileLogger returns a JSON logger appending to the service log in
// logsDir.
func NewFileLogger(cmd *cobra.Command, logsDir string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating logs directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logsDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening service log: %w", err)
	}

	return logger.New(
		logger.WithDebug(Debug(cmd)),
		logger.WithJSON(true),
		logger.WithWriter(f),
	), f, nil
}

// Services loads the config, opens the logger and builds the shared
// components for cmd. The cleanup func closes everything it opened.
func Services(cmd *cobra.Command, flagKeys ...string) (*services.Services, func(), error) {
	cfg, err := LoadConfig(cmd, flagKeys...)
	if err != nil {
		return nil, nil, err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return nil, nil, err
	}

	log, logFile, err := NewLogger(cmd, layout.Logs)
	if err != nil {
		return nil, nil, err
	}

	svc, err := services.New(cmd.Context(), cfg, log, services.Options{ConfigDir: ConfigDir(cmd)})
	if err != nil {
		_ = logFile.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			log.Warn("closing services", "error", err)
		}
		_ = logFile.Close()
	}

	return svc, cleanup, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
