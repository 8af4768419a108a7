// Package initcmder provides the init command for initializing a local
// .vignettes directory and the workspace layout in the current working
// directory.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/crew"
	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/dotdir"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/theme"
)

const (
	configFile = "config.toml"

	remoteTimeout = 30 * time.Second
)

const initLongDesc string = `Initialize a new .vignettes/ directory and workspace in the current
working directory.

Creates a local .vignettes/ directory holding config.toml, which takes
precedence over the default ~/.vignettes/ directory. The workspace folders
(Input, Processing, Output, logs, Config) are created next to it together with
an empty game state, an empty crew details document and a starter theme
catalog. Existing documents are never overwritten.

Use --preset to start from a provider preset or from a config.toml at a URL.
Re-running init with --preset replaces config.toml.

Available presets: openai, anthropic, ollama, gemini

Examples:
  vignettes init
  vignettes init --preset ollama
  vignettes init --preset https://example.com/vignettes/config.toml`

const initShortDesc string = "Initialize a local .vignettes/ directory and workspace"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Provider preset name or URL of a config.toml")

	return cmd
}

func runInit(out io.Writer, preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dotdir.DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .vignettes directory: %w", err)
	}

	cfgPath := filepath.Join(dir, configFile)
	cfg, wrote, err := writeConfig(cfgPath, preset)
	if err != nil {
		return err
	}

	if wrote {
		fmt.Fprintf(out, "\n  %s Wrote %s\n", cliui.SuccessMark, cliui.DimStyle.Render(cfgPath))
	} else {
		fmt.Fprintf(out, "\n  %s Keeping %s\n", cliui.DimStyle.Render("●"), cliui.DimStyle.Render(cfgPath))
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	if err := layout.EnsureDirs(); err != nil {
		return err
	}
	fmt.Fprintf(out, "  %s Workspace %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(layout.Workspace))

	if err := seedDocuments(out, layout); err != nil {
		return err
	}

	fmt.Fprintln(out)
	return nil
}

// writeConfig writes the preset config, or the defaults when no config
// exists yet. An existing config without a preset is loaded as is.
func writeConfig(path, preset string) (*config.Config, bool, error) {
	if preset == "" {
		data, err := os.ReadFile(path)
		if err == nil {
			cfg, err := config.ParseConfigTOML(data)
			if err != nil {
				return nil, false, err
			}
			config.ApplyDefaults(cfg)
			return cfg, false, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("reading config: %w", err)
		}
	}

	var data []byte
	switch {
	case strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://"):
		remote, err := fetchRemoteConfig(preset)
		if err != nil {
			return nil, false, err
		}
		if _, err := config.ParseConfigTOML(remote); err != nil {
			return nil, false, err
		}
		data = remote

	default:
		cfg := config.NewDefaultConfig()
		if preset != "" {
			var err error
			cfg, err = config.PresetConfig(preset)
			if err != nil {
				return nil, false, err
			}
		}
		encoded, err := config.EncodeTOML(cfg)
		if err != nil {
			return nil, false, err
		}
		data = encoded
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, false, fmt.Errorf("writing config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, false, err
	}
	config.ApplyDefaults(cfg)
	return cfg, true, nil
}

func fetchRemoteConfig(url string) ([]byte, error) {
	client := &http.Client{Timeout: remoteTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}
	return data, nil
}

func seedDocuments(out io.Writer, layout config.Layout) error {
	locker := docstore.NewLocker()
	log := logger.Nop()

	created, err := gamestate.NewStore(layout.GameState, locker, log).Init()
	if err != nil {
		return err
	}
	report(out, created, layout.GameState)

	created = false
	if _, err := os.Stat(layout.CrewDetails); errors.Is(err, os.ErrNotExist) {
		if err := crew.NewStore(layout.CrewDetails, locker, log).Save(crew.Empty); err != nil {
			return err
		}
		created = true
	}
	report(out, created, layout.CrewDetails)

	created, err = theme.WriteStarter(layout.Themes)
	if err != nil {
		return err
	}
	report(out, created, layout.Themes)

	return nil
}

func report(out io.Writer, created bool, path string) {
	if created {
		fmt.Fprintf(out, "  %s Created %s\n", cliui.SuccessMark, cliui.DimStyle.Render(path))
		return
	}
	fmt.Fprintf(out, "  %s Keeping %s\n", cliui.DimStyle.Render("●"), cliui.DimStyle.Render(path))
}
