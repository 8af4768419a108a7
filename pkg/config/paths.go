package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Layout is the resolved, absolute workspace layout.
type Layout struct {
	Workspace          string
	SaveFolder         string
	Input              string
	Saves              string
	CombatLogs         string
	Processing         string
	NarrativeSummaries string
	Output             string
	Logs               string
	GameState          string
	CrewDetails        string
	Themes             string
	RecentQuests       string
	Marker             string
	Manifest           string
}

// Layout resolves every configured path against the workspace root.
func (c *Config) Layout() (Layout, error) {
	root := c.Paths.Workspace
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Layout{}, fmt.Errorf("getting current directory: %w", err)
		}
		root = cwd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolving workspace: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	processing := resolve(c.Paths.Processing)

	return Layout{
		Workspace:          root,
		SaveFolder:         resolve(c.Paths.SaveFolder),
		Input:              resolve(c.Paths.Input),
		Saves:              resolve(c.Paths.Saves),
		CombatLogs:         resolve(c.Paths.CombatLogs),
		Processing:         processing,
		NarrativeSummaries: filepath.Join(processing, "narrative_summaries"),
		Output:             resolve(c.Paths.Output),
		Logs:               resolve(c.Paths.Logs),
		GameState:          resolve(c.Paths.GameState),
		CrewDetails:        resolve(c.Paths.CrewDetails),
		Themes:             resolve(c.Paths.Themes),
		RecentQuests:       resolve(c.Paths.RecentQuests),
		Marker:             resolve(c.Paths.Marker),
		Manifest:           resolve(c.Paths.Manifest),
	}, nil
}

// EnsureDirs creates every directory the services write into.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{
		l.Input,
		l.Saves,
		l.CombatLogs,
		l.NarrativeSummaries,
		l.Output,
		l.Logs,
		filepath.Dir(l.Marker),
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// Timeout returns the per-call completion timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// Interval returns the minimum time between generation cycles.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// PollInterval returns how often the scheduler loop evaluates its trigger.
func (c *Config) PollInterval() time.Duration {
	if c.Scheduler.PollSeconds == 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.Scheduler.PollSeconds) * time.Second
}

// Cooldown returns how long the watcher ignores repeat events for one save.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Watcher.CooldownSeconds) * time.Second
}

// Settle returns how long the watcher waits for a save to finish writing.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.Watcher.SettleSeconds) * time.Second
}
