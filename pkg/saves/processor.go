// Package saves runs the save processing pipeline: unpack a game save, find
// the entries it added since the last pass and turn them into location
// history, game state updates and combat summaries.
package saves

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/vignettes/pkg/combat"
	"github.com/papercomputeco/vignettes/pkg/eventstream"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/location"
	"github.com/papercomputeco/vignettes/pkg/manifest"
)

const (
	archiveTimeLayout = "20060102_150405"
	component         = "saves"
)

// Config wires a Processor. Summarizer and Publisher are optional.
type Config struct {
	SavesDir      string
	CombatLogsDir string

	Manifest   *manifest.Store
	Classifier *location.Classifier
	Locations  *location.HistoryFiles
	GameState  *gamestate.Store
	Summarizer *combat.Summarizer
	Publisher  eventstream.Publisher

	Logger *slog.Logger
	Now    func() time.Time
}

// Outcome summarizes one processing pass.
type Outcome struct {
	Save            string   `json:"save"`
	Files           int      `json:"files"`
	NewEntries      []string `json:"new_entries"`
	Locations       []string `json:"locations"`
	CopiedLogs      []string `json:"copied_logs"`
	CombatSummaries []string `json:"combat_summaries"`
}

// Processor handles one save at a time.
type Processor struct {
	config *Config
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewProcessor(c *Config) (*Processor, error) {
	switch {
	case c.SavesDir == "":
		return nil, errors.New("processor needs a saves directory")
	case c.Manifest == nil || c.Classifier == nil || c.Locations == nil || c.GameState == nil:
		return nil, errors.New("processor needs manifest, classifier, location history and game state")
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{config: c, logger: c.Logger, now: now}, nil
}

// Process runs the pipeline for the save at savePath. Temporary copies are
// removed when the pass ends, whatever its outcome.
func (p *Processor) Process(ctx context.Context, savePath string) (*Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.logger.With("save", filepath.Base(savePath))
	log.Info("processing save file")

	zipPath := filepath.Join(p.config.SavesDir, "save_"+p.now().Format(archiveTimeLayout)+".zip")
	if err := copyFile(savePath, zipPath); err != nil {
		return nil, fmt.Errorf("copying save: %w", err)
	}
	extractDir := strings.TrimSuffix(zipPath, filepath.Ext(zipPath))
	defer p.cleanup(log, zipPath, extractDir)

	if err := Extract(zipPath, extractDir); err != nil {
		return nil, err
	}

	files, err := ListFiles(extractDir)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Save: savePath, Files: len(files)}
	log.Info("extracted save", "files", len(files))

	if p.config.CombatLogsDir != "" {
		copied, err := combat.CopyLogs(extractDir, p.config.CombatLogsDir)
		if err != nil {
			log.Warn("copying combat logs", "error", err)
		}
		for _, c := range copied {
			out.CopiedLogs = append(out.CopiedLogs, filepath.Base(c))
		}
		if len(copied) > 0 {
			log.Info("copied combat logs", "count", len(copied))
		}
	}

	diff, err := p.config.Manifest.Reconcile(files)
	if err != nil {
		return nil, err
	}
	if len(diff.New) == 0 {
		log.Info("no new files found")
		return out, nil
	}
	out.NewEntries = diff.New
	log.Info("found new files", "count", len(diff.New))

	out.Locations = location.NormalizeAll(p.config.Classifier.Classify(ctx, diff.New))
	if len(out.Locations) > 0 {
		p.recordLocations(log, out.Locations)
	}

	if p.config.Summarizer != nil {
		out.CombatSummaries, err = p.config.Summarizer.SummarizePending(ctx)
		if err != nil {
			log.Warn("summarizing combat logs", "error", err)
		}
	}

	if len(out.Locations) > 0 {
		p.publish(ctx, log, out)
	}

	log.Info("save processing complete", "locations", len(out.Locations))

	return out, nil
}

func (p *Processor) recordLocations(log *slog.Logger, names []string) {
	if _, err := p.config.Locations.Record(names); err != nil {
		log.Warn("recording location files", "error", err)
	}

	_, err := p.config.GameState.Update(func(doc *gamestate.Document) error {
		if inserted := doc.PushRecentLocations(names); len(inserted) > 0 {
			log.Info("added recent locations to game state", "locations", inserted)
		}
		return nil
	})
	switch {
	case errors.Is(err, gamestate.ErrNotFound):
		log.Warn("game state not found, recent locations not recorded", "path", p.config.GameState.Path())
	case err != nil:
		log.Warn("updating game state with recent locations", "error", err)
	}
}

func (p *Processor) publish(ctx context.Context, log *slog.Logger, out *Outcome) {
	if p.config.Publisher == nil {
		return
	}
	event := eventstream.NewEvent(eventstream.EventTypeLocationsDiscovered, component, p.now())
	event.Locations = &eventstream.LocationsMeta{
		Save:      filepath.Base(out.Save),
		Locations: out.Locations,
	}
	if err := p.config.Publisher.Publish(ctx, event); err != nil {
		log.Warn("publishing locations event", "error", err)
	}
}

func (p *Processor) cleanup(log *slog.Logger, zipPath, extractDir string) {
	if err := os.RemoveAll(extractDir); err != nil {
		log.Warn("removing extracted save", "error", err)
	}
	if err := os.Remove(zipPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("removing save copy", "error", err)
	}
}

// Startup compacts location history files and summarizes combat logs that
// arrived while nothing was running.
func (p *Processor) Startup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.config.Locations.Compact(); err != nil {
		p.logger.Warn("compacting location files", "error", err)
	}

	if p.config.Summarizer == nil {
		return nil
	}
	written, err := p.config.Summarizer.SummarizePending(ctx)
	if err != nil {
		return fmt.Errorf("summarizing pending combat logs: %w", err)
	}
	if len(written) > 0 {
		p.logger.Info("summarized pending combat logs", "count", len(written))
	}
	return nil
}
