// Package vignette runs the generation cycle: refresh the game state, write
// a prose scene, compress it into a reusable summary and let the model
// update the crew details.
package vignette

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/vignettes/pkg/combat"
	"github.com/papercomputeco/vignettes/pkg/crew"
	"github.com/papercomputeco/vignettes/pkg/eventstream"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/llm"
	"github.com/papercomputeco/vignettes/pkg/location"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
	"github.com/papercomputeco/vignettes/pkg/theme"
)

const (
	summaryTemperature = 0.3
	crewTemperature    = 0.1
	crewMaxTokensCap   = 4000

	component = "generator"
)

// Config wires the generator to its documents and the completion service.
type Config struct {
	Completer llm.Completer
	GameState *gamestate.Store
	Crew      *crew.Store
	Combat    *combat.Extractor
	Locations *location.HistoryFiles
	Marker    *scheduler.MarkerStore
	Publisher eventstream.Publisher

	ThemesPath       string
	RecentQuestsPath string
	OutputDir        string
	SummariesDir     string

	Temperature       float64
	MaxTokensVignette int
	MaxTokensSummary  int
	MaxTokensCrew     int
	Timeout           time.Duration

	Logger *slog.Logger

	// Now and Rand default to the wall clock and a randomly seeded source.
	Now  func() time.Time
	Rand *rand.Rand
}

// Result describes the artifacts of one successful cycle.
type Result struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"generated_at"`
	Theme        string    `json:"theme"`
	Model        string    `json:"model"`
	Vignette     string    `json:"vignette"`
	Summary      string    `json:"summary"`
	VignettePath string    `json:"vignette_path"`
	SummaryPath  string    `json:"summary_path"`
	CrewUpdated  bool      `json:"crew_updated"`
}

// Generator runs generation cycles one at a time.
type Generator struct {
	config *Config
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	rngMu sync.Mutex
	rng   *rand.Rand
	stage atomic.Int32
}

func NewGenerator(c *Config) (*Generator, error) {
	switch {
	case c.Completer == nil:
		return nil, errors.New("generator needs a completer")
	case c.GameState == nil || c.Crew == nil || c.Marker == nil:
		return nil, errors.New("generator needs game state, crew and marker stores")
	case c.OutputDir == "" || c.SummariesDir == "":
		return nil, errors.New("generator needs output and summaries directories")
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}
	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Generator{config: c, logger: c.Logger, now: now, rng: rng}, nil
}

// Stage reports what the running cycle is doing.
func (g *Generator) Stage() Stage {
	return Stage(g.stage.Load())
}

func (g *Generator) setStage(s Stage) {
	g.stage.Store(int32(s))
}

// Model returns the model recorded in artifact metadata.
func (g *Generator) Model() string {
	return g.config.Completer.Model()
}

// Run executes one cycle. Prose or summary failures abort the cycle before
// anything is written; crew update failures keep the current crew details.
// A concurrent call waits for the running cycle to finish.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.setStage(Idle)

	started := g.now()
	res := &Result{ID: uuid.NewString(), Model: g.Model()}
	log := g.logger.With("cycle_id", res.ID)
	log.Info("starting vignette generation cycle")

	g.setStage(LoadingState)
	doc, err := g.refreshState(log)
	if err != nil {
		return nil, fmt.Errorf("loading game state: %w", err)
	}

	crewDoc := g.config.Crew.Load()
	catalog := theme.LoadOrEmpty(g.config.ThemesPath, log)
	quests := loadRecentQuests(g.config.RecentQuestsPath, log)

	g.rngMu.Lock()
	res.Theme = catalog.Menu(g.rng)
	g.rngMu.Unlock()

	data := newPromptData(doc, crewDoc, crewContextChars, gamestate.InterludesCap)
	data.RecentQuests = quests
	data.Themes = res.Theme

	g.setStage(GeneratingProse)
	res.Vignette, err = g.complete(ctx, vignetteTmpl, data, proseSystemPrompt, g.config.MaxTokensVignette, g.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("generating vignette: %w", err)
	}
	log.Info("generated vignette", "chars", len(res.Vignette))

	g.setStage(Summarizing)
	data.Vignette = res.Vignette
	res.Summary, err = g.complete(ctx, summaryTmpl, data, summarySystemPrompt, g.config.MaxTokensSummary, summaryTemperature)
	if err != nil {
		return nil, fmt.Errorf("summarizing vignette: %w", err)
	}
	log.Info("created narrative summary", "chars", len(res.Summary))

	g.setStage(UpdatingCrew)
	updatedCrew, changed := g.updateCrew(ctx, data, crewDoc, log)
	res.CrewUpdated = changed

	g.setStage(Persisting)
	res.GeneratedAt = g.now()
	if err := g.persist(res, doc, updatedCrew, started); err != nil {
		return nil, err
	}

	log.Info("vignette generation cycle completed",
		"vignette", filepath.Base(res.VignettePath),
		"crew_updated", res.CrewUpdated,
		"duration", g.now().Sub(started),
	)
	g.publish(ctx, res, started, false)

	return res, nil
}

// refreshState folds the newest combat summary and location discoveries
// into the game state and persists it.
func (g *Generator) refreshState(log *slog.Logger) (*gamestate.Document, error) {
	var names []string
	if g.config.Locations != nil {
		latest, err := g.config.Locations.Latest()
		if err != nil {
			log.Warn("reading latest locations", "error", err)
		}
		names = latest
	}

	var (
		summary combat.Summary
		found   bool
	)
	if g.config.Combat != nil {
		summary, found = g.config.Combat.Latest()
	}

	return g.config.GameState.Update(func(doc *gamestate.Document) error {
		if found && doc.RecordCombatSummary(summary.Text, summary.Source, g.now()) {
			log.Info("updated latest combat summary",
				"source", summary.Source,
				"previous_fights", len(doc.CombatLog.PreviousFights),
			)
		}
		if inserted := doc.PushRecentLocations(names); len(inserted) > 0 {
			log.Info("added recent locations", "locations", inserted)
		}
		return nil
	})
}

func (g *Generator) complete(ctx context.Context, tmpl *template.Template, data promptData, system string, maxTokens int, temperature float64) (string, error) {
	prompt, err := render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}

	text, err := llm.CompleteText(ctx, g.config.Completer, &llm.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Timeout:     g.config.Timeout,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// updateCrew asks for revised crew details. Any failure keeps current.
func (g *Generator) updateCrew(ctx context.Context, data promptData, current crew.Document, log *slog.Logger) (crew.Document, bool) {
	maxTokens := min(g.config.MaxTokensCrew, crewMaxTokensCap)
	if maxTokens <= 0 {
		maxTokens = crewMaxTokensCap
	}

	text, err := g.complete(ctx, crewTmpl, data, crewSystemPrompt, maxTokens, crewTemperature)
	if err != nil {
		log.Warn("crew update failed, keeping current details", "error", err)
		return current, false
	}

	updated, err := crew.Validate(text)
	if err != nil {
		log.Warn("crew update unusable, keeping current details", "error", err, "response_chars", len(text))
		return current, false
	}

	log.Info("updated crew details")
	return updated, true
}

// persist writes the artifacts and documents. The marker records started so
// activity during a long cycle still counts toward the next trigger.
func (g *Generator) persist(res *Result, doc *gamestate.Document, crewDoc crew.Document, started time.Time) error {
	ts := res.GeneratedAt.Format(FileTimeLayout)

	res.VignettePath = filepath.Join(g.config.OutputDir, "vignette_"+ts+".md")
	md := Markdown("Story Vignette - "+ts, []MetaField{
		{"Theme", res.Theme},
		{"Generated", res.GeneratedAt.Format(time.RFC3339)},
		{"Party Members", strings.Join(doc.PartyContext.ActiveMembers, ", ")},
		{"LLM Model", res.Model},
	}, res.Vignette)
	if err := writeArtifact(res.VignettePath, md); err != nil {
		return err
	}

	res.SummaryPath = filepath.Join(g.config.SummariesDir, "narrative_"+ts+"_summary.txt")
	if err := writeArtifact(res.SummaryPath, summaryText("Narrative Summary - "+ts, res.Summary)); err != nil {
		return err
	}

	if _, err := g.config.GameState.Update(func(d *gamestate.Document) error {
		d.PushInterlude(res.Summary)
		return nil
	}); err != nil {
		return fmt.Errorf("recording narrative summary: %w", err)
	}

	if err := g.config.Crew.Save(crewDoc); err != nil {
		return err
	}

	return g.config.Marker.Record(started)
}

func (g *Generator) publish(ctx context.Context, res *Result, started time.Time, interactive bool) {
	if g.config.Publisher == nil {
		return
	}

	event := eventstream.NewEvent(eventstream.EventTypeCycleCompleted, component, res.GeneratedAt)
	event.Cycle = &eventstream.CycleMeta{
		CycleID:      res.ID,
		VignettePath: res.VignettePath,
		SummaryPath:  res.SummaryPath,
		Model:        res.Model,
		CrewUpdated:  res.CrewUpdated,
		DurationMs:   g.now().Sub(started).Milliseconds(),
		Interactive:  interactive,
	}

	if err := g.config.Publisher.Publish(ctx, event); err != nil {
		g.logger.Warn("publishing cycle event", "error", err)
	}
}

func loadRecentQuests(path string, log *slog.Logger) string {
	if path == "" {
		return defaultRecentQuestsNotes
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("recent quests note not found", "path", path)
		} else {
			log.Warn("reading recent quests note", "path", path, "error", err)
		}
		return defaultRecentQuestsNotes
	}

	quests := strings.TrimSpace(string(data))
	if quests == "" {
		return defaultRecentQuestsNotes
	}
	return quests
}
