package vignette

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
)

// BaseVignette is the scene an interactive continuation responds to.
type BaseVignette struct {
	Name    string
	Content string
}

// InteractiveResult is the API view of an interactive continuation.
type InteractiveResult struct {
	Name          string `json:"name"`
	Timestamp     string `json:"timestamp"`
	Theme         string `json:"theme"`
	IsInteractive bool   `json:"isInteractive"`
	UserPrompt    string `json:"userPrompt"`
	Content       string `json:"content"`
	Summary       string `json:"summary"`
	FilePath      string `json:"file_path"`
}

// Interactive writes a continuation of base that answers message. It reads
// the game state and crew details but never changes them, the narrative
// history or the execution marker.
func (g *Generator) Interactive(ctx context.Context, base BaseVignette, message string) (*InteractiveResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("interactive generation needs a message")
	}

	started := g.now()
	log := g.logger.With("base", base.Name)
	log.Info("generating interactive vignette")

	doc, err := g.config.GameState.Load()
	switch {
	case errors.Is(err, gamestate.ErrNotFound):
		log.Warn("game state missing, continuing with an empty one")
		doc = gamestate.New()
	case err != nil:
		return nil, fmt.Errorf("loading game state: %w", err)
	}

	data := newPromptData(doc, g.config.Crew.Load(), interactiveCrewChars, interactiveInterludes)
	data.UserMessage = message
	data.BaseContent = truncate(base.Content, interactiveBaseChars) + "..."

	content, err := g.complete(ctx, interactiveTmpl, data, interactiveSystemPrompt, g.config.MaxTokensVignette, g.config.Temperature)
	if err != nil {
		return nil, fmt.Errorf("generating interactive vignette: %w", err)
	}

	data.Vignette = content
	summary, err := g.complete(ctx, interactiveSummaryTmpl, data, interactiveSummarySys, g.config.MaxTokensSummary, summaryTemperature)
	if err != nil {
		return nil, fmt.Errorf("summarizing interactive vignette: %w", err)
	}

	generated := g.now()
	ts := generated.Format(FileTimeLayout)
	path := filepath.Join(g.config.OutputDir, "interactive_vignette_"+ts+".md")

	md := Markdown("Interactive Story Vignette - "+ts, []MetaField{
		{"Theme", interactiveTheme},
		{"Generated", generated.Format(time.RFC3339)},
		{"Party Members", strings.Join(doc.PartyContext.ActiveMembers, ", ")},
		{"User Prompt", fmt.Sprintf("%q", message)},
		{"Based on", base.Name},
		{"LLM Model", g.Model()},
	}, content)
	if err := writeArtifact(path, md); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(g.config.SummariesDir, "interactive_"+ts+"_summary.txt")
	if err := writeArtifact(summaryPath, summary+"\n"); err != nil {
		return nil, err
	}

	log.Info("interactive vignette written", "file", filepath.Base(path))
	g.publish(ctx, &Result{
		ID:           uuid.NewString(),
		GeneratedAt:  generated,
		Model:        g.Model(),
		VignettePath: path,
		SummaryPath:  summaryPath,
	}, started, true)

	return &InteractiveResult{
		Name:          filepath.Base(path),
		Timestamp:     generated.Format(time.RFC3339),
		Theme:         interactiveTheme,
		IsInteractive: true,
		UserPrompt:    message,
		Content:       md,
		Summary:       summary,
		FilePath:      path,
	}, nil
}
