package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

var (
	listVignettesToolName    = "list_vignettes"
	listVignettesDescription = "List generated story vignettes, newest first. Returns names, themes, timestamps and optionally the full markdown."

	gameStateToolName    = "game_state"
	gameStateDescription = "Return the current game state document: party, ship crew, recent locations, combat history and previous story interludes."
)

const defaultListLimit = 10

// ListVignettesInput represents the input arguments for the list_vignettes tool.
type ListVignettesInput struct {
	Limit          int  `json:"limit,omitempty" jsonschema:"maximum number of vignettes to return (default: 10)"`
	IncludeContent bool `json:"include_content,omitempty" jsonschema:"include the full markdown of each vignette"`
}

// VignetteSummary is one listed vignette.
type VignetteSummary struct {
	Name          string `json:"name"`
	Timestamp     string `json:"timestamp"`
	Theme         string `json:"theme"`
	IsInteractive bool   `json:"is_interactive"`
	Content       string `json:"content,omitempty"`
}

// ListVignettesOutput represents the output of the list_vignettes tool.
type ListVignettesOutput struct {
	Vignettes []VignetteSummary `json:"vignettes"`
	Count     int               `json:"count"`
}

// GameStateInput takes no arguments.
type GameStateInput struct{}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) handleListVignettes(_ context.Context, _ *mcp.CallToolRequest, input ListVignettesInput) (*mcp.CallToolResult, ListVignettesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	entries, err := vignette.List(s.config.VignettesDir)
	if err != nil {
		s.config.Logger.Error("listing vignettes", "error", err)
		return toolError("Failed to list vignettes: %v", err), ListVignettesOutput{}, nil
	}

	out := ListVignettesOutput{Vignettes: make([]VignetteSummary, 0, min(limit, len(entries)))}
	for _, e := range entries[:min(limit, len(entries))] {
		v := VignetteSummary{
			Name:          e.Name,
			Timestamp:     e.Timestamp,
			Theme:         e.Theme,
			IsInteractive: e.IsInteractive,
		}
		if input.IncludeContent {
			v.Content = e.Content
		}
		out.Vignettes = append(out.Vignettes, v)
	}
	out.Count = len(out.Vignettes)

	// Clients without structured output support read the TextContent copy.
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return toolError("Failed to serialize results: %v", err), ListVignettesOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, out, nil
}

func (s *Server) handleGameState(_ context.Context, _ *mcp.CallToolRequest, _ GameStateInput) (*mcp.CallToolResult, any, error) {
	doc, err := s.config.GameState.Load()
	if errors.Is(err, gamestate.ErrNotFound) {
		return toolError("No game state document exists yet."), nil, nil
	}
	if err != nil {
		s.config.Logger.Error("loading game state", "error", err)
		return toolError("Failed to load game state: %v", err), nil, nil
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return toolError("Failed to serialize game state: %v", err), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil, nil
}
