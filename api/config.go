// Package api provides the HTTP API server for browsing vignettes and combat
// summaries and for driving generation from a web client.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

// Generator runs forced and interactive generation.
type Generator interface {
	Run(ctx context.Context) (*vignette.Result, error)
	Interactive(ctx context.Context, base vignette.BaseVignette, message string) (*vignette.InteractiveResult, error)
	Stage() vignette.Stage
}

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":5000")
	ListenAddr string

	// VignettesDir and CombatLogsDir are read on every listing request.
	VignettesDir  string
	CombatLogsDir string

	Generator Generator
	GameState *gamestate.Store

	// Scheduler is optional; without it /api/scheduler reports 503.
	Scheduler *scheduler.Scheduler

	// MCP is mounted at /mcp when set.
	MCP http.Handler

	// GenerateTimeout bounds request driven generation (defaults to 10 minutes).
	GenerateTimeout time.Duration
}
