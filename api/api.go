package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const defaultGenerateTimeout = 10 * time.Minute

// Server is the API server for the vignette service
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. Components are injected so the API can
// share them with the watcher and the scheduler in the same process.
func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	if config.Generator == nil {
		return nil, errors.New("generator is required")
	}
	if config.GameState == nil {
		return nil, errors.New("game state store is required")
	}
	if config.GenerateTimeout <= 0 {
		config.GenerateTimeout = defaultGenerateTimeout
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Generation can outlast fiber's defaults.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: config.GenerateTimeout + 30*time.Second,
	})
	app.Use(cors.New())

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	v := app.Group("/api")
	v.Get("/combat-logs", s.handleCombatLogs)
	v.Get("/vignettes", s.handleVignettes)
	v.Get("/vignettes/:name", s.handleVignette)
	v.Post("/generate-interactive", s.handleGenerateInteractive)
	v.Post("/trigger-generation", s.handleTriggerGeneration)
	v.Get("/state", s.handleState)
	v.Get("/schema/gamestate", s.handleGameStateSchema)
	v.Get("/scheduler", s.handleScheduler)

	if config.MCP != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCP))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
