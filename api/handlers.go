package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/vignettes/pkg/combat"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
	"github.com/papercomputeco/vignettes/pkg/vignette"
)

// Response is the envelope every /api endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InteractiveRequest is the body of POST /api/generate-interactive.
type InteractiveRequest struct {
	BaseVignette *BaseVignette `json:"baseVignette"`
	UserMessage  string        `json:"userMessage"`
}

// BaseVignette identifies the scene being continued.
type BaseVignette struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SchedulerStatus is returned by GET /api/scheduler.
type SchedulerStatus struct {
	scheduler.Decision
	Stage string `json:"stage"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Response{Error: msg})
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleCombatLogs(c *fiber.Ctx) error {
	entries, err := combat.List(s.config.CombatLogsDir)
	if err != nil {
		s.logger.Error("listing combat summaries", "error", err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, entries)
}

func (s *Server) handleVignettes(c *fiber.Ctx) error {
	entries, err := vignette.List(s.config.VignettesDir)
	if err != nil {
		s.logger.Error("listing vignettes", "error", err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, entries)
}

func (s *Server) handleVignette(c *fiber.Ctx) error {
	entry, found, err := vignette.Find(s.config.VignettesDir, c.Params("name"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	if !found {
		return fail(c, fiber.StatusNotFound, "vignette not found")
	}
	return ok(c, entry)
}

func (s *Server) handleGenerateInteractive(c *fiber.Ctx) error {
	var req InteractiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.BaseVignette == nil || strings.TrimSpace(req.UserMessage) == "" {
		return fail(c, fiber.StatusBadRequest, "Missing baseVignette or userMessage")
	}

	ctx, cancel := s.generateContext()
	defer cancel()

	res, err := s.config.Generator.Interactive(ctx, vignette.BaseVignette{
		Name:    req.BaseVignette.Name,
		Content: req.BaseVignette.Content,
	}, req.UserMessage)
	if err != nil {
		s.logger.Error("interactive generation failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return ok(c, res)
}

func (s *Server) handleTriggerGeneration(c *fiber.Ctx) error {
	ctx, cancel := s.generateContext()
	defer cancel()

	res, err := s.config.Generator.Run(ctx)
	if err != nil {
		s.logger.Error("triggered generation failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to generate vignette: "+err.Error())
	}

	return c.JSON(Response{
		Success: true,
		Message: "Vignette generated successfully",
		Data:    res,
	})
}

func (s *Server) handleState(c *fiber.Ctx) error {
	doc, err := s.config.GameState.Load()
	switch {
	case errors.Is(err, gamestate.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "game state not found")
	case err != nil:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, doc)
}

func (s *Server) handleGameStateSchema(c *fiber.Ctx) error {
	return c.JSON(gamestate.Schema())
}

func (s *Server) handleScheduler(c *fiber.Ctx) error {
	if s.config.Scheduler == nil {
		return fail(c, fiber.StatusServiceUnavailable, "scheduler not running")
	}

	d, err := s.config.Scheduler.Check(time.Now())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, SchedulerStatus{Decision: d, Stage: s.config.Generator.Stage().String()})
}

// generateContext is detached from the request so a client disconnect does
// not abort a half-written cycle.
func (s *Server) generateContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.config.GenerateTimeout)
}
