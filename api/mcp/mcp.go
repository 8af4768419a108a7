// Package mcp serves the vignette archive and the game state to MCP clients
// over streamable HTTP. The API mounts Handler at /mcp.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/utils"
)

type Config struct {
	// VignettesDir is listed by list_vignettes.
	VignettesDir string

	// GameState backs game_state.
	GameState *gamestate.Store

	Logger *slog.Logger
}

func (c Config) validate() error {
	switch {
	case c.VignettesDir == "":
		return errors.New("vignettes directory is required")
	case c.GameState == nil:
		return errors.New("game state store is required")
	case c.Logger == nil:
		return errors.New("logger is required")
	}
	return nil
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer registers the list_vignettes and game_state tools.
func NewServer(c Config) (*Server, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	s := &Server{config: c}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: "vignettes", Version: utils.Version}, &mcp.ServerOptions{})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        listVignettesToolName,
		Description: listVignettesDescription,
	}, s.handleListVignettes)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        gameStateToolName,
		Description: gameStateDescription,
	}, s.handleGameState)

	// Tools only read files, so no session state is kept between requests.
	s.handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{Stateless: true})

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
