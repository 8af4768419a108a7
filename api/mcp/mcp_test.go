package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/api/mcp"
	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	vignetteslogger "github.com/papercomputeco/vignettes/pkg/logger"
)

var _ = Describe("MCP Server", func() {
	var (
		dir       string
		statePath string
		store     *gamestate.Store
		server    *mcp.Server
		session   *sdk.ClientSession
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		statePath = filepath.Join(dir, "gameState.json")
		store = gamestate.NewStore(statePath, docstore.NewLocker(), vignetteslogger.Nop())

		Expect(os.WriteFile(filepath.Join(dir, "vignette_a.md"),
			[]byte("# A\n\n- **Theme:** Betrayal\n\n## Vignette\n\nText"), 0o644)).To(Succeed())

		var err error
		server, err = mcp.NewServer(mcp.Config{
			VignettesDir: dir,
			GameState:    store,
			Logger:       vignetteslogger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		serverTransport, clientTransport := sdk.NewInMemoryTransports()
		_, err = server.MCPServer().Connect(ctx, serverTransport, nil)
		Expect(err).NotTo(HaveOccurred())

		client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		session, err = client.Connect(ctx, clientTransport, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(session.Close)
	})

	textOf := func(res *sdk.CallToolResult) string {
		Expect(res.Content).To(HaveLen(1))
		text, ok := res.Content[0].(*sdk.TextContent)
		Expect(ok).To(BeTrue())
		return text.Text
	}

	Describe("NewServer", func() {
		It("returns an error when the game state store is nil", func() {
			_, err := mcp.NewServer(mcp.Config{VignettesDir: dir, Logger: vignetteslogger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("game state store is required")))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{VignettesDir: dir, GameState: store})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("returns an error without a vignettes directory", func() {
			_, err := mcp.NewServer(mcp.Config{GameState: store, Logger: vignetteslogger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("vignettes directory is required")))
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	It("registers both tools", func() {
		tools, err := session.ListTools(ctx, &sdk.ListToolsParams{})
		Expect(err).NotTo(HaveOccurred())

		names := make([]string, 0, len(tools.Tools))
		for _, t := range tools.Tools {
			names = append(names, t.Name)
		}
		Expect(names).To(ConsistOf("list_vignettes", "game_state"))
	})

	It("lists vignettes", func() {
		res, err := session.CallTool(ctx, &sdk.CallToolParams{
			Name:      "list_vignettes",
			Arguments: map[string]any{"include_content": true},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.IsError).To(BeFalse())

		var out mcp.ListVignettesOutput
		Expect(json.Unmarshal([]byte(textOf(res)), &out)).To(Succeed())
		Expect(out.Count).To(Equal(1))
		Expect(out.Vignettes[0].Name).To(Equal("vignette_a.md"))
		Expect(out.Vignettes[0].Theme).To(Equal("Betrayal"))
		Expect(out.Vignettes[0].Content).To(ContainSubstring("## Vignette"))
	})

	It("reports a missing game state as a tool error", func() {
		res, err := session.CallTool(ctx, &sdk.CallToolParams{Name: "game_state", Arguments: map[string]any{}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.IsError).To(BeTrue())
	})

	It("returns the game state document", func() {
		Expect(os.WriteFile(statePath, []byte(`{"party_context": {"active_members": ["Eder"]}}`), 0o644)).To(Succeed())

		res, err := session.CallTool(ctx, &sdk.CallToolParams{Name: "game_state", Arguments: map[string]any{}})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.IsError).To(BeFalse())
		Expect(textOf(res)).To(ContainSubstring(`"Eder"`))
	})
})
