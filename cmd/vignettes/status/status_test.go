package statuscmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statuscmder "github.com/papercomputeco/vignettes/cmd/vignettes/status"
)

var _ = Describe("status command", func() {
	var workspace string

	run := func() (string, error) {
		cmd := statuscmder.NewStatusCmd()
		cmd.PersistentFlags().String("config-dir", "", "")

		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--workspace", workspace, "--config-dir", filepath.Join(workspace, ".vignettes")})

		err := cmd.Execute()
		return out.String(), err
	}

	BeforeEach(func() {
		workspace = GinkgoT().TempDir()
	})

	It("describes an empty workspace", func() {
		out, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(workspace))
		Expect(out).To(ContainSubstring("never"))
		Expect(out).To(ContainSubstring("needs recent input activity"))
		Expect(out).To(ContainSubstring("no game state, run vignettes init"))
	})

	It("reports a due cycle and the game state", func() {
		input := filepath.Join(workspace, "Input")
		Expect(os.MkdirAll(input, 0o755)).To(Succeed())
		doc := `{
  "party_context": {"active_members": ["Astarion", "Karlach"]},
  "plot_state": {"recent_locations": ["Baldur's Gate", "Wyrm's Rock"]},
  "combat_log": {"latest_executive_summary": "The party routed the Flaming Fist patrol."},
  "narrative_log": {"previous_interludes": ["first"]}
}`
		Expect(os.WriteFile(filepath.Join(input, "gameState.json"), []byte(doc), 0o644)).To(Succeed())

		out, err := run()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("due now"))
		Expect(out).To(ContainSubstring("2 active"))
		Expect(out).To(ContainSubstring("Wyrm's Rock"))
		Expect(out).To(ContainSubstring("Flaming Fist"))
	})
})
