package generatecmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	generatecmder "github.com/papercomputeco/vignettes/cmd/vignettes/generate"
)

var _ = Describe("generate command", func() {
	var workspace string

	run := func(args ...string) (string, error) {
		cmd := generatecmder.NewGenerateCmd()
		cmd.PersistentFlags().String("config-dir", "", "")

		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append(args,
			"--workspace", workspace,
			"--config-dir", filepath.Join(workspace, ".vignettes"),
			"--provider", "ollama",
			"--model", "llama3.2",
		))

		err := cmd.Execute()
		return out.String(), err
	}

	BeforeEach(func() {
		workspace = GinkgoT().TempDir()
	})

	It("skips the cycle with --if-due when the input folder is idle", func() {
		out, err := run("--if-due")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Not due: no recent activity"))

		entries, err := os.ReadDir(filepath.Join(workspace, "Output", "Vignettes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("rejects an unknown provider before generating", func() {
		cmd := generatecmder.NewGenerateCmd()
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"--workspace", workspace,
			"--config-dir", filepath.Join(workspace, ".vignettes"),
			"--provider", "carrier-pigeon",
		})

		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
