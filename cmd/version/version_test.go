package versioncmder_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/vignettes/cmd/version"
	"github.com/papercomputeco/vignettes/pkg/utils"
)

var _ = Describe("version", func() {
	var out *bytes.Buffer

	run := func(args ...string) error {
		cmd := versioncmder.NewVersionCmd()
		out = &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("prints the build stamp", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: " + utils.Version))
		Expect(out.String()).To(ContainSubstring("Sha: " + utils.Sha))
	})

	It("prints JSON with --json", func() {
		Expect(run("--json")).To(Succeed())

		var got map[string]string
		Expect(json.Unmarshal(out.Bytes(), &got)).To(Succeed())
		Expect(got).To(HaveKeyWithValue("version", utils.Version))
		Expect(got).To(HaveKey("built_at"))
	})

	It("takes no arguments", func() {
		Expect(run("extra")).To(HaveOccurred())
	})
})
