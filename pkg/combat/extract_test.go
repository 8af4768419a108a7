package combat_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/combat"
	"github.com/papercomputeco/vignettes/pkg/logger"
)

const summaryFile = `Combat Log Summary for: CombatLogsNeketaka - 2025-03-01 10-00-00.log
Generated: 2025-03-01 10:05:00
==================================================

## 1. Executive Summary
The party ambushed a Young Drake near the docks and won.

## 2. Key Events & Turning Points
- Drake breath hit three members.
`

var _ = Describe("ExtractExecutiveSummary", func() {
	It("returns the section up to the next heading", func() {
		text, ok := combat.ExtractExecutiveSummary(summaryFile)
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal("The party ambushed a Young Drake near the docks and won."))
	})

	It("runs to the end of text when no heading follows", func() {
		text, ok := combat.ExtractExecutiveSummary("## 1. Executive Summary\n  Quick skirmish.\n")
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal("Quick skirmish."))
	})

	It("reports a missing section", func() {
		_, ok := combat.ExtractExecutiveSummary("**1. Executive Summary:** bold, not a heading")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Extractor", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, body string, mod time.Time) {
		p := filepath.Join(dir, name)
		Expect(os.WriteFile(p, []byte(body), 0o644)).To(Succeed())
		Expect(os.Chtimes(p, mod, mod)).To(Succeed())
	}

	It("reports nothing for an empty or missing folder", func() {
		_, ok := combat.NewExtractor(dir, logger.Nop()).Latest()
		Expect(ok).To(BeFalse())

		_, ok = combat.NewExtractor(filepath.Join(dir, "missing"), logger.Nop()).Latest()
		Expect(ok).To(BeFalse())
	})

	It("reads the most recently modified summary", func() {
		base := time.Now().Add(-time.Hour)
		write("old_summary.txt", "## 1. Executive Summary\nOld fight.\n", base)
		write("new_summary.txt", summaryFile, base.Add(time.Minute))
		write("notes.txt", "## 1. Executive Summary\nNot a summary file.\n", base.Add(2*time.Minute))

		s, ok := combat.NewExtractor(dir, logger.Nop()).Latest()
		Expect(ok).To(BeTrue())
		Expect(s.Source).To(Equal("new_summary.txt"))
		Expect(s.Text).To(HavePrefix("The party ambushed"))
	})

	It("treats a summary without the section as no update", func() {
		write("x_summary.txt", "freeform text", time.Now())
		_, ok := combat.NewExtractor(dir, logger.Nop()).Latest()
		Expect(ok).To(BeFalse())
	})
})
