package scheduler_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/scheduler"
)

var _ = Describe("ShouldGenerate", func() {
	var (
		now      time.Time
		interval time.Duration
		last     time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)
		interval = 15 * time.Minute
		last = now.Add(-20 * time.Minute)
	})

	It("fires when the interval elapsed and input changed recently", func() {
		Expect(scheduler.ShouldGenerate(last, interval, now, now.Add(-2*time.Minute))).To(BeTrue())
	})

	It("waits when nothing changed within the interval", func() {
		Expect(scheduler.ShouldGenerate(last, interval, now, now.Add(-30*time.Minute))).To(BeFalse())
	})

	It("waits when the interval has not elapsed", func() {
		Expect(scheduler.ShouldGenerate(now.Add(-10*time.Minute), interval, now, now.Add(-time.Minute))).To(BeFalse())
	})

	It("treats exactly one interval as elapsed", func() {
		Expect(scheduler.ShouldGenerate(now.Add(-interval), interval, now, now.Add(-time.Second))).To(BeTrue())
	})

	It("requires the modification to be strictly inside the window", func() {
		Expect(scheduler.ShouldGenerate(last, interval, now, now.Add(-interval))).To(BeFalse())
	})

	It("treats a missing marker as always old enough", func() {
		Expect(scheduler.ShouldGenerate(time.Time{}, interval, now, now.Add(-time.Minute))).To(BeTrue())
		Expect(scheduler.ShouldGenerate(time.Time{}, interval, now, time.Time{})).To(BeFalse())
	})
})

var _ = Describe("NewestModification", func() {
	It("finds the newest file anywhere under the root", func() {
		root := GinkgoT().TempDir()
		Expect(os.MkdirAll(filepath.Join(root, "Saves", "deep"), 0o755)).To(Succeed())

		base := time.Now().Add(-time.Hour).Truncate(time.Second)
		files := map[string]time.Time{
			"a.txt":                 base,
			"Saves/deep/b.savegame": base.Add(10 * time.Minute),
			"Saves/c.json":          base.Add(5 * time.Minute),
		}
		for name, mod := range files {
			p := filepath.Join(root, name)
			Expect(os.WriteFile(p, []byte("x"), 0o644)).To(Succeed())
			Expect(os.Chtimes(p, mod, mod)).To(Succeed())
		}

		newest, err := scheduler.NewestModification(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(newest).To(BeTemporally("==", base.Add(10*time.Minute)))
	})

	It("returns the zero time for a missing root", func() {
		newest, err := scheduler.NewestModification(filepath.Join(GinkgoT().TempDir(), "missing"))
		Expect(err).NotTo(HaveOccurred())
		Expect(newest.IsZero()).To(BeTrue())
	})
})
