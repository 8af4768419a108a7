package manifest_test

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/manifest"
)

var _ = Describe("Diff", func() {
	It("annotates new entries and keeps historical ones", func() {
		previous := []string{"a.lvl", "old.lvl"}
		current := []string{"a.lvl", "b.lvl"}

		res := manifest.Diff(previous, current)
		Expect(res.New).To(Equal([]string{"b.lvl"}))
		Expect(res.Updated).To(Equal([]string{"a.lvl", "b.lvl - NEW", "old.lvl"}))
	})

	It("treats everything as new against an empty manifest", func() {
		res := manifest.Diff(nil, []string{"x", "y"})
		Expect(res.New).To(Equal([]string{"x", "y"}))
		Expect(res.Updated).To(Equal([]string{"x - NEW", "y - NEW"}))
	})

	It("finds nothing new when the listing is unchanged", func() {
		res := manifest.Diff([]string{"x", "y"}, []string{"x", "y"})
		Expect(res.New).To(BeEmpty())
		Expect(res.Updated).To(Equal([]string{"x", "y"}))
	})

	It("compares previous entries with the annotation stripped", func() {
		res := manifest.Diff([]string{"x - NEW"}, []string{"x"})
		Expect(res.New).To(BeEmpty())
		Expect(res.Updated).To(Equal([]string{"x"}))
	})

	It("uses exact string equality", func() {
		res := manifest.Diff([]string{"Maps/AR_0501.lvl"}, []string{"maps/ar_0501.lvl"})
		Expect(res.New).To(Equal([]string{"maps/ar_0501.lvl"}))
	})

	It("is deterministic", func() {
		previous := []string{"c", "a"}
		current := []string{"b", "a", "d"}
		Expect(manifest.Diff(previous, current)).To(Equal(manifest.Diff(previous, current)))
	})

	It("satisfies the set properties for random inputs", func() {
		r := rand.New(rand.NewPCG(7, 11))
		pick := func() []string {
			n := r.IntN(12)
			out := make([]string, 0, n)
			for range n {
				out = append(out, fmt.Sprintf("file_%02d.lvl", r.IntN(20)))
			}
			return manifest.Clean(out)
		}

		for range 300 {
			previous, current := pick(), pick()
			res := manifest.Diff(previous, current)

			var expectedNew []string
			for _, c := range current {
				if !slices.Contains(previous, c) {
					expectedNew = append(expectedNew, c)
				}
			}
			Expect(res.New).To(Equal(expectedNew))

			cleaned := manifest.Clean(res.Updated)
			for _, p := range previous {
				Expect(cleaned).To(ContainElement(p))
			}
			for _, c := range current {
				Expect(cleaned).To(ContainElement(c))
			}
		}
	})
})

var _ = Describe("Clean", func() {
	It("strips the annotation and removes duplicates", func() {
		Expect(manifest.Clean([]string{"a - NEW", "b", "a", "b - NEW"})).To(Equal([]string{"a", "b"}))
	})

	It("returns an empty slice for empty input", func() {
		Expect(manifest.Clean(nil)).To(BeEmpty())
	})
})

var _ = Describe("Store", func() {
	var (
		dir   string
		store *manifest.Store
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		store = manifest.NewStore(filepath.Join(dir, "files_list.json"), docstore.NewLocker(), logger.Nop())
	})

	It("loads a missing manifest as empty", func() {
		Expect(store.Load()).To(BeEmpty())
	})

	It("loads a corrupt manifest as empty", func() {
		Expect(os.WriteFile(store.Path(), []byte("[\"a\","), 0o644)).To(Succeed())
		Expect(store.Load()).To(BeEmpty())
	})

	It("never persists the annotation", func() {
		Expect(store.Save([]string{"a - NEW", "b"})).To(Succeed())

		data, err := os.ReadFile(store.Path())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring(" - NEW"))
		Expect(store.Load()).To(Equal([]string{"a", "b"}))
	})

	It("reconciles and persists in one step", func() {
		res, err := store.Reconcile([]string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.New).To(Equal([]string{"a", "b"}))
		Expect(store.Load()).To(Equal([]string{"a", "b"}))

		res, err = store.Reconcile([]string{"b", "c"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.New).To(Equal([]string{"c"}))
		Expect(store.Load()).To(Equal([]string{"b", "c", "a"}))

		res, err = store.Reconcile([]string{"c"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.New).To(BeEmpty())
	})
})
