package location_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/location"
)

var _ = Describe("Normalize", func() {
	DescribeTable("cleans raw save entries",
		func(raw, want string) {
			Expect(location.Normalize(raw)).To(Equal(want))
		},
		Entry("acronym and number prefix", "ar_0501_neketaka.lvl", "Neketaka"),
		Entry("bare file", "neketaka.lvl", "Neketaka"),
		Entry("directory components", "Levels/Maps/ar_0501_neketaka.lvl", "Neketaka"),
		Entry("windows separators", `Levels\ar_0501_neketaka.lvl`, "Neketaka"),
		Entry("new tag", "ar_0501_neketaka.lvl - NEW", "Neketaka"),
		Entry("new location tag", "neketaka.lvl - NEW LOCATION", "Neketaka"),
		Entry("trailing json punctuation", `"ar_0501_neketaka.lvl",`, "Neketaka"),
		Entry("acronym prefix only", "px_port_maje.lvl", "Port Maje"),
		Entry("exterior suffix", "ar_0101_port_maje_ext.lvl", "Port Maje (Exterior)"),
		Entry("interior suffix", "ar_0102_tavern_int.lvl", "Tavern (Interior)"),
		Entry("words containing ext are left alone", "ar_0200_extra_docks.lvl", "Extra Docks"),
		Entry("already clean", "Port Maje (Exterior)", "Port Maje (Exterior)"),
		Entry("blank", "   ", ""),
	)

	It("is idempotent", func() {
		for _, raw := range []string{
			"ar_0501_neketaka.lvl",
			"Levels/ar_0101_port_maje_ext.lvl - NEW",
			"px_tavern_int.lvl",
			"NEKETAKA",
			"st_0007_the_old_city.lvl",
			"Port Maje (Exterior)",
		} {
			once := location.Normalize(raw)
			Expect(location.Normalize(once)).To(Equal(once), "raw %q", raw)
		}
	})
})

var _ = Describe("NormalizeAll", func() {
	It("drops blanks and duplicates in first-seen order", func() {
		got := location.NormalizeAll([]string{"neketaka.lvl", "", "ar_0101_port_maje.lvl", "ar_0501_neketaka.lvl"})
		Expect(got).To(Equal([]string{"Neketaka", "Port Maje"}))
	})
})
