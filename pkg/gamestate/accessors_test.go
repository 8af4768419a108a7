package gamestate_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
)

var _ = Describe("Accessors", func() {
	var (
		doc *gamestate.Document
		now time.Time
	)

	BeforeEach(func() {
		doc = gamestate.New()
		now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})

	Describe("PushRecentLocations", func() {
		It("normalizes and pushes each new name to the head in turn", func() {
			doc.PlotState.RecentLocations = []string{"Port Maje"}

			inserted := doc.PushRecentLocations([]string{"ar_0501_neketaka.lvl", "ar_0101_port_maje.lvl", "tikawara.lvl"})

			Expect(inserted).To(Equal([]string{"Neketaka", "Tikawara"}))
			Expect(doc.PlotState.RecentLocations).To(Equal([]string{"Tikawara", "Neketaka", "Port Maje"}))
		})

		It("never holds more than ten locations", func() {
			for i := range 15 {
				doc.PushRecentLocations([]string{fmt.Sprintf("place_%d", i)})
			}
			Expect(doc.PlotState.RecentLocations).To(HaveLen(gamestate.RecentLocationsCap))
			Expect(doc.PlotState.RecentLocations[0]).To(Equal("14"))
		})
	})

	Describe("RecordCombatSummary", func() {
		It("sets the first summary without rotating", func() {
			Expect(doc.RecordCombatSummary("Drake slain.", "fight1_summary.txt", now)).To(BeTrue())

			Expect(doc.CombatLog.LatestExecutiveSummary).To(Equal("Drake slain."))
			Expect(doc.CombatLog.LatestSummarySource).To(Equal("fight1_summary.txt"))
			Expect(doc.CombatLog.LatestSummaryTimestamp).To(Equal("2025-06-01T12:00:00Z"))
			Expect(doc.CombatLog.PreviousFights).To(BeEmpty())
		})

		It("rotates the previous latest when the text changes", func() {
			doc.RecordCombatSummary("A", "a_summary.txt", now)
			doc.RecordCombatSummary("B", "b_summary.txt", now)
			doc.RecordCombatSummary("C", "c_summary.txt", now)

			Expect(doc.CombatLog.LatestExecutiveSummary).To(Equal("C"))
			Expect(doc.CombatLog.PreviousFights).To(Equal([]string{"B", "A"}))
		})

		It("rotates when only the source changes", func() {
			doc.RecordCombatSummary("A", "a_summary.txt", now)
			Expect(doc.RecordCombatSummary("A", "a2_summary.txt", now)).To(BeTrue())
			Expect(doc.CombatLog.PreviousFights).To(Equal([]string{"A"}))
		})

		It("leaves the document untouched for an unchanged summary", func() {
			doc.RecordCombatSummary("A", "a_summary.txt", now)
			before := doc.Clone()

			Expect(doc.RecordCombatSummary("A", "a_summary.txt", now.Add(time.Hour))).To(BeFalse())
			Expect(doc).To(Equal(before))
		})

		It("keeps three previous fights", func() {
			for i := range 6 {
				doc.RecordCombatSummary(fmt.Sprintf("fight %d", i), fmt.Sprintf("%d_summary.txt", i), now)
			}
			Expect(doc.CombatLog.PreviousFights).To(Equal([]string{"fight 4", "fight 3", "fight 2"}))
		})
	})

	Describe("PushInterlude", func() {
		It("always inserts and keeps three", func() {
			for _, s := range []string{"one", "two", "two", "three"} {
				doc.PushInterlude(s)
			}
			Expect(doc.NarrativeLog.PreviousInterludes).To(Equal([]string{"three", "two", "two"}))
		})
	})

	Describe("Normalize", func() {
		It("trims over-full hand-edited histories", func() {
			doc.PlotState.RecentLocations = make([]string, 14)
			doc.NarrativeLog.PreviousInterludes = []string{"a", "b", "c", "d"}

			doc.Normalize()

			Expect(doc.PlotState.RecentLocations).To(HaveLen(10))
			Expect(doc.NarrativeLog.PreviousInterludes).To(Equal([]string{"a", "b", "c"}))
		})
	})
})
