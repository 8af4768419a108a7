package gamestate_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/gamestate"
)

const handEdited = `{
  "party_context": {
    "active_members": ["Eder", "Aloth"],
    "side_members": ["Xoti"],
    "reputation": {"huana": 3}
  },
  "ship_context": {"named_crew": ["Fassina"], "ship_name": "Defiant"},
  "plot_state": {"recent_locations": ["Neketaka"], "main_quest": "Chasing Eothas"},
  "combat_log": {"previous_fights": []},
  "narrative_log": {"previous_interludes": ["earlier"]},
  "player_notes": "keep me"
}`

var _ = Describe("Document", func() {
	It("decodes the typed sections", func() {
		var doc gamestate.Document
		Expect(json.Unmarshal([]byte(handEdited), &doc)).To(Succeed())

		Expect(doc.PartyContext.ActiveMembers).To(Equal([]string{"Eder", "Aloth"}))
		Expect(doc.ShipContext.NamedCrew).To(Equal([]string{"Fassina"}))
		Expect(doc.PlotState.RecentLocations).To(Equal([]string{"Neketaka"}))
		Expect(doc.NarrativeLog.PreviousInterludes).To(Equal([]string{"earlier"}))
	})

	It("keeps unknown members at every level through a round trip", func() {
		var doc gamestate.Document
		Expect(json.Unmarshal([]byte(handEdited), &doc)).To(Succeed())

		Expect(doc.Extra).To(HaveKey("player_notes"))
		Expect(doc.PartyContext.Extra).To(HaveKey("reputation"))
		Expect(doc.ShipContext.Extra).To(HaveKey("ship_name"))
		Expect(doc.PlotState.Extra).To(HaveKey("main_quest"))

		out, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())

		var generic map[string]any
		Expect(json.Unmarshal(out, &generic)).To(Succeed())
		Expect(generic).To(HaveKeyWithValue("player_notes", "keep me"))
		Expect(generic["party_context"]).To(HaveKeyWithValue("reputation", HaveKeyWithValue("huana", BeNumerically("==", 3))))
		Expect(generic["ship_context"]).To(HaveKeyWithValue("ship_name", "Defiant"))
		Expect(generic["plot_state"]).To(HaveKeyWithValue("main_quest", "Chasing Eothas"))
	})

	It("lets typed fields win over stale extra members", func() {
		doc := gamestate.New()
		doc.PlotState.RecentLocations = []string{"Port Maje"}
		doc.PlotState.Extra = gamestate.Extra{"recent_locations": json.RawMessage(`["stale"]`)}

		out, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring(`"recent_locations":["Port Maje"]`))
		Expect(string(out)).NotTo(ContainSubstring("stale"))
	})

	It("treats null sections as empty", func() {
		var doc gamestate.Document
		Expect(json.Unmarshal([]byte(`{"plot_state": null}`), &doc)).To(Succeed())
		doc.Normalize()
		Expect(doc.PlotState.RecentLocations).To(BeEmpty())
		Expect(doc.SchemaVersion).To(Equal(gamestate.CurrentSchemaVersion))
	})

	It("publishes a schema naming the sections", func() {
		data, err := gamestate.SchemaJSON()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("recent_locations"))
		Expect(string(data)).To(ContainSubstring("previous_interludes"))
		Expect(string(data)).NotTo(ContainSubstring(`"Extra"`))
	})
})
