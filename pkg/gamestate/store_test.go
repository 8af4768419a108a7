package gamestate_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/docstore"
	"github.com/papercomputeco/vignettes/pkg/gamestate"
	"github.com/papercomputeco/vignettes/pkg/logger"
)

var _ = Describe("Store", func() {
	var (
		path  string
		store *gamestate.Store
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "gameState.json")
		store = gamestate.NewStore(path, docstore.NewLocker(), logger.Nop())
	})

	It("reports a missing document", func() {
		_, err := store.Load()
		Expect(err).To(MatchError(gamestate.ErrNotFound))

		_, err = store.Update(func(*gamestate.Document) error { return nil })
		Expect(err).To(MatchError(gamestate.ErrNotFound))
		Expect(path).NotTo(BeAnExistingFile())
	})

	It("rejects documents from a newer schema", func() {
		Expect(os.WriteFile(path, []byte(`{"schema_version": 7}`), 0o644)).To(Succeed())
		_, err := store.Load()
		Expect(err).To(MatchError(gamestate.ErrUnsupportedVersion))
	})

	It("fails on a corrupt document", func() {
		Expect(os.WriteFile(path, []byte(`{"plot_state":`), 0o644)).To(Succeed())
		_, err := store.Load()
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, gamestate.ErrNotFound)).To(BeFalse())
	})

	It("initialises an empty document once", func() {
		created, err := store.Init()
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = store.Init()
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		doc, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.SchemaVersion).To(Equal(gamestate.CurrentSchemaVersion))
	})

	It("persists updates and keeps unknown members", func() {
		Expect(os.WriteFile(path, []byte(handEdited), 0o644)).To(Succeed())

		_, err := store.Update(func(doc *gamestate.Document) error {
			doc.PushInterlude("fresh")
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		doc, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.NarrativeLog.PreviousInterludes).To(Equal([]string{"fresh", "earlier"}))
		Expect(doc.Extra).To(HaveKey("player_notes"))

		raw, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"schema_version": 1`))
	})

	It("writes nothing when the update function fails", func() {
		Expect(os.WriteFile(path, []byte(handEdited), 0o644)).To(Succeed())
		before, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.Update(func(doc *gamestate.Document) error {
			doc.PushInterlude("lost")
			return errors.New("abort")
		})
		Expect(err).To(MatchError("abort"))

		after, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(Equal(before))
	})

	It("serialises concurrent updates", func() {
		_, err := store.Init()
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := store.Update(func(doc *gamestate.Document) error {
					doc.PartyContext.SideMembers = append(doc.PartyContext.SideMembers, "x")
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		doc, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.PartyContext.SideMembers).To(HaveLen(8))
	})
})
