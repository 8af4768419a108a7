package services_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/config"
	"github.com/papercomputeco/vignettes/pkg/eventstream/nop"
	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/services"
	testutils "github.com/papercomputeco/vignettes/pkg/utils/test"
)

var _ = Describe("Services", func() {
	var (
		dir string
		cfg *config.Config
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = config.NewDefaultConfig()
		cfg.Paths.Workspace = dir
	})

	build := func() *services.Services {
		s, err := services.New(context.Background(), cfg, logger.Nop(), services.Options{
			Completer: testutils.NewMockCompleter(),
			Publisher: nop.NewPublisher(),
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Close)
		return s
	}

	It("creates the workspace layout and the pipelines", func() {
		s := build()

		Expect(s.Generator).NotTo(BeNil())
		Expect(s.Processor).NotTo(BeNil())
		Expect(s.Generator.Model()).To(Equal("mock-model"))

		for _, sub := range []string{"Input/Saves", "Input/CombatLogs", "Processing/narrative_summaries", "Output/Vignettes", "logs", "Config"} {
			info, err := os.Stat(filepath.Join(dir, sub))
			Expect(err).NotTo(HaveOccurred(), sub)
			Expect(info.IsDir()).To(BeTrue())
		}
	})

	It("rejects an invalid config", func() {
		cfg.LLM.APIKey = config.PlaceholderAPIKey

		_, err := services.New(context.Background(), cfg, logger.Nop(), services.Options{
			Completer: testutils.NewMockCompleter(),
		})
		Expect(err).To(MatchError(config.ErrPlaceholderAPIKey))
	})

	It("builds a scheduler that is due without a marker", func() {
		s := build()

		sched, err := s.NewScheduler()
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(filepath.Join(dir, "Input", "note.txt"), []byte("x"), 0o644)).To(Succeed())

		decision, err := sched.Check(time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Due).To(BeTrue())
	})

	It("requires a save folder for the watcher", func() {
		s := build()

		pool, err := s.NewPool()
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		_, err = s.NewWatcher(pool)
		Expect(err).To(MatchError(config.ErrMissingSetting))

		cfg.Paths.SaveFolder = "Saves"
		s = build()
		w, err := s.NewWatcher(pool)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Matches(filepath.Join(dir, "Saves", "quick.savegame"))).To(BeTrue())
	})

	It("builds the API with the configured listen address", func() {
		s := build()

		server, err := s.NewAPI("", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
	})

	Describe("NewPublisher", func() {
		It("defaults to the nop publisher", func() {
			p, err := services.NewPublisher(config.EventsConfig{}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeAssignableToTypeOf(nop.NewPublisher()))
		})

		It("requires brokers for kafka", func() {
			_, err := services.NewPublisher(config.EventsConfig{Provider: "kafka", Topic: "t"}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("broker")))
		})

		It("rejects unknown providers", func() {
			_, err := services.NewPublisher(config.EventsConfig{Provider: "nats"}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("unknown events provider")))
		})
	})
})
