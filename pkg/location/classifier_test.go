package location_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/llm"
	"github.com/papercomputeco/vignettes/pkg/location"
	"github.com/papercomputeco/vignettes/pkg/logger"
	testutils "github.com/papercomputeco/vignettes/pkg/utils/test"
)

var _ = Describe("Classifier", func() {
	var (
		ctx        context.Context
		completer  *testutils.MockCompleter
		classifier *location.Classifier
		candidates []string
	)

	BeforeEach(func() {
		ctx = context.Background()
		completer = testutils.NewMockCompleter()
		classifier = location.NewClassifier(completer, 5*time.Second, logger.Nop())
		candidates = []string{
			"Levels/ar_0501_neketaka.lvl",
			"Levels/ar_0101_port_maje.lvl",
			"settings.ini",
		}
	})

	It("does not call the model for an empty candidate list", func() {
		Expect(classifier.Classify(ctx, nil)).To(BeNil())
		Expect(completer.Calls()).To(Equal(0))
	})

	It("sends one request with the classification parameters", func() {
		completer.Responses = []string{"Levels/ar_0501_neketaka.lvl"}

		Expect(classifier.Classify(ctx, candidates)).To(Equal([]string{"Levels/ar_0501_neketaka.lvl"}))

		reqs := completer.Requests()
		Expect(reqs).To(HaveLen(1))
		Expect(reqs[0].MaxTokens).To(Equal(500))
		Expect(reqs[0].Temperature).To(BeNumerically("~", 0.1))
		Expect(reqs[0].Timeout).To(Equal(5 * time.Second))
		Expect(reqs[0].System).To(ContainSubstring("in-game locations"))
		for _, c := range candidates {
			Expect(reqs[0].Prompt).To(ContainSubstring(c))
		}
	})

	It("treats NONE as no locations regardless of case", func() {
		completer.Responses = []string{"none"}
		Expect(classifier.Classify(ctx, candidates)).To(BeEmpty())
	})

	It("accepts bullets, numbering and bare file names", func() {
		completer.Responses = []string{"1. `ar_0501_neketaka.lvl`\n- Levels/ar_0101_port_maje.lvl\n\n"}

		Expect(classifier.Classify(ctx, candidates)).To(Equal([]string{
			"Levels/ar_0501_neketaka.lvl",
			"Levels/ar_0101_port_maje.lvl",
		}))
	})

	It("drops lines that name no candidate", func() {
		completer.Responses = []string{"Here are the locations:\nLevels/ar_0101_port_maje.lvl\nsomething_else.lvl"}
		Expect(classifier.Classify(ctx, candidates)).To(Equal([]string{"Levels/ar_0101_port_maje.lvl"}))
	})

	It("reports no locations when the model fails", func() {
		completer.Handler = func(*llm.CompletionRequest) (string, error) {
			return "", errors.New("boom")
		}
		Expect(classifier.Classify(ctx, candidates)).To(BeNil())
	})

	It("reports no locations when the model answers with nothing", func() {
		completer.Responses = []string{"   "}
		Expect(classifier.Classify(ctx, candidates)).To(BeNil())
	})
})
