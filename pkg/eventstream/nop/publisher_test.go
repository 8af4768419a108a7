package nop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/eventstream"
	"github.com/papercomputeco/vignettes/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	var (
		ctx context.Context
		p   *nop.Publisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = nop.NewPublisher()
	})

	It("accepts domain events", func() {
		ev := eventstream.NewEvent(eventstream.EventTypeCycleCompleted, "generator", time.Now())
		Expect(p.Publish(ctx, ev)).To(Succeed())
		Expect(p.Publish(ctx, ev)).To(Succeed())
		Expect(p.Accepted()).To(BeEquivalentTo(2))
	})

	It("rejects nil and untyped events without counting them", func() {
		Expect(p.Publish(ctx, nil)).To(MatchError(eventstream.ErrNilEvent))
		Expect(p.Publish(ctx, &eventstream.Event{})).To(MatchError(eventstream.ErrMissingEventType))
		Expect(p.Accepted()).To(BeZero())
	})

	It("closes cleanly", func() {
		Expect(p.Close()).To(Succeed())
	})
})
