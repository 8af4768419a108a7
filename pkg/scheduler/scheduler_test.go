package scheduler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/scheduler"
)

var _ = Describe("MarkerStore", func() {
	var marker *scheduler.MarkerStore

	BeforeEach(func() {
		marker = scheduler.NewMarkerStore(filepath.Join(GinkgoT().TempDir(), "Config", "last_execution.json"))
	})

	It("reports the zero time when no cycle has run", func() {
		last, err := marker.Last()
		Expect(err).NotTo(HaveOccurred())
		Expect(last.IsZero()).To(BeTrue())
	})

	It("round trips the execution time", func() {
		t := time.Date(2025, 5, 10, 18, 0, 0, 123000000, time.UTC)
		Expect(marker.Record(t)).To(Succeed())

		raw, err := os.ReadFile(marker.Path())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"last_execution_time": "2025-05-10T18:00:00.123Z"`))

		last, err := marker.Last()
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(BeTemporally("==", t))
	})

	It("reads markers without a zone offset as local time", func() {
		Expect(os.MkdirAll(filepath.Dir(marker.Path()), 0o755)).To(Succeed())
		Expect(os.WriteFile(marker.Path(), []byte(`{"last_execution_time": "2025-05-10T18:00:00.500000"}`), 0o644)).To(Succeed())

		last, err := marker.Last()
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(BeTemporally("==", time.Date(2025, 5, 10, 18, 0, 0, 500000000, time.Local)))
	})

	It("fails on a garbled marker", func() {
		Expect(os.MkdirAll(filepath.Dir(marker.Path()), 0o755)).To(Succeed())
		Expect(os.WriteFile(marker.Path(), []byte(`{"last_execution_time": "yesterday"}`), 0o644)).To(Succeed())

		_, err := marker.Last()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Scheduler", func() {
	var (
		input  string
		marker *scheduler.MarkerStore
		now    time.Time
		runs   atomic.Int32
		cycle  scheduler.CycleFunc
	)

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		input = filepath.Join(root, "Input")
		Expect(os.MkdirAll(input, 0o755)).To(Succeed())
		marker = scheduler.NewMarkerStore(filepath.Join(root, "Config", "last_execution.json"))
		now = time.Now().Truncate(time.Second)
		runs.Store(0)
		cycle = func(context.Context) error {
			runs.Add(1)
			return marker.Record(now)
		}
	})

	newScheduler := func() *scheduler.Scheduler {
		s, err := scheduler.New(&scheduler.Config{
			InputDir:     input,
			Interval:     15 * time.Minute,
			PollInterval: 10 * time.Millisecond,
			Marker:       marker,
			Cycle:        cycle,
			Logger:       logger.Nop(),
			Now:          func() time.Time { return now },
		})
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	touch := func(mod time.Time) {
		p := filepath.Join(input, "gameState.json")
		Expect(os.WriteFile(p, []byte("{}"), 0o644)).To(Succeed())
		Expect(os.Chtimes(p, mod, mod)).To(Succeed())
	}

	It("rejects an incomplete configuration", func() {
		_, err := scheduler.New(&scheduler.Config{Marker: marker, Interval: time.Minute})
		Expect(err).To(HaveOccurred())
	})

	It("explains a decision without running anything", func() {
		Expect(marker.Record(now.Add(-5 * time.Minute))).To(Succeed())
		touch(now.Add(-time.Minute))

		d, err := newScheduler().Check(now)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Due).To(BeFalse())
		Expect(d.Reason).To(Equal("interval not elapsed"))
		Expect(d.NextDue).To(BeTemporally("==", now.Add(10*time.Minute)))
		Expect(runs.Load()).To(BeZero())
	})

	It("runs the cycle once when due and then waits for the interval", func() {
		Expect(marker.Record(now.Add(-20 * time.Minute))).To(Succeed())
		touch(now.Add(-2 * time.Minute))

		s := newScheduler()
		Expect(s.Tick(context.Background())).To(BeTrue())
		Expect(s.Tick(context.Background())).To(BeFalse())
		Expect(runs.Load()).To(Equal(int32(1)))
	})

	It("does not run without recent activity", func() {
		touch(now.Add(-30 * time.Minute))

		Expect(newScheduler().Tick(context.Background())).To(BeFalse())
		Expect(runs.Load()).To(BeZero())
	})

	It("reports a failing cycle", func() {
		touch(now.Add(-time.Minute))
		cycle = func(context.Context) error { return errors.New("llm down") }

		Expect(newScheduler().Tick(context.Background())).To(BeFalse())
	})

	It("polls until the context is cancelled", func() {
		touch(now.Add(-time.Minute))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- newScheduler().Run(ctx) }()

		Eventually(runs.Load).Should(Equal(int32(1)))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
		Expect(runs.Load()).To(Equal(int32(1)))
	})
})
