package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/vignettes/pkg/logger"
	"github.com/papercomputeco/vignettes/pkg/saves"
)

// fakeProcessor records processed saves and the peak number of
// concurrently running passes.
type fakeProcessor struct {
	mu      sync.Mutex
	seen    []string
	running atomic.Int32
	peak    atomic.Int32
	delay   time.Duration
	fail    string
	block   chan struct{}
}

func (f *fakeProcessor) Process(ctx context.Context, savePath string) (*saves.Outcome, error) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.seen = append(f.seen, savePath)
	f.mu.Unlock()

	if savePath == f.fail {
		return nil, errors.New("corrupt save")
	}
	return &saves.Outcome{Save: savePath, NewEntries: []string{"a"}}, nil
}

func (f *fakeProcessor) processed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// newTestPool creates a worker pool around proc.
// Callers should "wp.Close()" to drain enqueued jobs before asserting state.
func newTestPool(proc *fakeProcessor, c *Config) *Pool {
	c.Processor = proc
	c.Logger = logger.Nop()
	wp, err := NewPool(c)
	Expect(err).NotTo(HaveOccurred())
	return wp
}

var _ = Describe("Worker Pool", func() {
	var proc *fakeProcessor

	BeforeEach(func() {
		proc = &fakeProcessor{delay: 5 * time.Millisecond}
	})

	It("requires a processor", func() {
		_, err := NewPool(&Config{Logger: logger.Nop()})
		Expect(err).To(HaveOccurred())
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp := newTestPool(proc, &Config{})
			Expect(wp.Enqueue(Job{SavePath: "a.savegame"})).To(BeTrue())
			wp.Close()
			Expect(proc.processed()).To(Equal([]string{"a.savegame"}))
		})

		It("drops jobs when the queue is full", func() {
			proc.block = make(chan struct{})
			wp := newTestPool(proc, &Config{QueueSize: 1})

			Expect(wp.Enqueue(Job{SavePath: "first"})).To(BeTrue())
			Eventually(proc.running.Load).Should(Equal(int32(1)))
			Expect(wp.Enqueue(Job{SavePath: "second"})).To(BeTrue())
			Expect(wp.Enqueue(Job{SavePath: "third"})).To(BeFalse())

			close(proc.block)
			wp.Close()
			Expect(proc.processed()).To(Equal([]string{"first", "second"}))
		})
	})

	It("runs passes one at a time by default", func() {
		wp := newTestPool(proc, &Config{})
		for _, s := range []string{"1", "2", "3", "4"} {
			Expect(wp.Enqueue(Job{SavePath: s})).To(BeTrue())
		}
		wp.Close()

		Expect(proc.processed()).To(Equal([]string{"1", "2", "3", "4"}))
		Expect(proc.peak.Load()).To(Equal(int32(1)))
	})

	It("reports every outcome, failures included", func() {
		proc.fail = "bad"

		var (
			mu     sync.Mutex
			failed []string
			done   int
		)
		wp := newTestPool(proc, &Config{OnDone: func(job Job, _ *saves.Outcome, err error) {
			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				failed = append(failed, job.SavePath)
			}
		}})

		wp.Enqueue(Job{SavePath: "good"})
		wp.Enqueue(Job{SavePath: "bad"})
		wp.Close()

		Expect(done).To(Equal(2))
		Expect(failed).To(Equal([]string{"bad"}))
	})

	It("cancels in-flight passes on abort", func() {
		proc.block = make(chan struct{})
		wp := newTestPool(proc, &Config{})

		wp.Enqueue(Job{SavePath: "stuck"})
		wp.Enqueue(Job{SavePath: "never"})
		Eventually(proc.running.Load).Should(Equal(int32(1)))

		wp.Abort()
		Expect(proc.processed()).To(BeEmpty())
	})
})
