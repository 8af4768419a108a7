// Package worker provides an asynchronous worker pool that runs save
// processing passes off the file watcher's event loop.
//
// The pool decouples slow archive and completion work from filesystem
// notifications so that bursts of events never block the watcher.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/vignettes/pkg/saves"
)

var (
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 64
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// SavePath is the save file that triggered the job.
	SavePath string
}

// Processor runs one save processing pass.
type Processor interface {
	Process(ctx context.Context, savePath string) (*saves.Outcome, error)
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Processor handles every dequeued job.
	Processor Processor

	// NumWorkers is the number of background workers in the pool (defaults
	// to 1 so passes never overlap).
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	// OnDone, when set, is called after each job with its outcome.
	OnDone func(job Job, out *saves.Outcome, err error)

	Logger *slog.Logger
}

// Pool processes save jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Processor == nil {
		return nil, fmt.Errorf("worker pool needs a processor")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "save", job.SavePath)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "save", job.SavePath)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
	p.cancel()
}

// Abort cancels in-flight jobs and then drains the queue like Close.
func (p *Pool) Abort() {
	p.cancel()
	p.Close()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("save worker stopped", "worker_id", id)
}

func (p *Pool) processJob(job Job) {
	if err := p.ctx.Err(); err != nil {
		p.logger.Debug("skipping job, pool aborted", "save", job.SavePath)
		return
	}

	out, err := p.config.Processor.Process(p.ctx, job.SavePath)
	if err != nil {
		p.logger.Error("save processing failed", "save", job.SavePath, "error", err)
	} else {
		p.logger.Debug("save processed", "save", job.SavePath, "new_entries", len(out.NewEntries))
	}

	if p.config.OnDone != nil {
		p.config.OnDone(job, out, err)
	}
}
