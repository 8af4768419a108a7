package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const defaultPollInterval = time.Minute

// CycleFunc runs one generation cycle. It is responsible for recording the
// execution marker on success.
type CycleFunc func(ctx context.Context) error

type Config struct {
	// InputDir is scanned for recent activity.
	InputDir string

	Interval     time.Duration
	PollInterval time.Duration

	Marker *MarkerStore
	Cycle  CycleFunc
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Decision is the outcome of one trigger evaluation.
type Decision struct {
	LastExecution      time.Time `json:"last_execution,omitzero"`
	NextDue            time.Time `json:"next_due"`
	NewestModification time.Time `json:"newest_modification,omitzero"`
	Due                bool      `json:"due"`
	Reason             string    `json:"reason"`
}

// Scheduler polls the trigger and runs a cycle whenever it holds.
type Scheduler struct {
	config *Config
	logger *slog.Logger
	now    func() time.Time
}

func New(c *Config) (*Scheduler, error) {
	if c.Marker == nil {
		return nil, errors.New("scheduler needs an execution marker")
	}
	if c.Cycle == nil {
		return nil, errors.New("scheduler needs a cycle")
	}
	if c.Interval <= 0 {
		return nil, errors.New("scheduler interval must be positive")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Scheduler{config: c, logger: c.Logger, now: now}, nil
}

// Check evaluates the trigger at now without running anything.
func (s *Scheduler) Check(now time.Time) (Decision, error) {
	last, err := s.config.Marker.Last()
	if err != nil {
		return Decision{}, err
	}

	d := Decision{LastExecution: last, NextDue: now}
	if !last.IsZero() {
		d.NextDue = last.Add(s.config.Interval)
	}

	if !last.IsZero() && now.Sub(last) < s.config.Interval {
		d.Reason = "interval not elapsed"
		return d, nil
	}

	newest, err := NewestModification(s.config.InputDir)
	if err != nil {
		return Decision{}, err
	}
	d.NewestModification = newest

	d.Due = ShouldGenerate(last, s.config.Interval, now, newest)
	if d.Due {
		d.Reason = "recent activity"
	} else {
		d.Reason = "no recent activity"
	}

	return d, nil
}

// Tick evaluates the trigger once and runs the cycle when it is due. It
// reports whether a cycle ran successfully.
func (s *Scheduler) Tick(ctx context.Context) bool {
	d, err := s.Check(s.now())
	if err != nil {
		s.logger.Error("evaluating generation trigger", "error", err)
		return false
	}

	if !d.Due {
		s.logger.Debug("generation not due",
			"reason", d.Reason,
			"next_due", d.NextDue,
		)
		return false
	}

	s.logger.Info("trigger conditions met, starting generation cycle",
		"newest_modification", d.NewestModification,
	)

	if err := s.config.Cycle(ctx); err != nil {
		s.logger.Error("generation cycle failed", "error", err)
		return false
	}

	return true
}

// Run ticks immediately and then every PollInterval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.config.Interval,
		"poll_interval", s.config.PollInterval,
		"input", s.config.InputDir,
	)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}
