// Package nop is the default event backend when events.provider is unset.
package nop

import (
	"context"
	"sync/atomic"

	"github.com/papercomputeco/vignettes/pkg/eventstream"
)

// Publisher validates and drops events, counting the ones it accepted.
type Publisher struct {
	accepted atomic.Int64
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(_ context.Context, event *eventstream.Event) error {
	if err := eventstream.Validate(event); err != nil {
		return err
	}
	p.accepted.Add(1)
	return nil
}

// Accepted returns how many valid events were published.
func (p *Publisher) Accepted() int64 {
	return p.accepted.Load()
}

func (p *Publisher) Close() error {
	return nil
}
