// Package eventstream publishes vignettes domain events (cycles completed,
// locations discovered) to an optional backend. Publish failures never fail
// the pipeline that emitted the event.
package eventstream

import "context"

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
