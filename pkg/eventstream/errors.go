package eventstream

import "errors"

var (
	ErrNilEvent         = errors.New("nil event")
	ErrMissingEventType = errors.New("event has no type")
)

// Validate reports whether e can be published.
func Validate(e *Event) error {
	switch {
	case e == nil:
		return ErrNilEvent
	case e.EventType == "":
		return ErrMissingEventType
	}
	return nil
}
