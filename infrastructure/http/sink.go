package httpapi

import (
	"context"
	"errors"

	"github.com/code-wave07/ChatMeAPI/domain/event"
)

// errBufferFull reports one dropped delivery. It stays inside the gateway:
// the fan-out worker logs it and moves on, no client ever sees it.
var errBufferFull = errors.New("connection buffer full")

// ConnectionSink bridges the fan-out worker and one websocket writer
// through a buffered channel. Consume never blocks the worker: when the
// buffer is full the event is dropped for this connection only.
type ConnectionSink struct {
	events chan event.DomainEvent
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{events: make(chan event.DomainEvent, bufferSize)}
}

func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.events <- e:
		return nil
	default:
		return errBufferFull
	}
}

// Events is drained by the connection's writer goroutine.
func (s *ConnectionSink) Events() <-chan event.DomainEvent {
	return s.events
}
