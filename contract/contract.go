//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain/event"
)

// EventSink receives domain events for one live connection.
// Consume must not block past ctx; a sink that cannot keep up loses events.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which connections are joined to which conversation.
// It is concurrently mutated by connect/disconnect/join/leave and read by
// every broadcast.
type IRegistry interface {
	Subscribe(connectionID string, conversationID uuid.UUID, sink EventSink)
	Unsubscribe(connectionID string, conversationID uuid.UUID)
	SinksFor(conversationID uuid.UUID) []EventSink
	SinksForExcept(conversationID uuid.UUID, exceptConnectionID string) []EventSink
}

// IGateway is the fan-out capability the engines depend on. Broadcast is
// fire-and-forget: the triggering mutation has already committed and its
// outcome never depends on delivery.
type IGateway interface {
	Join(connectionID string, conversationID uuid.UUID, sink EventSink)
	Leave(connectionID string, conversationID uuid.UUID)
	Broadcast(e event.DomainEvent)
	// BroadcastExcept skips one connection, e.g. typing indicators that
	// everyone but the sender should see.
	BroadcastExcept(e event.DomainEvent, exceptConnectionID string)
}
