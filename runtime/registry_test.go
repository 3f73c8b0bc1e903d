package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain/event"
)

type nopSink struct {
	id string
}

func (s nopSink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Conversation_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	conversationID := uuid.New()
	sink := nopSink{id: "a"}

	// Given no connection is subscribed
	req.Nil(registry.SinksFor(conversationID))

	// When a connection joins the conversation
	registry.Subscribe(connectionID, conversationID, sink)

	// Then its sink is resolvable
	req.Len(registry.SinksFor(conversationID), 1)
	req.Contains(registry.SinksFor(conversationID), sink)
}

func TestRegistry_Subscribe_One_Conversation_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conversationID := uuid.New()
	sink1 := nopSink{id: "a"}
	sink2 := nopSink{id: "b"}

	registry.Subscribe(uuid.NewString(), conversationID, sink1)
	registry.Subscribe(uuid.NewString(), conversationID, sink2)

	req.Len(registry.SinksFor(conversationID), 2)
	req.Contains(registry.SinksFor(conversationID), sink1)
	req.Contains(registry.SinksFor(conversationID), sink2)
}

func TestRegistry_SinksForExcept_Skips_The_Sender(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conversationID := uuid.New()
	senderConn := uuid.NewString()
	sender := nopSink{id: "sender"}
	other := nopSink{id: "other"}

	registry.Subscribe(senderConn, conversationID, sender)
	registry.Subscribe(uuid.NewString(), conversationID, other)

	sinks := registry.SinksForExcept(conversationID, senderConn)
	req.Len(sinks, 1)
	req.Contains(sinks, other)
}

func TestRegistry_Unsubscribe_Cleans_Empty_Conversations(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	conversationID := uuid.New()

	registry.Subscribe(connectionID, conversationID, nopSink{id: "a"})
	registry.Unsubscribe(connectionID, conversationID)

	req.Nil(registry.SinksFor(conversationID))
	req.Empty(registry.subscribers)

	// Unsubscribing twice is harmless.
	registry.Unsubscribe(connectionID, conversationID)
}

func TestRegistry_One_Connection_Multiple_Conversations(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	first := uuid.New()
	second := uuid.New()
	sink := nopSink{id: "a"}

	registry.Subscribe(connectionID, first, sink)
	registry.Subscribe(connectionID, second, sink)

	registry.Unsubscribe(connectionID, first)

	req.Nil(registry.SinksFor(first))
	req.Len(registry.SinksFor(second), 1)
}
