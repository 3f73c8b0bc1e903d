// Package runtime implements the fan-out gateway: the subscriber registry
// and the ordered delivery worker. It propagates committed domain events
// and contains no business rules.
package runtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/contract"
)

// Registry maps each conversation to the sinks of its currently joined
// connections. A connection may be joined to any number of conversations;
// its sink is stored per subscription, so dropping the last subscription
// leaves nothing behind.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[uuid.UUID]map[string]contract.EventSink)}
}

func (r *Registry) Subscribe(connectionID string, conversationID uuid.UUID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscribers[conversationID]; !ok {
		r.subscribers[conversationID] = make(map[string]contract.EventSink)
	}
	r.subscribers[conversationID][connectionID] = sink
}

// Unsubscribe removes one subscription and cleans up empty conversation
// entries so the registry does not leak over time.
func (r *Registry) Unsubscribe(connectionID string, conversationID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.subscribers[conversationID]
	if !ok {
		return
	}
	delete(conns, connectionID)
	if len(conns) == 0 {
		delete(r.subscribers, conversationID)
	}
}

func (r *Registry) SinksFor(conversationID uuid.UUID) []contract.EventSink {
	return r.SinksForExcept(conversationID, "")
}

// SinksForExcept resolves the live sinks of a conversation, optionally
// skipping one connection (the sender-exclusion variant).
func (r *Registry) SinksForExcept(conversationID uuid.UUID, exceptConnectionID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.subscribers[conversationID]
	if !ok {
		return nil
	}
	var sinks []contract.EventSink
	for connectionID, sink := range conns {
		if connectionID == exceptConnectionID {
			continue
		}
		sinks = append(sinks, sink)
	}
	return sinks
}
