package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/contract"
	"github.com/code-wave07/ChatMeAPI/domain/event"
	"github.com/code-wave07/ChatMeAPI/observability"
)

// Hub is the concrete fan-out gateway.
//
// It provides best-effort delivery with no durability or retries: a full
// queue or a slow sink loses events instead of blocking the writer. A
// single delivery worker drains the queue, so events for one conversation
// reach subscribers in the order their mutations committed.
//
// Hub is safe for concurrent use by multiple goroutines.
type Hub struct {
	log         *slog.Logger
	registry    contract.IRegistry
	metrics     *observability.Metrics
	queue       chan envelope
	sinkTimeout time.Duration
}

type envelope struct {
	evt    event.DomainEvent
	except string
}

func NewHub(log *slog.Logger, registry contract.IRegistry, metrics *observability.Metrics,
	bufferSize int, sinkTimeout time.Duration) *Hub {
	return &Hub{
		log:         log,
		registry:    registry,
		metrics:     metrics,
		queue:       make(chan envelope, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

func (h *Hub) Join(connectionID string, conversationID uuid.UUID, sink contract.EventSink) {
	h.registry.Subscribe(connectionID, conversationID, sink)
}

func (h *Hub) Leave(connectionID string, conversationID uuid.UUID) {
	h.registry.Unsubscribe(connectionID, conversationID)
}

func (h *Hub) Broadcast(e event.DomainEvent) {
	h.enqueue(envelope{evt: e})
}

func (h *Hub) BroadcastExcept(e event.DomainEvent, exceptConnectionID string) {
	h.enqueue(envelope{evt: e, except: exceptConnectionID})
}

func (h *Hub) enqueue(env envelope) {
	select {
	case h.queue <- env:
		h.metrics.IncrEventsBroadcast()
	default:
		h.metrics.IncrEventsDropped()
		h.log.Warn("event queue full, dropping",
			"event", env.evt.Name(),
			"conversation_id", env.evt.ConversationID())
	}
}

// Run drains the queue until ctx is cancelled. It is the only goroutine
// touching delivery, which is what guarantees per-conversation order.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("context done, stopping event delivery")
			return nil
		case env := <-h.queue:
			h.deliver(ctx, env)
		}
	}
}

// deliver pushes one event to every joined sink of its conversation.
// A sink that misses its delivery window is skipped, never retried.
func (h *Hub) deliver(ctx context.Context, env envelope) {
	sinks := h.registry.SinksForExcept(env.evt.ConversationID(), env.except)
	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, h.sinkTimeout)
		if err := sink.Consume(sinkCtx, env.evt); err != nil {
			h.metrics.IncrEventsDropped()
			h.log.Debug("subscriber missed an event",
				"event", env.evt.Name(),
				"conversation_id", env.evt.ConversationID())
		}
		cancel()
	}
}
