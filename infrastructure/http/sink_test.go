package httpapi

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain/event"
	chaterrors "github.com/code-wave07/ChatMeAPI/errors"
)

func TestConnectionSink_Consume(t *testing.T) {
	evt := event.UserTyping{Conversation: uuid.New(), UserID: "alice", DisplayName: "Alice"}

	t.Run("buffers events for the writer", func(t *testing.T) {
		req := require.New(t)
		sink := NewConnectionSink(1)

		req.NoError(sink.Consume(context.Background(), evt))
		req.Equal(event.DomainEvent(evt), <-sink.Events())
	})

	t.Run("drops without blocking when the buffer is full", func(t *testing.T) {
		req := require.New(t)
		sink := NewConnectionSink(1)

		req.NoError(sink.Consume(context.Background(), evt))
		err := sink.Consume(context.Background(), evt)
		req.ErrorIs(err, errBufferFull)
		// A dropped delivery is a gateway-local failure, not one of the
		// stable failure kinds served to clients.
		req.NotErrorIs(err, chaterrors.ErrInvariantViolation)
	})

	t.Run("honours a cancelled context", func(t *testing.T) {
		req := require.New(t)
		sink := NewConnectionSink(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req.ErrorIs(sink.Consume(ctx, evt), context.Canceled)
	})
}
