package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/code-wave07/ChatMeAPI/auth"
	"github.com/code-wave07/ChatMeAPI/contract"
	"github.com/code-wave07/ChatMeAPI/domain/event"
	"github.com/code-wave07/ChatMeAPI/observability"
)

// inboundFrame is what a client sends over the socket. Mutations never
// travel this way; the socket only manages subscriptions and typing
// indicators.
type inboundFrame struct {
	Action         string    `json:"action"`
	ConversationID uuid.UUID `json:"conversationId"`
	UserName       string    `json:"userName"`
}

type outboundFrame struct {
	Event   string            `json:"event"`
	Payload event.DomainEvent `json:"payload"`
}

type WSHandler struct {
	gateway    contract.IGateway
	metrics    *observability.Metrics
	log        *slog.Logger
	bufferSize int
	upgrader   websocket.Upgrader
}

func NewWSHandler(gateway contract.IGateway, metrics *observability.Metrics,
	log *slog.Logger, bufferSize int) *WSHandler {
	return &WSHandler{
		gateway:    gateway,
		metrics:    metrics,
		log:        log,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and runs the connection until the client
// goes away. Every joined conversation is left on disconnect, so the
// registry never accumulates dead sinks.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	userID := auth.UserID(c)
	connectionID := uuid.NewString()
	sink := NewConnectionSink(h.bufferSize)
	joined := map[uuid.UUID]struct{}{}

	h.metrics.ConnectionOpened()
	h.log.Info("websocket connected", "connection_id", connectionID, "user_id", userID)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer func() {
		cancel()
		for conversationID := range joined {
			h.gateway.Leave(connectionID, conversationID)
		}
		_ = conn.Close()
		h.metrics.ConnectionClosed()
		h.log.Info("websocket disconnected", "connection_id", connectionID, "user_id", userID)
	}()

	go h.writeLoop(ctx, conn, sink)

	for {
		var frame inboundFrame
		if err = conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read failed", "connection_id", connectionID, "error", err)
			}
			return
		}

		switch frame.Action {
		case "join":
			h.gateway.Join(connectionID, frame.ConversationID, sink)
			joined[frame.ConversationID] = struct{}{}
		case "leave":
			h.gateway.Leave(connectionID, frame.ConversationID)
			delete(joined, frame.ConversationID)
		case "typing", "stopped-typing":
			h.gateway.BroadcastExcept(event.UserTyping{
				Conversation: frame.ConversationID,
				UserID:       userID,
				DisplayName:  frame.UserName,
				Stopped:      frame.Action == "stopped-typing",
			}, connectionID)
		default:
			h.log.Debug("unknown websocket action", "action", frame.Action)
		}
	}
}

// writeLoop serializes all writes for one connection; gorilla allows a
// single concurrent writer.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sink *ConnectionSink) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-sink.Events():
			if err := conn.WriteJSON(outboundFrame{Event: e.Name(), Payload: e}); err != nil {
				h.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
