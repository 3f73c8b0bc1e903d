// Package projection holds the read-side shapes served to clients and
// pushed to subscribers. Projections are built from domain entities at
// query or broadcast time and never stored.
package projection

import (
	"time"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain"
)

// Message is the enriched shape pushed on ReceiveMessage and returned by
// history queries. SenderName is resolved when the projection is built,
// not stored with the message.
type Message struct {
	MessageID  uuid.UUID          `json:"messageId"`
	SenderID   string             `json:"senderId"`
	SenderName string             `json:"senderName"`
	Content    string             `json:"content"`
	MediaURL   *string            `json:"mediaUrl,omitempty"`
	Kind       domain.MessageKind `json:"messageType"`
	SentAt     time.Time          `json:"sentAt"`
	IsMine     bool               `json:"isMine"`
}

func NewMessage(m domain.Message, senderName string, mine bool) Message {
	return Message{
		MessageID:  m.ID,
		SenderID:   m.SenderID,
		SenderName: senderName,
		Content:    m.Text,
		MediaURL:   m.MediaURL,
		Kind:       m.Kind,
		SentAt:     m.SentAt,
		IsMine:     mine,
	}
}
