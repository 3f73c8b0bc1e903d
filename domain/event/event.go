// Package event defines the domain events pushed to live subscribers of a
// conversation. An event is emitted only after the mutation that caused it
// has committed; delivery is best-effort and never rolls anything back.
package event

import (
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/projection"
)

type DomainEvent interface {
	ConversationID() uuid.UUID
	Name() string
}

// ReceiveMessage carries the full enriched message projection.
type ReceiveMessage struct {
	Conversation uuid.UUID          `json:"conversationId"`
	Message      projection.Message `json:"message"`
}

func (e ReceiveMessage) ConversationID() uuid.UUID { return e.Conversation }
func (e ReceiveMessage) Name() string              { return "ReceiveMessage" }

type UserJoined struct {
	Conversation uuid.UUID `json:"conversationId"`
	UserID       string    `json:"userId"`
}

func (e UserJoined) ConversationID() uuid.UUID { return e.Conversation }
func (e UserJoined) Name() string              { return "UserJoined" }

type UserLeft struct {
	Conversation uuid.UUID `json:"conversationId"`
	UserID       string    `json:"userId"`
}

func (e UserLeft) ConversationID() uuid.UUID { return e.Conversation }
func (e UserLeft) Name() string              { return "UserLeft" }

type GroupInfoUpdated struct {
	Conversation uuid.UUID `json:"conversationId"`
	NewName      string    `json:"newName"`
}

func (e GroupInfoUpdated) ConversationID() uuid.UUID { return e.Conversation }
func (e GroupInfoUpdated) Name() string              { return "GroupInfoUpdated" }

// MessageDeleted carries only the message id; the body is not resent.
type MessageDeleted struct {
	Conversation uuid.UUID `json:"conversationId"`
	MessageID    uuid.UUID `json:"messageId"`
}

func (e MessageDeleted) ConversationID() uuid.UUID { return e.Conversation }
func (e MessageDeleted) Name() string              { return "MessageDeleted" }

// MessagesRead is the single aggregate receipt event for a mark-read call,
// not one event per message.
type MessagesRead struct {
	Conversation uuid.UUID `json:"conversationId"`
	ReaderID     string    `json:"readerId"`
}

func (e MessagesRead) ConversationID() uuid.UUID { return e.Conversation }
func (e MessagesRead) Name() string              { return "MessagesRead" }

// UserTyping is a transient gateway-only event: never persisted, always
// broadcast with the sender excluded.
type UserTyping struct {
	Conversation uuid.UUID `json:"conversationId"`
	UserID       string    `json:"userId"`
	DisplayName  string    `json:"userName"`
	Stopped      bool      `json:"stopped"`
}

func (e UserTyping) ConversationID() uuid.UUID { return e.Conversation }

func (e UserTyping) Name() string {
	if e.Stopped {
		return "UserStoppedTyping"
	}
	return "UserTyping"
}
