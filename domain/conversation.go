// Package domain contains the core concepts of the chat system:
// conversations, memberships, messages and read receipts.
// Entities are pure data plus their validity rules. No runtime,
// network, or storage logic should be added here.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/errors"
)

type ConversationType int

const (
	Private ConversationType = iota
	Group
)

func (t ConversationType) String() string {
	switch t {
	case Private:
		return "Private"
	case Group:
		return "Group"
	default:
		return fmt.Sprintf("ConversationType(%d)", int(t))
	}
}

// Conversation is a private (2-party) or group (N-party) messaging thread.
// Name is required for groups and always nil for private chats, whose
// display name is synthesized from the other member at read time.
type Conversation struct {
	ID        uuid.UUID
	Type      ConversationType
	Name      *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// LastActivity is the inbox ordering key: the last metadata or message
// timestamp, falling back to the creation time.
func (c Conversation) LastActivity() time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

func (c Conversation) Validate() error {
	switch c.Type {
	case Private:
		if c.Name != nil {
			return fmt.Errorf("%w: a private conversation cannot be named", errors.ErrInvariantViolation)
		}
	case Group:
		if c.Name == nil || *c.Name == "" {
			return fmt.Errorf("%w: a group conversation requires a name", errors.ErrInvariantViolation)
		}
	default:
		return fmt.Errorf("%w: unknown conversation type %d", errors.ErrInvariantViolation, int(c.Type))
	}
	return nil
}
