package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MessageKind int

const (
	KindText MessageKind = iota
	KindImage
	KindVideo
	KindFile
)

func (k MessageKind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindVideo:
		return "Video"
	case KindFile:
		return "File"
	default:
		return "Text"
	}
}

// ParseMessageKind accepts the wire names; an empty string means Text.
func ParseMessageKind(s string) (MessageKind, error) {
	switch s {
	case "", "Text":
		return KindText, nil
	case "Image":
		return KindImage, nil
	case "Video":
		return KindVideo, nil
	case "File":
		return KindFile, nil
	default:
		return KindText, fmt.Errorf("unknown message type %q", s)
	}
}

// Message is an immutable chat event, except for the monotonic
// DeletedForEveryone flag: the body is retained but hidden once set.
type Message struct {
	ID                 uuid.UUID
	ConversationID     uuid.UUID
	SenderID           string
	Text               string
	MediaURL           *string
	Kind               MessageKind
	SentAt             time.Time
	UpdatedAt          *time.Time
	DeletedForEveryone bool
}

// VisibleTo applies the smart-history window: a message is visible when it
// was sent at or after the membership's floor and is not deleted for everyone.
func (m Message) VisibleTo(membership Membership) bool {
	return !m.DeletedForEveryone && !m.SentAt.Before(membership.JoinedAt)
}
