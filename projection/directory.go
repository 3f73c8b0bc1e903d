package projection

import (
	"time"

	"github.com/google/uuid"
)

// UnknownUser is displayed for a private conversation whose other member
// has left; the inbox never fails over a missing counterpart.
const UnknownUser = "Unknown User"

// InboxEntry is one line of a user's conversation list.
type InboxEntry struct {
	ConversationID  uuid.UUID `json:"conversationId"`
	Name            string    `json:"conversationName"`
	IsGroup         bool      `json:"isGroup"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	OtherUserID     *string   `json:"otherUserId,omitempty"`
}

// UserSearch is one row of a paginated user search.
type UserSearch struct {
	UserID          string  `json:"userId"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	PhoneNumber     string  `json:"phoneNumber"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty"`
}
