package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role orders permissions inside a conversation: Member < Admin < Owner.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleAdmin:
		return "Admin"
	case RoleOwner:
		return "Owner"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// AtLeast reports whether r sits at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r >= other
}

// Membership is a user's participation record in a conversation.
// Rows are never physically deleted: leaving sets LeftAt, and a rejoin
// creates a fresh row carrying its own visibility floor (JoinedAt).
type Membership struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	UserID         string
	Role           Role
	JoinedAt       time.Time
	LeftAt         *time.Time
}

// Active reports whether the membership currently confers permissions.
func (m Membership) Active() bool {
	return m.LeftAt == nil
}
