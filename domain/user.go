package domain

import (
	"strings"
	"time"
)

// User is referenced by conversations and messages, never owned by them.
// The password hash belongs to the identity side and must not cross the
// core boundary in any projection.
type User struct {
	ID              string
	PhoneNumber     string
	FirstName       string
	LastName        string
	ProfilePhotoURL *string
	PasswordHash    string
	CreatedAt       time.Time
}

// FullName is the display name used in message projections and
// private-conversation titles.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
