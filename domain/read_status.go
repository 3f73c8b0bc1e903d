package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadStatus marks that a reader has seen a message. At most one row exists
// per (message, reader) pair; rows are created lazily and never mutated.
type ReadStatus struct {
	ID        uuid.UUID
	MessageID uuid.UUID
	UserID    string
	ReadAt    time.Time
}
