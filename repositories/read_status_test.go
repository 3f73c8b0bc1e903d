package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain"
)

func Test_ReadStatus_Exists_After_Add(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	messageID := uuid.New()

	err := store.View(func(uow *UnitOfWork) error {
		exists, err := uow.ReadStatuses.Exists(messageID, "alice")
		req.NoError(err)
		req.False(exists)
		return nil
	})
	req.NoError(err)

	err = store.Update(func(uow *UnitOfWork) error {
		return uow.ReadStatuses.Add(domain.ReadStatus{
			ID:        uuid.New(),
			MessageID: messageID,
			UserID:    "alice",
			ReadAt:    time.Now().UTC(),
		})
	})
	req.NoError(err)

	err = store.View(func(uow *UnitOfWork) error {
		exists, err := uow.ReadStatuses.Exists(messageID, "alice")
		req.NoError(err)
		req.True(exists)

		// Another reader of the same message is still unmarked.
		exists, err = uow.ReadStatuses.Exists(messageID, "bob")
		req.NoError(err)
		req.False(exists)

		receipts, err := uow.ReadStatuses.ByMessage(messageID)
		req.NoError(err)
		req.Len(receipts, 1)
		req.Equal("alice", receipts[0].UserID)
		return nil
	})
	req.NoError(err)
}
