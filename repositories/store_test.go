package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(newTestDB(t), slog.Default())
}

func Test_Conversation_Create_And_Get(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	conversation := domain.Conversation{
		ID:   uuid.New(),
		Type: domain.Group,
		Name: lo.ToPtr("badger fans"),
	}
	err := store.Update(func(uow *UnitOfWork) error {
		return uow.Conversations.Create(conversation)
	})
	req.NoError(err)

	var fetched domain.Conversation
	err = store.View(func(uow *UnitOfWork) error {
		var err error
		fetched, err = uow.Conversations.Get(conversation.ID)
		return err
	})
	req.NoError(err)
	req.Equal(conversation.ID, fetched.ID)
	req.Equal(domain.Group, fetched.Type)
	req.Equal("badger fans", *fetched.Name)
}

func Test_Conversation_Get_Unknown_Returns_NotFound(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	err := store.View(func(uow *UnitOfWork) error {
		_, err := uow.Conversations.Get(uuid.New())
		return err
	})
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Update_Rolls_Back_On_Domain_Error(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	conversation := domain.Conversation{ID: uuid.New(), Type: domain.Private}
	err := store.Update(func(uow *UnitOfWork) error {
		if err := uow.Conversations.Create(conversation); err != nil {
			return err
		}
		return errors.Invariantf("abort after write")
	})
	req.ErrorIs(err, errors.ErrInvariantViolation)

	// The write above must not have survived the rollback.
	err = store.View(func(uow *UnitOfWork) error {
		_, err := uow.Conversations.Get(conversation.ID)
		return err
	})
	req.ErrorIs(err, errors.ErrNotFound)
}
