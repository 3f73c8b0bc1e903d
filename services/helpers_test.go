package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repositories.NewStore(db, slog.Default())
}

// seedGroup creates a group conversation with the given user roles,
// bypassing the service layer so tests can stage any role layout.
func seedGroup(t *testing.T, store *repositories.Store, name string, roles map[string]domain.Role) uuid.UUID {
	t.Helper()
	conversationID := uuid.New()
	now := time.Now().UTC()
	err := store.Update(func(uow *repositories.UnitOfWork) error {
		conversation := domain.Conversation{
			ID: conversationID, Type: domain.Group, Name: lo.ToPtr(name), CreatedAt: now,
		}
		if err := uow.Conversations.Create(conversation); err != nil {
			return err
		}
		for userID, role := range roles {
			m := domain.Membership{
				ID: uuid.New(), ConversationID: conversationID,
				UserID: userID, Role: role, JoinedAt: now,
			}
			if err := uow.Memberships.Add(m); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return conversationID
}

func activeMembership(t *testing.T, store *repositories.Store, conversationID uuid.UUID, userID string) (domain.Membership, bool) {
	t.Helper()
	var membership domain.Membership
	var ok bool
	err := store.View(func(uow *repositories.UnitOfWork) error {
		var err error
		membership, ok, err = uow.Memberships.Active(conversationID, userID)
		return err
	})
	require.NoError(t, err)
	return membership, ok
}

func testUser(id, firstName, lastName string) domain.User {
	return domain.User{
		ID:          id,
		PhoneNumber: "+3361234" + id,
		FirstName:   firstName,
		LastName:    lastName,
		CreatedAt:   time.Now().UTC(),
	}
}
