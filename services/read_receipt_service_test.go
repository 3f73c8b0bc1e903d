package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/domain/event"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/mocks"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

func newReadReceiptService(t *testing.T) (*ReadReceiptService, *mocks.MockIGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockIGateway(ctrl)
	svc := NewReadReceiptService(newTestStore(t), gateway, slog.Default())
	return svc, gateway
}

func seedMessage(t *testing.T, store *repositories.Store, conversationID uuid.UUID, senderID, text string, at time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := store.Update(func(uow *repositories.UnitOfWork) error {
		return uow.Messages.Append(domain.Message{
			ID: id, ConversationID: conversationID,
			SenderID: senderID, Text: text, SentAt: at,
		})
	})
	require.NoError(t, err)
	return id
}

func TestReadReceiptService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("marks visible messages once and fires a single event", func(t *testing.T) {
		req := require.New(t)
		svc, gateway := newReadReceiptService(t)
		conversationID := seedGroup(t, svc.store, "team", map[string]domain.Role{
			"alice": domain.RoleAdmin,
			"bob":   domain.RoleMember,
		})
		now := time.Now().UTC()
		fromAlice := seedMessage(t, svc.store, conversationID, "alice", "hello", now.Add(time.Second))
		fromBob := seedMessage(t, svc.store, conversationID, "bob", "hi back", now.Add(2*time.Second))

		gateway.EXPECT().Broadcast(event.MessagesRead{
			Conversation: conversationID, ReaderID: "bob",
		}).Times(1)

		req.NoError(svc.MarkRead(ctx, "bob", conversationID))

		err := svc.store.View(func(uow *repositories.UnitOfWork) error {
			// Alice's message is marked, bob's own is not.
			exists, err := uow.ReadStatuses.Exists(fromAlice, "bob")
			req.NoError(err)
			req.True(exists)

			exists, err = uow.ReadStatuses.Exists(fromBob, "bob")
			req.NoError(err)
			req.False(exists)
			return nil
		})
		req.NoError(err)

		// Nothing new to mark: no second MessagesRead.
		req.NoError(svc.MarkRead(ctx, "bob", conversationID))
	})

	t.Run("concurrent calls leave exactly one receipt per message", func(t *testing.T) {
		req := require.New(t)
		svc, gateway := newReadReceiptService(t)
		conversationID := seedGroup(t, svc.store, "team", map[string]domain.Role{
			"alice": domain.RoleAdmin,
			"bob":   domain.RoleMember,
		})
		now := time.Now().UTC()
		first := seedMessage(t, svc.store, conversationID, "alice", "one", now.Add(time.Second))
		second := seedMessage(t, svc.store, conversationID, "alice", "two", now.Add(2*time.Second))

		// Only the call that commits new receipts fires the event.
		gateway.EXPECT().Broadcast(event.MessagesRead{
			Conversation: conversationID, ReaderID: "bob",
		}).Times(1)

		const readers = 8
		results := make(chan error, readers)
		var wg sync.WaitGroup
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- svc.MarkRead(ctx, "bob", conversationID)
			}()
		}
		wg.Wait()
		close(results)

		// A loser of the commit race may only fail with the retriable kind.
		for err := range results {
			if err != nil {
				req.ErrorIs(err, errors.ErrTransientStorage)
			}
		}

		err := svc.store.View(func(uow *repositories.UnitOfWork) error {
			for _, id := range []uuid.UUID{first, second} {
				receipts, err := uow.ReadStatuses.ByMessage(id)
				req.NoError(err)
				req.Len(receipts, 1)
				req.Equal("bob", receipts[0].UserID)
			}
			return nil
		})
		req.NoError(err)
	})

	t.Run("messages before the join floor are never marked", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newReadReceiptService(t)
		conversationID := seedGroup(t, svc.store, "team", map[string]domain.Role{
			"alice": domain.RoleAdmin,
		})
		// Sent well before anyone's JoinedAt in this seed.
		old := seedMessage(t, svc.store, conversationID, "bob", "ancient", time.Now().UTC().Add(-time.Hour))

		req.NoError(svc.MarkRead(ctx, "alice", conversationID))

		err := svc.store.View(func(uow *repositories.UnitOfWork) error {
			exists, err := uow.ReadStatuses.Exists(old, "alice")
			req.NoError(err)
			req.False(exists)
			return nil
		})
		req.NoError(err)
	})

	t.Run("unknown conversation is not found", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newReadReceiptService(t)

		err := svc.MarkRead(ctx, "alice", uuid.New())
		req.ErrorIs(err, errors.ErrNotFound)
	})

	t.Run("denies a non member", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newReadReceiptService(t)
		conversationID := seedGroup(t, svc.store, "team", map[string]domain.Role{
			"alice": domain.RoleAdmin,
		})

		err := svc.MarkRead(ctx, "stranger", conversationID)
		req.ErrorIs(err, errors.ErrAuthorizationDenied)
	})
}
