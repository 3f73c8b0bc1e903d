//go:generate go run go.uber.org/mock/mockgen -source=read_receipt_service.go -destination=../mocks/mock_read_receipt_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/contract"
	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/domain/event"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

// IReadReceiptService records which messages a user has seen. MarkRead is
// idempotent: the (message, user) pair is unique at the storage key level,
// so repeated calls can never produce duplicate receipts.
type IReadReceiptService interface {
	MarkRead(ctx context.Context, userID string, conversationID uuid.UUID) error
}

type ReadReceiptService struct {
	store   *repositories.Store
	gateway contract.IGateway
	log     *slog.Logger
}

func NewReadReceiptService(store *repositories.Store, gateway contract.IGateway, log *slog.Logger) *ReadReceiptService {
	return &ReadReceiptService{store: store, gateway: gateway, log: log}
}

// MarkRead records a receipt for every message visible to the reader that
// is not their own and not yet marked. The sweep and the writes share one
// transaction, so a racing duplicate call conflicts instead of double
// writing. The MessagesRead event only fires when at least one new receipt
// was recorded.
func (s *ReadReceiptService) MarkRead(_ context.Context, userID string, conversationID uuid.UUID) error {
	marked := 0
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		marked = 0
		if _, err := uow.Conversations.Get(conversationID); err != nil {
			return err
		}
		membership, ok, err := uow.Memberships.Active(conversationID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Deniedf("you are not a member of this conversation")
		}

		messages, err := uow.Messages.Since(conversationID, membership.JoinedAt, false)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, m := range messages {
			if m.SenderID == userID {
				continue
			}
			exists, err := uow.ReadStatuses.Exists(m.ID, userID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			receipt := domain.ReadStatus{
				ID:        uuid.New(),
				MessageID: m.ID,
				UserID:    userID,
				ReadAt:    now,
			}
			if err = uow.ReadStatuses.Add(receipt); err != nil {
				return err
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if marked > 0 {
		s.gateway.Broadcast(event.MessagesRead{Conversation: conversationID, ReaderID: userID})
	}
	return nil
}
