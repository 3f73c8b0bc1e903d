//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
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
	"github.com/code-wave07/ChatMeAPI/moderation"
	"github.com/code-wave07/ChatMeAPI/observability"
	"github.com/code-wave07/ChatMeAPI/projection"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

type SendRequest struct {
	ConversationID uuid.UUID
	Content        string
	MediaURL       *string
	Kind           domain.MessageKind
}

// IMessageService appends, lists and soft-deletes messages. A message is
// only ever accepted from a currently active member, and only ever listed
// through a membership's visibility window.
type IMessageService interface {
	Send(ctx context.Context, senderID string, req SendRequest) (projection.Message, error)
	GetHistory(ctx context.Context, userID string, conversationID uuid.UUID) ([]projection.Message, error)
	Delete(ctx context.Context, userID string, messageID uuid.UUID) error
}

type MessageService struct {
	store     *repositories.Store
	users     repositories.IUserRepository
	gateway   contract.IGateway
	moderator *moderation.Moderator
	metrics   *observability.Metrics
	log       *slog.Logger
}

func NewMessageService(store *repositories.Store, users repositories.IUserRepository,
	gateway contract.IGateway, moderator *moderation.Moderator,
	metrics *observability.Metrics, log *slog.Logger) *MessageService {
	return &MessageService{
		store: store, users: users, gateway: gateway,
		moderator: moderator, metrics: metrics, log: log,
	}
}

// Send persists the message and bumps the conversation's last activity in
// one transaction, then broadcasts it. The broadcast copy carries
// IsMine=false so every receiving client renders it as incoming; the
// returned copy carries IsMine=true for the sender's own echo.
func (s *MessageService) Send(_ context.Context, senderID string, req SendRequest) (projection.Message, error) {
	sender, err := s.users.Get(senderID)
	if err != nil {
		return projection.Message{}, err
	}

	content := req.Content
	if s.moderator != nil && req.Kind == domain.KindText {
		content = s.moderator.Censor(content)
	}

	now := time.Now().UTC()
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: req.ConversationID,
		SenderID:       senderID,
		Text:           content,
		MediaURL:       req.MediaURL,
		Kind:           req.Kind,
		SentAt:         now,
	}

	err = s.store.Update(func(uow *repositories.UnitOfWork) error {
		conversation, err := uow.Conversations.Get(req.ConversationID)
		if err != nil {
			return err
		}
		if _, ok, err := uow.Memberships.Active(req.ConversationID, senderID); err != nil {
			return err
		} else if !ok {
			return errors.Deniedf("you are not a member of this conversation")
		}

		if err = uow.Messages.Append(message); err != nil {
			return err
		}
		conversation.UpdatedAt = &now
		return uow.Conversations.Update(conversation)
	})
	if err != nil {
		return projection.Message{}, err
	}

	s.metrics.IncrMessagesSent()
	s.gateway.Broadcast(event.ReceiveMessage{
		Conversation: req.ConversationID,
		Message:      projection.NewMessage(message, sender.FullName(), false),
	})
	return projection.NewMessage(message, sender.FullName(), true), nil
}

// GetHistory lists what the user is allowed to see: messages sent at or
// after the JoinedAt of their current membership row, most recent row if
// they already left. Deleted messages are filtered out entirely.
func (s *MessageService) GetHistory(_ context.Context, userID string, conversationID uuid.UUID) ([]projection.Message, error) {
	var rows []domain.Message
	err := s.store.View(func(uow *repositories.UnitOfWork) error {
		if _, err := uow.Conversations.Get(conversationID); err != nil {
			return err
		}
		membership, ok, err := uow.Memberships.Current(conversationID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Deniedf("you are not a member of this conversation")
		}
		rows, err = uow.Messages.Since(conversationID, membership.JoinedAt, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	history := make([]projection.Message, 0, len(rows))
	for _, m := range rows {
		name, ok := names[m.SenderID]
		if !ok {
			name = s.senderName(m.SenderID)
			names[m.SenderID] = name
		}
		history = append(history, projection.NewMessage(m, name, m.SenderID == userID))
	}
	return history, nil
}

// Delete marks the message deleted for everyone. Only the sender may do
// it; a second call on an already deleted message is a no-op.
func (s *MessageService) Delete(_ context.Context, userID string, messageID uuid.UUID) error {
	var conversationID uuid.UUID
	alreadyDeleted := false
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		message, err := uow.Messages.Get(messageID)
		if err != nil {
			return err
		}
		if message.SenderID != userID {
			return errors.Deniedf("only the sender can delete a message")
		}
		conversationID = message.ConversationID
		if message.DeletedForEveryone {
			alreadyDeleted = true
			return nil
		}

		now := time.Now().UTC()
		message.DeletedForEveryone = true
		message.UpdatedAt = &now
		return uow.Messages.Update(message)
	})
	if err != nil || alreadyDeleted {
		return err
	}

	s.gateway.Broadcast(event.MessageDeleted{Conversation: conversationID, MessageID: messageID})
	return nil
}

// senderName resolves a display name, falling back to the placeholder for
// accounts that no longer resolve.
func (s *MessageService) senderName(userID string) string {
	user, err := s.users.Get(userID)
	if err != nil {
		s.log.Debug("sender lookup failed", "user_id", userID, "error", err)
		return projection.UnknownUser
	}
	return user.FullName()
}
