package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain"
)

func Test_Messages_Are_Returned_In_Chronological_Order(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	conversationID := uuid.New()
	now := time.Now().UTC()

	// Inserted out of order on purpose.
	offsets := []int{3, 1, 2, 0, 4}
	err := store.Update(func(uow *UnitOfWork) error {
		for _, i := range offsets {
			m := domain.Message{
				ID:             uuid.New(),
				ConversationID: conversationID,
				SenderID:       "alice",
				Text:           fmt.Sprintf("message %d", i),
				SentAt:         now.Add(time.Duration(i) * time.Minute),
			}
			if err := uow.Messages.Append(m); err != nil {
				return err
			}
		}
		return nil
	})
	req.NoError(err)

	err = store.View(func(uow *UnitOfWork) error {
		messages, err := uow.Messages.Since(conversationID, time.Time{}, false)
		req.NoError(err)
		req.Len(messages, 5)
		for i, m := range messages {
			req.Equal(fmt.Sprintf("message %d", i), m.Text)
		}
		return nil
	})
	req.NoError(err)
}

func Test_Since_Applies_The_Floor(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	conversationID := uuid.New()
	now := time.Now().UTC()
	floor := now.Add(2 * time.Minute)

	err := store.Update(func(uow *UnitOfWork) error {
		for i := 0; i < 5; i++ {
			m := domain.Message{
				ID:             uuid.New(),
				ConversationID: conversationID,
				SenderID:       "bob",
				Text:           fmt.Sprintf("message %d", i),
				SentAt:         now.Add(time.Duration(i) * time.Minute),
			}
			if err := uow.Messages.Append(m); err != nil {
				return err
			}
		}
		return nil
	})
	req.NoError(err)

	err = store.View(func(uow *UnitOfWork) error {
		messages, err := uow.Messages.Since(conversationID, floor, false)
		req.NoError(err)
		// The message sent exactly at the floor is included.
		req.Len(messages, 3)
		req.Equal("message 2", messages[0].Text)
		return nil
	})
	req.NoError(err)
}

func Test_Since_Skips_Deleted_Messages(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	conversationID := uuid.New()
	now := time.Now().UTC()

	deleted := domain.Message{
		ID: uuid.New(), ConversationID: conversationID, SenderID: "alice",
		Text: "oops", SentAt: now, DeletedForEveryone: true,
	}
	visible := domain.Message{
		ID: uuid.New(), ConversationID: conversationID, SenderID: "alice",
		Text: "still here", SentAt: now.Add(time.Minute),
	}

	err := store.Update(func(uow *UnitOfWork) error {
		if err := uow.Messages.Append(deleted); err != nil {
			return err
		}
		return uow.Messages.Append(visible)
	})
	req.NoError(err)

	err = store.View(func(uow *UnitOfWork) error {
		messages, err := uow.Messages.Since(conversationID, time.Time{}, false)
		req.NoError(err)
		req.Len(messages, 1)
		req.Equal("still here", messages[0].Text)

		all, err := uow.Messages.Since(conversationID, time.Time{}, true)
		req.NoError(err)
		req.Len(all, 2)
		return nil
	})
	req.NoError(err)
}

func Test_Message_Get_By_ID_And_Update(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       "alice",
		Text:           "hello",
		SentAt:         time.Now().UTC(),
	}

	err := store.Update(func(uow *UnitOfWork) error {
		return uow.Messages.Append(message)
	})
	req.NoError(err)

	err = store.Update(func(uow *UnitOfWork) error {
		fetched, err := uow.Messages.Get(message.ID)
		req.NoError(err)
		req.Equal("hello", fetched.Text)

		fetched.DeletedForEveryone = true
		return uow.Messages.Update(fetched)
	})
	req.NoError(err)

	err = store.View(func(uow *UnitOfWork) error {
		fetched, err := uow.Messages.Get(message.ID)
		req.NoError(err)
		req.True(fetched.DeletedForEveryone)
		return nil
	})
	req.NoError(err)
}
