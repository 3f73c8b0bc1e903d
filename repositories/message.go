package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
)

type MessageRepository struct {
	txn *badger.Txn
}

// messageKey formats "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order), which makes a member's visibility floor a
//     plain seek.
//  2. Prevent data loss by using the UUID as a collision disconnector if
//     two messages arrive at the same nanosecond.
func messageKey(conversationID uuid.UUID, sentAt time.Time, id uuid.UUID) string {
	return fmt.Sprintf("msg:%s:%019d:%s", conversationID, sentAt.UnixNano(), id)
}

func messageRefKey(id uuid.UUID) string {
	return "msgref:" + id.String()
}

// Append stores the message row and an id-to-key reference so the row can
// later be found without knowing its timestamp.
func (r MessageRepository) Append(m domain.Message) error {
	key := messageKey(m.ConversationID, m.SentAt, m.ID)
	if err := save(r.txn, key, m); err != nil {
		return err
	}
	return r.txn.Set([]byte(messageRefKey(m.ID)), []byte(key))
}

func (r MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	item, err := r.txn.Get([]byte(messageRefKey(id)))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.NotFoundf("message %s does not exist", id)
	}
	if err != nil {
		return domain.Message{}, err
	}
	var key string
	if err = item.Value(func(val []byte) error {
		key = string(val)
		return nil
	}); err != nil {
		return domain.Message{}, err
	}
	var m domain.Message
	if err = load(r.txn, key, &m); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

// Update rewrites the row in place; SentAt is immutable so the key is stable.
func (r MessageRepository) Update(m domain.Message) error {
	return save(r.txn, messageKey(m.ConversationID, m.SentAt, m.ID), m)
}

// Since returns the conversation's messages with SentAt at or after floor,
// ascending. Rows deleted for everyone are skipped unless includeDeleted.
func (r MessageRepository) Since(conversationID uuid.UUID, floor time.Time, includeDeleted bool) ([]domain.Message, error) {
	prefix := fmt.Sprintf("msg:%s:", conversationID)
	seekKey := prefix
	if !floor.IsZero() && floor.UnixNano() > 0 {
		seekKey = fmt.Sprintf("%s%019d", prefix, floor.UnixNano())
	}

	options := badger.DefaultIteratorOptions
	options.Prefix = []byte(prefix)
	it := r.txn.NewIterator(options)
	defer it.Close()

	var messages []domain.Message
	for it.Seek([]byte(seekKey)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		var m domain.Message
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
		if err != nil {
			return nil, err
		}
		if m.DeletedForEveryone && !includeDeleted {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}
