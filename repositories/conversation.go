package repositories

import (
	stderrors "errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
)

type ConversationRepository struct {
	txn *badger.Txn
}

func conversationKey(id uuid.UUID) string {
	return "conv:" + id.String()
}

func (r ConversationRepository) Create(c domain.Conversation) error {
	return save(r.txn, conversationKey(c.ID), c)
}

func (r ConversationRepository) Get(id uuid.UUID) (domain.Conversation, error) {
	var c domain.Conversation
	if err := load(r.txn, conversationKey(id), &c); err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Conversation{}, errors.NotFoundf("conversation %s does not exist", id)
		}
		return domain.Conversation{}, err
	}
	return c, nil
}

func (r ConversationRepository) Update(c domain.Conversation) error {
	return save(r.txn, conversationKey(c.ID), c)
}
