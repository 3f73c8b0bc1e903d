package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain"
)

type ReadStatusRepository struct {
	txn *badger.Txn
}

// readKey carries the (message, reader) pair in the key itself, so the
// at-most-one-receipt invariant holds even across racing commits: two
// writers can only ever produce one row.
func readKey(messageID uuid.UUID, userID string) string {
	return fmt.Sprintf("read:%s:%s", messageID, userID)
}

func (r ReadStatusRepository) Exists(messageID uuid.UUID, userID string) (bool, error) {
	_, err := r.txn.Get([]byte(readKey(messageID, userID)))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r ReadStatusRepository) Add(rs domain.ReadStatus) error {
	return save(r.txn, readKey(rs.MessageID, rs.UserID), rs)
}

// ByMessage lists every receipt recorded for one message, one per reader.
func (r ReadStatusRepository) ByMessage(messageID uuid.UUID) ([]domain.ReadStatus, error) {
	var receipts []domain.ReadStatus
	err := scan(r.txn, fmt.Sprintf("read:%s:", messageID), func(val []byte) error {
		var rs domain.ReadStatus
		if err := json.Unmarshal(val, &rs); err != nil {
			return err
		}
		receipts = append(receipts, rs)
		return nil
	})
	return receipts, err
}
