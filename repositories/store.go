// Package repositories persists the chat entities in BadgerDB behind an
// explicit unit of work: one badger transaction bundles every read and
// write of a request and commits (or rolls back) as a whole.
//
// Keys are composite strings with zero-padded nanosecond timestamps so
// chronological order is lexicographic, the same scheme Badger prefix
// scans rely on everywhere in this package.
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/code-wave07/ChatMeAPI/errors"
)

type Store struct {
	db  *badger.DB
	log *slog.Logger
}

func NewStore(db *badger.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// Update runs fn inside a single read-write transaction. The unit of work
// is only valid until fn returns. A conflicting concurrent commit surfaces
// as the retriable transient failure; domain failures returned by fn pass
// through untouched and roll the transaction back.
func (s *Store) Update(fn func(uow *UnitOfWork) error) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return fn(newUnitOfWork(txn))
	})
	return s.mapStorageError(err)
}

// View runs fn inside a read-only snapshot transaction.
func (s *Store) View(fn func(uow *UnitOfWork) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		return fn(newUnitOfWork(txn))
	})
	return s.mapStorageError(err)
}

// mapStorageError keeps domain failures intact and collapses everything
// badger-level into the transient kind, logging the cause here so no
// storage error text crosses the core boundary.
func (s *Store) mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrAuthorizationDenied),
		stderrors.Is(err, errors.ErrNotFound),
		stderrors.Is(err, errors.ErrInvariantViolation),
		stderrors.Is(err, errors.ErrUserAlreadyExists):
		return err
	case stderrors.Is(err, badger.ErrConflict):
		s.log.Debug("transaction conflict, caller may retry", "cause", err)
		return errors.ErrTransientStorage
	default:
		s.log.Error("storage failure", "cause", err)
		return errors.ErrTransientStorage
	}
}

// UnitOfWork is the scoped handle of one transaction: every entity
// repository below shares the same badger.Txn.
type UnitOfWork struct {
	Conversations ConversationRepository
	Memberships   MembershipRepository
	Messages      MessageRepository
	ReadStatuses  ReadStatusRepository
}

func newUnitOfWork(txn *badger.Txn) *UnitOfWork {
	return &UnitOfWork{
		Conversations: ConversationRepository{txn: txn},
		Memberships:   MembershipRepository{txn: txn},
		Messages:      MessageRepository{txn: txn},
		ReadStatuses:  ReadStatusRepository{txn: txn},
	}
}

func save(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

func load(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// scan visits every value under prefix in ascending key order.
func scan(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	options := badger.DefaultIteratorOptions
	options.Prefix = []byte(prefix)
	it := txn.NewIterator(options)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
