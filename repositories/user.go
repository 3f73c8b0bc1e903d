//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
)

// IUserRepository is owned by the identity side: the chat engines only
// read it to check existence and resolve display names.
type IUserRepository interface {
	Create(user domain.User) error
	Get(id string) (domain.User, error)
	GetByPhone(phone string) (domain.User, error)
	All() ([]domain.User, error)
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) IUserRepository {
	return &UserRepository{db: db, log: log}
}

func userKey(id string) string {
	return "user:" + id
}

func userPhoneKey(phone string) string {
	return "userphone:" + phone
}

// Create persists the user and a phone-number uniqueness index entry in
// one transaction; an already-claimed phone number is rejected.
func (u UserRepository) Create(user domain.User) error {
	err := u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(userPhoneKey(user.PhoneNumber))); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := save(txn, userKey(user.ID), user); err != nil {
			return err
		}
		return txn.Set([]byte(userPhoneKey(user.PhoneNumber)), []byte(user.ID))
	})
	if err != nil && !stderrors.Is(err, errors.ErrUserAlreadyExists) {
		u.log.Error("user creation failed", "cause", err)
		return errors.ErrTransientStorage
	}
	return err
}

func (u UserRepository) Get(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return load(txn, userKey(id), &user)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.NotFoundf("user %s does not exist", id)
	}
	if err != nil {
		return domain.User{}, errors.ErrTransientStorage
	}
	return user, nil
}

func (u UserRepository) GetByPhone(phone string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userPhoneKey(phone)))
		if err != nil {
			return err
		}
		var id string
		if err = item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return load(txn, userKey(id), &user)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.NotFoundf("no user with this phone number")
	}
	if err != nil {
		return domain.User{}, errors.ErrTransientStorage
	}
	return user, nil
}

// All streams every user record; the directory filters and orders in
// memory.
func (u UserRepository) All() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return scan(txn, "user:", func(val []byte) error {
			var user domain.User
			if err := json.Unmarshal(val, &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	if err != nil {
		u.log.Error("user scan failed", "cause", err)
		return nil, errors.ErrTransientStorage
	}
	return users, nil
}
