package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
)

func Test_User_Phone_Number_Is_Unique(t *testing.T) {
	req := require.New(t)
	users := NewUserRepository(newTestDB(t), slog.Default())

	alice := domain.User{
		ID: "alice-id", PhoneNumber: "+33612345678",
		FirstName: "Alice", LastName: "Martin", CreatedAt: time.Now().UTC(),
	}
	req.NoError(users.Create(alice))

	impostor := domain.User{
		ID: "other-id", PhoneNumber: "+33612345678",
		FirstName: "Alicia", LastName: "Martins", CreatedAt: time.Now().UTC(),
	}
	req.ErrorIs(users.Create(impostor), errors.ErrUserAlreadyExists)
}

func Test_User_Lookup_By_ID_And_Phone(t *testing.T) {
	req := require.New(t)
	users := NewUserRepository(newTestDB(t), slog.Default())

	bob := domain.User{
		ID: "bob-id", PhoneNumber: "+33698765432",
		FirstName: "Bob", LastName: "Morane", CreatedAt: time.Now().UTC(),
	}
	req.NoError(users.Create(bob))

	byID, err := users.Get("bob-id")
	req.NoError(err)
	req.Equal("Bob", byID.FirstName)

	byPhone, err := users.GetByPhone("+33698765432")
	req.NoError(err)
	req.Equal("bob-id", byPhone.ID)

	_, err = users.Get("nobody")
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = users.GetByPhone("+33600000000")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_User_All_Returns_Every_Account(t *testing.T) {
	req := require.New(t)
	users := NewUserRepository(newTestDB(t), slog.Default())

	for _, u := range []domain.User{
		{ID: "u1", PhoneNumber: "+33611111111", FirstName: "Ana", LastName: "A"},
		{ID: "u2", PhoneNumber: "+33622222222", FirstName: "Ben", LastName: "B"},
		{ID: "u3", PhoneNumber: "+33633333333", FirstName: "Cleo", LastName: "C"},
	} {
		req.NoError(users.Create(u))
	}

	all, err := users.All()
	req.NoError(err)
	req.Len(all, 3)
}
