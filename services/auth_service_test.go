package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/code-wave07/ChatMeAPI/auth"
	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/mocks"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour, slog.Default())

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)

		// Expect Create to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				req.NotEmpty(user.PasswordHash)
				req.NotEqual("ComplexPass123!!", user.PasswordHash)
				return nil
			}).
			Times(1)

		user, err := svc.Register(ctx, auth.RegisterRequest{
			PhoneNumber: "+33612345678",
			FirstName:   "Alice",
			LastName:    "Martin",
			Password:    "ComplexPass123!!",
		})

		req.NoError(err)
		req.NotEmpty(user.ID)
		req.Empty(user.PasswordHash)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().Create(gomock.Any()).Times(0)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			PhoneNumber: "+33612345678",
			FirstName:   "Alice",
			LastName:    "Martin",
			Password:    "simplesimplesimple",
		})

		req.ErrorIs(err, errors.ErrInvalidPassword)
	})

	t.Run("should fail when the phone number is already taken", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			Create(gomock.Any()).
			Return(errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			PhoneNumber: "+33612345678",
			FirstName:   "Alice",
			LastName:    "Martin",
			Password:    "ComplexPass123!!",
		})

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})

	t.Run("should reject a malformed phone number", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().Create(gomock.Any()).Times(0)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			PhoneNumber: "0612345678",
			FirstName:   "Alice",
			LastName:    "Martin",
			Password:    "ComplexPass123!!",
		})

		req.Error(err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, 24*time.Hour, slog.Default())

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		phone := "+33612345678"
		password := "Secret123456!!"

		hashedPassword, _ := auth.HashPassword(password)
		storedUser := domain.User{
			ID:           "uuid-123",
			PhoneNumber:  phone,
			PasswordHash: hashedPassword,
		}

		mockRepo.EXPECT().
			GetByPhone(phone).
			Return(storedUser, nil).
			Times(1)

		token, err := svc.Login(ctx, phone, password)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(token)
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
	})

	t.Run("should return invalid credentials on a wrong password", func(t *testing.T) {
		req := require.New(t)
		phone := "+33612345678"

		hashedPassword, _ := auth.HashPassword("CorrectPassword123!")
		storedUser := domain.User{PhoneNumber: phone, PasswordHash: hashedPassword}

		mockRepo.EXPECT().
			GetByPhone(phone).
			Return(storedUser, nil).
			Times(1)

		_, err := svc.Login(ctx, phone, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetByPhone("+33600000000").
			Return(domain.User{}, errors.NotFoundf("no user with this phone number")).
			Times(1)

		_, err := svc.Login(ctx, "+33600000000", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
