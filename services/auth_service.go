//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/auth"
	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (domain.User, error)
	Login(ctx context.Context, phoneNumber, password string) (string, error)
}

type AuthService struct {
	users         repositories.IUserRepository
	tokenDuration time.Duration
	log           *slog.Logger
}

func NewAuthService(users repositories.IUserRepository, tokenDuration time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokenDuration: tokenDuration, log: log}
}

// Register creates an account after validating the request and hashing the
// password. The phone number is the login identifier and must be unique.
func (s *AuthService) Register(_ context.Context, req auth.RegisterRequest) (domain.User, error) {
	if err := auth.ValidateRegister(req); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err = s.users.Create(user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and issues a signed token. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(_ context.Context, phoneNumber, password string) (string, error) {
	user, err := s.users.GetByPhone(phoneNumber)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		s.log.Error("token generation failed", "error", err)
		return "", errors.ErrTokenGeneration
	}
	return token, nil
}
