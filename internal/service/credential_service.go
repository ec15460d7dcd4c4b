package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-session-auth/internal/metrics"
	"go-session-auth/internal/model"
)

// UserRepository is the durable store behind CredentialService. Create must
// reject a duplicate username atomically with model.ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// dummyPassword is hashed once at construction. Unknown usernames are still
// compared against it so lookups of missing users take as long as real ones.
const dummyPassword = "not-a-real-password"

type CredentialService struct {
	users     UserRepository
	hasher    PasswordHasher
	dummyHash string
	now       func() time.Time
}

func NewCredentialService(users UserRepository, hasher PasswordHasher) (*CredentialService, error) {
	if users == nil {
		return nil, errors.New("user repository is required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher is required")
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &CredentialService{
		users:     users,
		hasher:    hasher,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// Create registers a new user and returns its id.
func (s *CredentialService) Create(ctx context.Context, in model.Credentials) (string, error) {
	if err := ValidateCredentials(in); err != nil {
		metrics.RecordRegistration(metrics.ResultValidationError)
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.RecordRegistration(metrics.ResultError)
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			metrics.RecordRegistration(metrics.ResultConflict)
			return "", model.ErrUserAlreadyExists
		}
		metrics.RecordRegistration(metrics.ResultError)
		return "", err
	}

	metrics.RecordRegistration(metrics.ResultSuccess)
	return user.ID, nil
}

// VerifyCredentials checks a username/password pair and returns the public
// view of the matching user.
func (s *CredentialService) VerifyCredentials(ctx context.Context, in model.Credentials) (model.PublicUser, error) {
	if err := ValidateCredentials(in); err != nil {
		metrics.RecordLogin(metrics.ResultValidationError)
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		_ = s.hasher.Compare(s.dummyHash, in.Password)
		metrics.RecordLogin(metrics.ResultNotFound)
		return model.PublicUser{}, model.ErrUserNotFound
	}
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return model.PublicUser{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, model.ErrInvalidPassword) {
			metrics.RecordLogin(metrics.ResultInvalidPassword)
			return model.PublicUser{}, model.ErrInvalidPassword
		}
		metrics.RecordLogin(metrics.ResultError)
		return model.PublicUser{}, fmt.Errorf("compare password: %w", err)
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	return user.Public(), nil
}
