package service

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-session-auth/internal/metrics"
	"go-session-auth/internal/model"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns model.ErrInvalidPassword on mismatch.
	Compare(hash string, password string) error
}

// BcryptHasher hashes with a fixed cost factor. The salt and cost are
// embedded in the resulting hash string.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	defer metrics.ObservePasswordHash("hash", time.Now())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	defer metrics.ObservePasswordHash("compare", time.Now())

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrInvalidPassword
	}
	return err
}
