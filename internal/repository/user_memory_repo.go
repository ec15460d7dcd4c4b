package repository

import (
	"context"
	"sync"

	"go-session-auth/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs the server
// when no DATABASE_URL is configured and gives tests an isolated store.
type MemoryUserRepository struct {
	mu              sync.RWMutex
	usersByUsername map[string]model.User
	usersByID       map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		usersByUsername: map[string]model.User{},
		usersByID:       map[string]model.User{},
	}
}

// Create checks and inserts under one write lock.
func (r *MemoryUserRepository) Create(ctx context.Context, u model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByUsername[u.Username]; exists {
		return model.ErrUserAlreadyExists
	}
	if _, exists := r.usersByID[u.ID]; exists {
		return model.ErrUserAlreadyExists
	}

	r.usersByUsername[u.Username] = u
	r.usersByID[u.ID] = u
	return nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.usersByUsername[username]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.usersByID), nil
}
