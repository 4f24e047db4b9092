package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/rentscope/internal/common"
	"github.com/dmitrijs2005/rentscope/internal/server/models"
)

// InMemoryRepository keeps identities in a map keyed by email. Records do not
// survive a restart; it backs tests and the "memory" store kind.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.users[user.Email] = *user

	return user, nil
}

func (r *InMemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
