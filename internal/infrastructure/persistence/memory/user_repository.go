package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartshop/backend/internal/domain/identity"
	"github.com/smartshop/backend/internal/domain/shared"
)

// UserRepository is an in-memory identity.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]identity.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]identity.User)}
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username = strings.ToLower(strings.TrimSpace(username))
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByRole finds users with the given role
func (r *UserRepository) FindByRole(_ context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]identity.User, 0)
	for _, user := range r.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	byCreatedAt(matched, func(u identity.User) time.Time { return u.CreatedAt })
	return paginate(matched, filter), nil
}

// ExistsByUsername checks if a username is taken
func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username = strings.ToLower(strings.TrimSpace(username))
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Save creates or updates a user
func (r *UserRepository) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = *user
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var _ identity.UserRepository = (*UserRepository)(nil)
