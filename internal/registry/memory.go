package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps registrations in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

// NewMemoryRepository creates an empty repo.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create inserts a registration.
func (r *MemoryRepository) Create(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Files = append([]string{}, u.Files...)
	u.CreatedAt = time.Now().UTC()
	r.users = append(r.users, u)
	return u, nil
}

// List returns a copy of all registrations.
func (r *MemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, len(r.users))
	copy(out, r.users)
	return out, nil
}
