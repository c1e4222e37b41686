package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps credentials in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Credential
}

// NewMemoryRepository creates an empty repo.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Credential)}
}

// Create inserts a credential.
func (r *MemoryRepository) Create(_ context.Context, cred Credential) (Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[cred.Username]; ok {
		return Credential{}, ErrDuplicate
	}
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	cred.CreatedAt = time.Now().UTC()
	r.items[cred.Username] = cred
	return cred, nil
}

// FindByUsername looks up a credential.
func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.items[username]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return cred, nil
}
