package students

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps students in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Student
	now   func() time.Time
}

// NewMemoryRepository creates an empty repo.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Student), now: time.Now}
}

// List returns all students, oldest first.
func (r *MemoryRepository) List(_ context.Context) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Student, 0, len(r.items))
	for _, s := range r.items {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

// Create inserts a student.
func (r *MemoryRepository) Create(_ context.Context, s Student) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := r.now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.items[s.ID] = s
	return s, nil
}

// Get returns a student by id.
func (r *MemoryRepository) Get(_ context.Context, id string) (Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return Student{}, ErrNotFound
	}
	return s, nil
}

// Update applies p to the student and returns the result.
func (r *MemoryRepository) Update(_ context.Context, id string, p Patch) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return Student{}, ErrNotFound
	}
	if p.Empty() {
		return s, nil
	}
	s = p.Apply(s)
	s.UpdatedAt = r.now().UTC()
	r.items[id] = s
	return s, nil
}

// Delete removes a student.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
