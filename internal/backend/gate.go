package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"campus/internal/accounts"
	"campus/internal/registry"
	"campus/internal/students"
)

// ErrNotReady is returned while the datastore schema or indexes are missing.
var ErrNotReady = errors.New("datastore not ready")

// gate runs ensure before the first call that finds it unfinished and keeps
// retrying on later calls until it succeeds once.
type gate struct {
	name   string
	ensure func(ctx context.Context) error

	mu   sync.Mutex
	done atomic.Bool
}

func newGate(name string, ensure func(ctx context.Context) error) *gate {
	return &gate{name: name, ensure: ensure}
}

func (g *gate) ready(ctx context.Context) error {
	if g.done.Load() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done.Load() {
		return nil
	}
	if err := g.ensure(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotReady, g.name, err)
	}
	g.done.Store(true)
	return nil
}

type gatedAccounts struct {
	gate *gate
	repo accounts.Repository
}

func (a gatedAccounts) Create(ctx context.Context, cred accounts.Credential) (accounts.Credential, error) {
	if err := a.gate.ready(ctx); err != nil {
		return accounts.Credential{}, err
	}
	return a.repo.Create(ctx, cred)
}

func (a gatedAccounts) FindByUsername(ctx context.Context, username string) (accounts.Credential, error) {
	if err := a.gate.ready(ctx); err != nil {
		return accounts.Credential{}, err
	}
	return a.repo.FindByUsername(ctx, username)
}

type gatedRegistry struct {
	gate *gate
	repo registry.Repository
}

func (r gatedRegistry) Create(ctx context.Context, u registry.User) (registry.User, error) {
	if err := r.gate.ready(ctx); err != nil {
		return registry.User{}, err
	}
	return r.repo.Create(ctx, u)
}

func (r gatedRegistry) List(ctx context.Context) ([]registry.User, error) {
	if err := r.gate.ready(ctx); err != nil {
		return nil, err
	}
	return r.repo.List(ctx)
}

type gatedStudents struct {
	gate *gate
	repo students.Repository
}

func (s gatedStudents) List(ctx context.Context) ([]students.Student, error) {
	if err := s.gate.ready(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s gatedStudents) Create(ctx context.Context, st students.Student) (students.Student, error) {
	if err := s.gate.ready(ctx); err != nil {
		return students.Student{}, err
	}
	return s.repo.Create(ctx, st)
}

func (s gatedStudents) Get(ctx context.Context, id string) (students.Student, error) {
	if err := s.gate.ready(ctx); err != nil {
		return students.Student{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s gatedStudents) Update(ctx context.Context, id string, p students.Patch) (students.Student, error) {
	if err := s.gate.ready(ctx); err != nil {
		return students.Student{}, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s gatedStudents) Delete(ctx context.Context, id string) error {
	if err := s.gate.ready(ctx); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
