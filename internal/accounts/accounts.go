// Package accounts stores login credentials and checks passwords against them.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus/internal/auth"
)

var (
	// ErrDuplicate is returned when the username is already registered.
	ErrDuplicate = errors.New("user already exists")
	// ErrNotFound is returned by repositories for unknown usernames.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingFields is returned when username or password is blank.
	ErrMissingFields = errors.New("username and password required")
)

// Credential is a username and its password hash.
type Credential struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Repository persists credentials. Username uniqueness is the
// implementation's job and surfaces as ErrDuplicate.
type Repository interface {
	Create(ctx context.Context, cred Credential) (Credential, error)
	FindByUsername(ctx context.Context, username string) (Credential, error)
}

// Service registers and authenticates users.
type Service struct {
	repo Repository
}

// NewService creates a service backed by a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register hashes password and stores a new credential.
func (s *Service) Register(ctx context.Context, username, password string) (Credential, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Credential{}, ErrMissingFields
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, Credential{Username: username, PasswordHash: hash})
}

// Authenticate returns the credential when password matches.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Credential, error) {
	cred, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Credential{}, ErrInvalidCredentials
		}
		return Credential{}, err
	}
	if !auth.CheckPassword(cred.PasswordHash, password) {
		return Credential{}, ErrInvalidCredentials
	}
	return cred, nil
}
