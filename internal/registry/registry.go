// Package registry stores the people who registered through the upload form
// together with the names of the files they uploaded.
package registry

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate is returned when the email is already registered.
var ErrDuplicate = errors.New("email already registered")

// User is a registration record.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Files     []string  `json:"files" bson:"files"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Repository persists registrations. Email uniqueness is enforced here.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	List(ctx context.Context) ([]User, error)
}
