// Package students holds the student records managed from the admin panel.
package students

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no student has the given id.
var ErrNotFound = errors.New("student not found")

// Student is a managed record.
type Student struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Age       int       `json:"age" bson:"age"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Patch lists the fields an update changes; nil fields are left alone.
type Patch struct {
	Name  *string
	Age   *int
	Email *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Age == nil && p.Email == nil
}

// Apply returns s with the patch applied.
func (p Patch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	return s
}

// Repository maps each admin operation onto one datastore call.
type Repository interface {
	List(ctx context.Context) ([]Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Get(ctx context.Context, id string) (Student, error)
	Update(ctx context.Context, id string, p Patch) (Student, error)
	Delete(ctx context.Context, id string) error
}
