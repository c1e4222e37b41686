package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const selectStudent = `SELECT id, name, age, email, created_at, updated_at FROM students`

// PostgresRepository persists students in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.Name, &s.Age, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns all students, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, selectStudent+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Create inserts a student.
func (r *PostgresRepository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, age, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, age, email, created_at, updated_at
	`, s.ID, s.Name, s.Age, s.Email)
	return scanStudent(row)
}

// Get returns a student by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Student{}, ErrNotFound
	}
	s, err := scanStudent(r.db.QueryRowContext(ctx, selectStudent+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return s, err
}

// Update applies p to the student and returns the result.
func (r *PostgresRepository) Update(ctx context.Context, id string, p Patch) (Student, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Student{}, ErrNotFound
	}
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	if p.Name != nil {
		args = append(args, *p.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if p.Age != nil {
		args = append(args, *p.Age)
		sets = append(sets, fmt.Sprintf("age = $%d", len(args)))
	}
	if p.Email != nil {
		args = append(args, *p.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING id, name, age, email, created_at, updated_at
	`, args...)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return s, err
}

// Delete removes a student.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
