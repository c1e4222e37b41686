package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository keeps registrations in Postgres with files as JSONB.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a registration.
func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Files == nil {
		u.Files = []string{}
	}
	files, err := json.Marshal(u.Files)
	if err != nil {
		return User{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (id, name, email, files)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, u.ID, u.Name, u.Email, files)
	if err := row.Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicate
		}
		return User{}, err
	}
	return u, nil
}

// List returns all registrations, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, files, created_at
		FROM registrations
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []User
	for rows.Next() {
		var u User
		var files []byte
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &files, &u.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(files, &u.Files); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}
