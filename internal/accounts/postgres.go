package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository persists credentials in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a credential.
func (r *PostgresRepository) Create(ctx context.Context, cred Credential) (Credential, error) {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO credentials (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, cred.ID, cred.Username, cred.PasswordHash)
	if err := row.Scan(&cred.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Credential{}, ErrDuplicate
		}
		return Credential{}, err
	}
	return cred, nil
}

// FindByUsername looks up a credential.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Credential, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM credentials WHERE username = $1
	`, username)
	var cred Credential
	if err := row.Scan(&cred.ID, &cred.Username, &cred.PasswordHash, &cred.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	return cred, nil
}
