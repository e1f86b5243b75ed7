package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/atinyakov/siteadmin/internal/models"
)

// PostgresAuthRepository stores admins and their tokens in PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// CreateAdmin inserts a. A taken email yields ErrConflict.
func (r *PostgresAuthRepository) CreateAdmin(ctx context.Context, a models.Admin) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO admins (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("CreateAdmin: %w", err)
	}
	return nil
}

// GetAdminByEmail looks an admin up by login email.
func (r *PostgresAuthRepository) GetAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM admins WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("GetAdminByEmail: %w", err)
	}
	return a, nil
}

// CountAdmins returns the number of admin accounts.
func (r *PostgresAuthRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountAdmins: %w", err)
	}
	return n, nil
}

// SaveToken stores an issued token.
func (r *PostgresAuthRepository) SaveToken(ctx context.Context, t models.Token) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tokens (value, admin_id, created_at) VALUES ($1, $2, $3)`,
		t.Value, t.AdminID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("SaveToken: %w", err)
	}
	return nil
}

// GetToken returns the stored token with value.
func (r *PostgresAuthRepository) GetToken(ctx context.Context, value string) (models.Token, error) {
	var t models.Token
	err := r.DB.QueryRowContext(ctx,
		`SELECT value, admin_id, created_at FROM tokens WHERE value = $1`,
		value,
	).Scan(&t.Value, &t.AdminID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Token{}, ErrNotFound
	}
	if err != nil {
		return models.Token{}, fmt.Errorf("GetToken: %w", err)
	}
	return t, nil
}

// PurgeTokens deletes tokens issued before cutoff and reports how many went.
func (r *PostgresAuthRepository) PurgeTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tokens WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("PurgeTokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
