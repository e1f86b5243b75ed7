package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/siteadmin/internal/models"
)

// PostgresContentRepository stores content documents as JSONB rows.
type PostgresContentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresContentRepository creates a new PostgresContentRepository using the provided *sql.DB.
func NewPostgresContentRepository(db *sql.DB) *PostgresContentRepository {
	return &PostgresContentRepository{DB: db}
}

// List returns every document of kind in creation order.
func (r *PostgresContentRepository) List(ctx context.Context, kind string) ([]models.Document, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT kind, id, body, created_at FROM documents WHERE kind = $1 ORDER BY created_at, id
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		var body []byte
		if err := rows.Scan(&d.Kind, &d.ID, &body, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		d.Body = body
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return docs, nil
}

// Get returns one document.
func (r *PostgresContentRepository) Get(ctx context.Context, kind, id string) (models.Document, error) {
	var d models.Document
	var body []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT kind, id, body, created_at FROM documents WHERE kind = $1 AND id = $2
	`, kind, id).Scan(&d.Kind, &d.ID, &body, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("Get: %w", err)
	}
	d.Body = body
	return d, nil
}

// Create inserts d. An existing kind/id pair yields ErrConflict.
func (r *PostgresContentRepository) Create(ctx context.Context, d models.Document) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO documents (kind, id, body, created_at) VALUES ($1, $2, $3, $4)
	`, d.Kind, d.ID, []byte(d.Body), d.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update replaces the body of an existing document.
func (r *PostgresContentRepository) Update(ctx context.Context, d models.Document) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE documents SET body = $3 WHERE kind = $1 AND id = $2
	`, d.Kind, d.ID, []byte(d.Body))
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert creates d or replaces its body.
func (r *PostgresContentRepository) Upsert(ctx context.Context, d models.Document) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO documents (kind, id, body, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, id) DO UPDATE SET body = EXCLUDED.body
	`, d.Kind, d.ID, []byte(d.Body), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// Delete removes one document.
func (r *PostgresContentRepository) Delete(ctx context.Context, kind, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents per kind for the given kinds.
// Kinds without documents are reported as zero.
func (r *PostgresContentRepository) Count(ctx context.Context, kinds []string) (map[string]int, error) {
	counts := make(map[string]int, len(kinds))
	for _, k := range kinds {
		counts[k] = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM documents WHERE kind = ANY($1) GROUP BY kind
	`, pq.Array(kinds))
	if err != nil {
		return nil, fmt.Errorf("Count: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
