// Package ledger keeps a Postgres record of completed uploads.
package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/imgdrop/service/internal/upload"
)

// execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository writes upload records.
type Repository struct {
	db execer
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db execer) *Repository {
	return &Repository{db: db}
}

// Record inserts res. Keys are unique, so a repeated record is ignored.
func (r *Repository) Record(ctx context.Context, res *upload.Result) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO uploads (object_key, file_name, content_type, size_bytes, location, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (object_key) DO NOTHING`,
		res.Key, res.FileName, res.ContentType, res.Size, res.Location, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record upload %q: %w", res.Key, err)
	}
	return nil
}

var _ upload.Recorder = (*Repository)(nil)
