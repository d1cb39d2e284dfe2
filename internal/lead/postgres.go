package lead

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const insertLeadSQL = `
INSERT INTO leads (request_type, name, contact, comment, user_id, created_at)
VALUES (:request_type, :name, :contact, :comment, :user_id, :created_at)`

const recentLeadsSQL = `
SELECT request_type, name, contact, comment, user_id, created_at
FROM leads
ORDER BY created_at DESC
LIMIT $1`

// PostgresSink stores leads in a PostgreSQL table created by migrations.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink wraps an already connected database handle. The handle
// is owned by the caller; Close is a no-op.
func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Save(ctx context.Context, l Lead) error {
	if _, err := s.db.NamedExecContext(ctx, insertLeadSQL, l); err != nil {
		return fmt.Errorf("lead: postgres insert: %w", err)
	}
	return nil
}

func (s *PostgresSink) Recent(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	var leads []Lead
	if err := s.db.SelectContext(ctx, &leads, recentLeadsSQL, limit); err != nil {
		return nil, fmt.Errorf("lead: postgres select: %w", err)
	}
	return leads, nil
}

func (s *PostgresSink) Close() error { return nil }
