package lead

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	request_type TEXT NOT NULL,
	name         TEXT NOT NULL,
	contact      TEXT NOT NULL,
	comment      TEXT NOT NULL,
	user_id      INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at);`

const sqliteRecentSQL = `
SELECT request_type, name, contact, comment, user_id, created_at
FROM leads
ORDER BY created_at DESC, id DESC
LIMIT ?`

// SQLiteSink stores leads in an embedded SQLite database. It is the
// default backend; no external services are needed.
type SQLiteSink struct {
	db *sqlx.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// schema exists. Use a "file:...?mode=memory" DSN for an in-memory store.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("lead: sqlite open: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("lead: sqlite schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Save(ctx context.Context, l Lead) error {
	if _, err := s.db.NamedExecContext(ctx, insertLeadSQL, l); err != nil {
		return fmt.Errorf("lead: sqlite insert: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	var leads []Lead
	if err := s.db.SelectContext(ctx, &leads, sqliteRecentSQL, limit); err != nil {
		return nil, fmt.Errorf("lead: sqlite select: %w", err)
	}
	return leads, nil
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
