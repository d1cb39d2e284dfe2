// Package lead records completed contact form submissions.
package lead

import (
	"context"
	"time"
)

// Lead is a completed form submission. Field order matches the column
// order of every sink backend.
type Lead struct {
	RequestType string    `db:"request_type"`
	Name        string    `db:"name"`
	Contact     string    `db:"contact"`
	Comment     string    `db:"comment"`
	UserID      int64     `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Sink persists leads. Implementations must be safe for concurrent use.
type Sink interface {
	Save(ctx context.Context, l Lead) error
	// Recent returns up to limit leads, newest first.
	Recent(ctx context.Context, limit int) ([]Lead, error)
	Close() error
}
