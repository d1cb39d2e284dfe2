package lead

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSink appends leads as rows to a Google Sheets spreadsheet.
// Row layout: request type, name, contact, comment, user id, timestamp.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string

	// Sheets has no cheap "last N rows" query; keep a small in-process
	// tail so /leads works for this backend as well.
	mu     sync.Mutex
	recent []Lead
}

const recentTailSize = 50

// NewSheetsSink builds a sink using a service account credentials file.
func NewSheetsSink(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsSink, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("lead: sheets service: %w", err)
	}
	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsSink) Save(ctx context.Context, l Lead) error {
	row := []interface{}{
		l.RequestType,
		l.Name,
		l.Contact,
		l.Comment,
		"Chat ID: " + strconv.FormatInt(l.UserID, 10),
		l.CreatedAt.Format(time.RFC3339),
	}
	body := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, "A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("lead: sheets append: %w", err)
	}

	s.mu.Lock()
	s.recent = append(s.recent, l)
	if len(s.recent) > recentTailSize {
		s.recent = s.recent[len(s.recent)-recentTailSize:]
	}
	s.mu.Unlock()
	return nil
}

func (s *SheetsSink) Recent(_ context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.recent)
	if limit > n {
		limit = n
	}
	out := make([]Lead, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.recent[i])
	}
	return out, nil
}

func (s *SheetsSink) Close() error { return nil }
