// Package leads persists lead-capture form drafts in SQLite and validates
// submissions against the required fields configured per form.
package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/inkwell/internal/metrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS drafts (
	form       TEXT PRIMARY KEY,
	data       TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Draft is the last saved state of one form.
type Draft struct {
	Form      string            `json:"form"`
	Fields    map[string]string `json:"fields"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DraftStore defines the draft persistence operations.
// Consumers should depend on this interface rather than the concrete *Store.
type DraftStore interface {
	SaveDraft(ctx context.Context, form string, fields map[string]string) error
	LoadDraft(ctx context.Context, form string) (Draft, bool, error)
	ClearDraft(ctx context.Context, form string) error
	Forms(ctx context.Context) ([]string, error)
}

// Verify *Store satisfies DraftStore at compile time.
var _ DraftStore = (*Store)(nil)

// Store wraps a sql.DB holding form drafts.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("leads: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("leads: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("leads: apply schema: %w", err)
	}
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// SaveDraft replaces the draft for form with fields.
func (s *Store) SaveDraft(ctx context.Context, form string, fields map[string]string) (err error) {
	defer func() { metrics.RecordDraftOperation("save", err) }()

	if fields == nil {
		fields = map[string]string{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("leads: encode draft: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO drafts (form, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(form) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at
	`, form, string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("leads: save draft: %w", err)
	}
	return nil
}

// LoadDraft returns the saved draft for form. ok is false when none exists.
func (s *Store) LoadDraft(ctx context.Context, form string) (d Draft, ok bool, err error) {
	defer func() { metrics.RecordDraftOperation("load", err) }()

	var data string
	err = s.conn.QueryRowContext(ctx,
		`SELECT data, updated_at FROM drafts WHERE form = ?`, form,
	).Scan(&data, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, fmt.Errorf("leads: load draft: %w", err)
	}
	if err = json.Unmarshal([]byte(data), &d.Fields); err != nil {
		return Draft{}, false, fmt.Errorf("leads: decode draft: %w", err)
	}
	d.Form = form
	return d, true, nil
}

// ClearDraft removes the draft for form. An empty form clears every draft.
func (s *Store) ClearDraft(ctx context.Context, form string) (err error) {
	defer func() { metrics.RecordDraftOperation("clear", err) }()

	if form == "" {
		_, err = s.conn.ExecContext(ctx, `DELETE FROM drafts`)
	} else {
		_, err = s.conn.ExecContext(ctx, `DELETE FROM drafts WHERE form = ?`, form)
	}
	if err != nil {
		return fmt.Errorf("leads: clear draft: %w", err)
	}
	return nil
}

// Forms returns the names of forms with a saved draft, sorted.
func (s *Store) Forms(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT form FROM drafts ORDER BY form`)
	if err != nil {
		return nil, fmt.Errorf("leads: list forms: %w", err)
	}
	defer rows.Close()

	forms := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("leads: scan form: %w", err)
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}
