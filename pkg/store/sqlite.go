package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// SQLiteStore keeps documents in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens, and if needed creates, the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageError(err, "open database")
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, storageError(err, "migrate database")
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "query document %q", name)
	}
	return body, nil
}

func (s *SQLiteStore) Put(ctx context.Context, name string, body []byte) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, name, body, time.Now().UnixNano())
	if err != nil {
		return storageError(err, "upsert document %q", name)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return storageError(err, "delete document %q", name)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, length(body), updated_at FROM documents ORDER BY name`)
	if err != nil {
		return nil, storageError(err, "list documents")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			updated int64
		)
		if err := rows.Scan(&e.Name, &e.Size, &updated); err != nil {
			return nil, storageError(err, "scan document row")
		}
		e.UpdatedAt = time.Unix(0, updated)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "list documents")
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
