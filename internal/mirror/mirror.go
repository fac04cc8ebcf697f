// Package mirror keeps a secondary copy of the note set in a local sqlite
// database. It masks store misses; the filesystem stays authoritative. No
// eviction, no TTL: entries live until deleted.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"minotes/internal/note"
)

const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version(
	version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS notes(
	slug       TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

type Mirror struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &Mirror{db: db, now: time.Now}, nil
}

func (m *Mirror) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Init creates the schema. A version bump drops the cached set; the mirror
// is rebuilt from the store as notes flow through.
func (m *Mirror) Init(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, schemaSQL); err != nil {
		return err
	}
	version, err := m.version(ctx)
	if err != nil {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, "DELETE FROM notes"); err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err = m.db.ExecContext(ctx, "INSERT INTO schema_version(version) VALUES(?)", schemaVersion)
	return err
}

func (m *Mirror) version(ctx context.Context) (int, error) {
	var v int
	err := m.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (m *Mirror) Upsert(ctx context.Context, n *note.Note) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode mirror doc %q: %w", n.Slug, err)
	}
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO notes(slug, doc, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		n.Slug, string(doc), m.now().Unix())
	return err
}

// Delete is idempotent: removing an absent slug is not an error.
func (m *Mirror) Delete(ctx context.Context, slug string) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM notes WHERE slug = ?", slug)
	return err
}

func (m *Mirror) Get(ctx context.Context, slug string) (*note.Note, error) {
	var doc string
	err := m.db.QueryRowContext(ctx, "SELECT doc FROM notes WHERE slug = ?", slug).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, note.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc(slug, doc)
}

func (m *Mirror) ListAll(ctx context.Context) ([]*note.Note, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT slug, doc FROM notes ORDER BY slug")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*note.Note
	for rows.Next() {
		var slug, doc string
		if err := rows.Scan(&slug, &doc); err != nil {
			return nil, err
		}
		n, err := decodeDoc(slug, doc)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func decodeDoc(slug, doc string) (*note.Note, error) {
	var n note.Note
	if err := json.Unmarshal([]byte(doc), &n); err != nil {
		return nil, fmt.Errorf("decode mirror doc %q: %w", slug, err)
	}
	n.Slug = slug
	return &n, nil
}
