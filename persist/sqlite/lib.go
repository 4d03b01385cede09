// Package sqlite persists localstore entries in a SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Persist implements the localstore.Persist interface on a SQLite
// database.
type Persist struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies
// the schema. The database runs in WAL mode with a 5-second busy timeout.
func Open(path string) (*Persist, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Persist{db: db}, nil
}

// Close closes the database connection.
func (p *Persist) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	var b []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, name).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return b, nil
}

func (p *Persist) Store(ctx context.Context, name string, b []byte) error {
	if b == nil {
		b = []byte{}
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		name, b)
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func (p *Persist) Delete(ctx context.Context, name string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Keys lists entry names in key order.
func (p *Persist) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (p *Persist) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
