// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gentext/gentext-gw/pkg/core/schema"
	"github.com/gentext/gentext-gw/pkg/storage"

	_ "modernc.org/sqlite"
)

func init() {
	storage.Providers.Register("sqlite", func(_ context.Context, params map[string]string) (storage.ExtractionStore, error) {
		return New(params["path"])
	})
}

// compile-time check
var _ storage.ExtractionStore = (*Store)(nil)

// Store is a SQLite-backed implementation of ExtractionStore. Suitable for
// single-node deployments where PostgreSQL would be overkill.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store at path. Use ":memory:" for an ephemeral
// database.
func New(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// A single connection keeps :memory: databases coherent and avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			id TEXT PRIMARY KEY,
			provider TEXT NOT NULL DEFAULT '',
			shape TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			chars INTEGER NOT NULL DEFAULT 0,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite create tables: %w", err)
		}
	}
	return nil
}

// SaveExtraction upserts an extraction record.
func (s *Store) SaveExtraction(ctx context.Context, ext *schema.Extraction) error {
	metaJSON, err := json.Marshal(ext.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, provider, shape, text, chars, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   provider=excluded.provider, shape=excluded.shape, text=excluded.text,
		   chars=excluded.chars, metadata=excluded.metadata, created_at=excluded.created_at`,
		ext.ID, ext.Provider, ext.Shape, ext.Text, ext.Chars, string(metaJSON), ext.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}
	return nil
}

// GetExtraction retrieves an extraction record by ID.
func (s *Store) GetExtraction(ctx context.Context, id string) (*schema.Extraction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider, shape, text, chars, metadata, created_at
		 FROM extractions WHERE id = ?`, id)

	return scanExtraction(row)
}

// DeleteExtraction deletes an extraction record.
func (s *Store) DeleteExtraction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extractions WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete extraction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrExtractionNotFound
	}
	return nil
}

// ListExtractionsPaginated lists extraction records with cursor-based
// pagination ordered by creation time.
func (s *Store) ListExtractionsPaginated(ctx context.Context, after, before string, limit int, order string) ([]*schema.Extraction, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	query := `SELECT id, provider, shape, text, chars, metadata, created_at FROM extractions`
	var args []interface{}
	var where []string

	// Keyset cursors compare (created_at, id) so records sharing a creation
	// second are never skipped; created_at alone has only second resolution.
	if after != "" {
		cur, ok, err := s.cursorCreatedAt(ctx, after)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		cmp := "<"
		if order == "asc" {
			cmp = ">"
		}
		where = append(where, fmt.Sprintf("(created_at %s ? OR (created_at = ? AND id %s ?))", cmp, cmp))
		args = append(args, cur, cur, after)
	}
	if before != "" {
		cur, ok, err := s.cursorCreatedAt(ctx, before)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		cmp := ">"
		if order == "asc" {
			cmp = "<"
		}
		where = append(where, fmt.Sprintf("(created_at %s ? OR (created_at = ? AND id %s ?))", cmp, cmp))
		args = append(args, cur, cur, before)
	}
	if len(where) > 0 {
		query += " WHERE " + where[0]
		for _, w := range where[1:] {
			query += " AND " + w
		}
	}

	query += fmt.Sprintf(" ORDER BY created_at %s, id %s LIMIT ?", order, order)
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list extractions: %w", err)
	}
	defer rows.Close()

	var exts []*schema.Extraction
	for rows.Next() {
		ext, err := scanExtraction(rows)
		if err != nil {
			return nil, false, err
		}
		exts = append(exts, ext)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := len(exts) > limit
	if hasMore {
		exts = exts[:limit]
	}
	return exts, hasMore, nil
}

// cursorCreatedAt resolves a cursor ID to its creation time. A cursor that
// does not exist resolves to ok=false, which callers treat as an empty page.
func (s *Store) cursorCreatedAt(ctx context.Context, id string) (int64, bool, error) {
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM extractions WHERE id = ?`, id).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolve cursor %s: %w", id, err)
	}
	return createdAt, true, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanExtraction(row scannable) (*schema.Extraction, error) {
	var (
		ext     schema.Extraction
		metaStr string
	)
	err := row.Scan(&ext.ID, &ext.Provider, &ext.Shape, &ext.Text, &ext.Chars, &metaStr, &ext.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrExtractionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan extraction: %w", err)
	}

	ext.Object = "extraction"
	if err := json.Unmarshal([]byte(metaStr), &ext.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &ext, nil
}
