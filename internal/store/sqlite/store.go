// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patlas/patlas/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS patterns (
	slug     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	summary  TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS pattern_aliases (
	alias TEXT PRIMARY KEY,
	slug  TEXT NOT NULL REFERENCES patterns(slug) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS principles (
	slug     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	summary  TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_meta (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	source_path TEXT NOT NULL,
	loaded_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_patterns_category ON patterns(category);
`

// Store persists validated catalogs.
type Store struct {
	db *sql.DB
}

// New opens the catalog database at dbPath and applies the schema.
func New(dbPath string, cfg Config) (*Store, error) {
	db, err := Open(dbPath, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies connectivity, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ReplaceCatalog swaps the stored catalog for c in one transaction.
func (s *Store) ReplaceCatalog(ctx context.Context, c *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM pattern_aliases", "DELETE FROM patterns", "DELETE FROM principles"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: clear: %w", err)
		}
	}

	for i, p := range c.Patterns {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO patterns (slug, name, category, summary, position) VALUES (?, ?, ?, ?, ?)",
			p.Slug, p.Name, string(p.Category), p.Summary, i,
		); err != nil {
			return fmt.Errorf("sqlite: insert pattern %s: %w", p.Slug, err)
		}
		for _, a := range p.Aliases {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO pattern_aliases (alias, slug) VALUES (?, ?)", a, p.Slug,
			); err != nil {
				return fmt.Errorf("sqlite: insert alias %s: %w", a, err)
			}
		}
	}
	for i, p := range c.Principles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO principles (slug, name, summary, position) VALUES (?, ?, ?, ?)",
			p.Slug, p.Name, p.Summary, i,
		); err != nil {
			return fmt.Errorf("sqlite: insert principle %s: %w", p.Slug, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO catalog_meta (id, source_path, loaded_at) VALUES (1, ?, ?) ON CONFLICT(id) DO UPDATE SET source_path=excluded.source_path, loaded_at=excluded.loaded_at",
		c.SourcePath, c.LoadedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("sqlite: upsert meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// LoadCatalog reads the full stored catalog. Returns catalog.ErrNotFound
// when the database holds no catalog yet.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c := &catalog.Catalog{}

	var loadedAt string
	err := s.db.QueryRowContext(ctx, "SELECT source_path, loaded_at FROM catalog_meta WHERE id = 1").
		Scan(&c.SourcePath, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no catalog stored", catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load meta: %w", err)
	}
	if ts, perr := time.Parse(time.RFC3339Nano, loadedAt); perr == nil {
		c.LoadedAt = ts
	}

	aliases, err := s.loadAliases(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT slug, name, category, summary FROM patterns ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var p catalog.Pattern
		var cat string
		if err := rows.Scan(&p.Slug, &p.Name, &cat, &p.Summary); err != nil {
			return nil, fmt.Errorf("sqlite: scan pattern: %w", err)
		}
		p.Category = catalog.Category(cat)
		p.Aliases = aliases[p.Slug]
		c.Patterns = append(c.Patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate patterns: %w", err)
	}

	prows, err := s.db.QueryContext(ctx, "SELECT slug, name, summary FROM principles ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load principles: %w", err)
	}
	defer func() { _ = prows.Close() }()
	for prows.Next() {
		var p catalog.Principle
		if err := prows.Scan(&p.Slug, &p.Name, &p.Summary); err != nil {
			return nil, fmt.Errorf("sqlite: scan principle: %w", err)
		}
		c.Principles = append(c.Principles, p)
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate principles: %w", err)
	}

	return c, nil
}

func (s *Store) loadAliases(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT alias, slug FROM pattern_aliases ORDER BY alias")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]string)
	for rows.Next() {
		var alias, slug string
		if err := rows.Scan(&alias, &slug); err != nil {
			return nil, fmt.Errorf("sqlite: scan alias: %w", err)
		}
		out[slug] = append(out[slug], alias)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate aliases: %w", err)
	}
	return out, nil
}
