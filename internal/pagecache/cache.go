// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagecache persists fetched archive pages in SQLite so that a
// re-run over the same keywords and intervals skips the network. Archive
// pages are immutable historical text, so entries never expire.
package pagecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Key identifies one cached page. Keywords must already be normalized
// (lowercased and sorted) by the caller.
type Key struct {
	Keywords []string
	Start    int
	End      int
	Page     int
	Rows     int
}

func (k Key) keywords() string {
	return strings.Join(k.Keywords, " ")
}

// Cache manages the page cache database.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	c := &Cache{db: db, path: path}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			keywords TEXT NOT NULL,
			year_start INTEGER NOT NULL,
			year_end INTEGER NOT NULL,
			page INTEGER NOT NULL,
			page_size INTEGER NOT NULL,
			body BLOB NOT NULL,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (keywords, year_start, year_end, page, page_size)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_query ON pages(keywords, year_start, year_end)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached body for key. The boolean is false on a miss.
func (c *Cache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var body []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM pages
		 WHERE keywords = ? AND year_start = ? AND year_end = ? AND page = ? AND page_size = ?`,
		key.keywords(), key.Start, key.End, key.Page, key.Rows,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached page: %w", err)
	}
	return body, true, nil
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key Key, body []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO pages (keywords, year_start, year_end, page, page_size, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(keywords, year_start, year_end, page, page_size) DO UPDATE SET
			body=excluded.body, fetched_at=excluded.fetched_at`,
		key.keywords(), key.Start, key.End, key.Page, key.Rows, body,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cached page: %w", err)
	}
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Pages   int
	Queries int
	Bytes   int64
}

// Stats counts cached pages, distinct interval queries, and stored bytes.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(length(body)), 0) FROM pages`,
	).Scan(&s.Pages, &s.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("counting pages: %w", err)
	}
	err = c.db.QueryRowContext(ctx,
		`SELECT count(*) FROM (SELECT DISTINCT keywords, year_start, year_end FROM pages)`,
	).Scan(&s.Queries)
	if err != nil {
		return Stats{}, fmt.Errorf("counting queries: %w", err)
	}
	return s, nil
}

// Clear removes every cached page and returns how many were deleted.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
