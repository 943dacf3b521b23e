// Package sqlstore implements catalog.Store on SQLite (modernc.org/sqlite,
// no cgo).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"floorctl/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	thumbnail_url TEXT NOT NULL DEFAULT '',
	size_in_bytes INTEGER NOT NULL DEFAULT 0,
	slides        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contestants (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category_id TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	wins        INTEGER NOT NULL DEFAULT 0,
	eliminated  INTEGER NOT NULL DEFAULT 0
);`

// Store is a catalog.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ catalog.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", path, err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under the console's
	// background commands.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddCategory implements catalog.Store.
func (s *Store) AddCategory(ctx context.Context, c catalog.StoredCategory) error {
	slides, err := json.Marshal(c.Slides)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO categories (id, name, created_at, thumbnail_url, size_in_bytes, slides) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt.UnixNano(), c.ThumbnailURL, c.SizeInBytes, string(slides))
	return err
}

// GetCategory implements catalog.Store.
func (s *Store) GetCategory(ctx context.Context, id string) (catalog.StoredCategory, error) {
	var (
		c       catalog.StoredCategory
		created int64
		slides  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, thumbnail_url, size_in_bytes, slides FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &created, &c.ThumbnailURL, &c.SizeInBytes, &slides)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("categories %q: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return c, err
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(slides), &c.Slides); err != nil {
		return c, fmt.Errorf("decode slides of %s: %w", id, err)
	}
	return c, nil
}

// DeleteCategory implements catalog.Store.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "categories", id)
}

// DeleteAllCategories implements catalog.Store.
func (s *Store) DeleteAllCategories(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories`)
	return err
}

// ListCategories implements catalog.Store.
func (s *Store) ListCategories(ctx context.Context) ([]catalog.CategoryRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, thumbnail_url, size_in_bytes, json_array_length(slides) FROM categories ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []catalog.CategoryRef
	for rows.Next() {
		var (
			r       catalog.CategoryRef
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &created, &r.ThumbnailURL, &r.SizeInBytes, &r.SlideCount); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// AddContestant implements catalog.Store.
func (s *Store) AddContestant(ctx context.Context, c catalog.Contestant) error {
	category, err := json.Marshal(c.Category)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO contestants (id, name, category_id, category, wins, eliminated) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.CategoryID, string(category), c.Wins, c.Eliminated)
	return err
}

// GetContestant implements catalog.Store.
func (s *Store) GetContestant(ctx context.Context, id string) (catalog.Contestant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, category_id, category, wins, eliminated FROM contestants WHERE id = ?`, id)
	c, err := scanContestant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("contestants %q: %w", id, catalog.ErrNotFound)
	}
	return c, err
}

// DeleteContestant implements catalog.Store.
func (s *Store) DeleteContestant(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "contestants", id)
}

// ListContestants implements catalog.Store.
func (s *Store) ListContestants(ctx context.Context) ([]catalog.Contestant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category_id, category, wins, eliminated FROM contestants ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Contestant
	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContestant(row scanner) (catalog.Contestant, error) {
	var (
		c        catalog.Contestant
		category string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.CategoryID, &category, &c.Wins, &c.Eliminated); err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(category), &c.Category); err != nil {
		return c, fmt.Errorf("decode category of contestant %s: %w", c.ID, err)
	}
	return c, nil
}

// deleteRow deletes id from table; table is always one of the two constants
// above, never user input.
func (s *Store) deleteRow(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", table, id, catalog.ErrNotFound)
	}
	return nil
}
