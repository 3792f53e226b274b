// Package store keeps small local state in SQLite: the persisted wishlist
// selection and an activity log of requests made from this machine.
//
// Item lists are never stored here; they are always read from the service.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const metaSelectedWishlist = "selected_wishlist_id"

type Store struct {
	// Path is the SQLite file. An empty path makes every call a no-op.
	Path string
}

func (s Store) enabled() bool { return strings.TrimSpace(s.Path) != "" }

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	// The CLI and a running TUI may touch the file at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			op TEXT NOT NULL,
			wishlist_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			message TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_at ON activity(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// DB is an open handle on the state file, for callers that touch it often.
// A DB opened from a Store without a path does nothing.
type DB struct {
	db *sql.DB
}

// Open opens the state file once. The caller closes the returned DB.
func (s Store) Open(ctx context.Context) (*DB, error) {
	if !s.enabled() {
		return &DB{}, nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	// The pragmas above are per connection; keep the one that ran them.
	db.SetMaxOpenConns(1)
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// with runs fn on a short-lived handle.
func (s Store) with(ctx context.Context, fn func(*DB) error) error {
	d, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}

// LoadSelection returns the persisted wishlist selection.
func (s Store) LoadSelection(ctx context.Context) (id int64, ok bool, err error) {
	err = s.with(ctx, func(d *DB) error {
		id, ok, err = d.LoadSelection(ctx)
		return err
	})
	return id, ok, err
}

// SaveSelection persists (or, with selected=false, removes) the selection.
func (s Store) SaveSelection(ctx context.Context, id int64, selected bool) error {
	return s.with(ctx, func(d *DB) error { return d.SaveSelection(ctx, id, selected) })
}

func (s Store) AppendActivity(ctx context.Context, a Activity) error {
	return s.with(ctx, func(d *DB) error { return d.AppendActivity(ctx, a) })
}

// RecentActivity returns up to limit entries, newest first.
func (s Store) RecentActivity(ctx context.Context, limit int) (out []Activity, err error) {
	err = s.with(ctx, func(d *DB) error {
		out, err = d.RecentActivity(ctx, limit)
		return err
	})
	return out, err
}

func (d *DB) LoadSelection(ctx context.Context) (int64, bool, error) {
	if d.db == nil {
		return 0, false, nil
	}
	var v string
	err := d.db.QueryRowContext(ctx, `SELECT v FROM session_meta WHERE k = ?`, metaSelectedWishlist).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		// Best effort: a corrupt value reads as "nothing selected".
		return 0, false, nil
	}
	return id, true, nil
}

func (d *DB) SaveSelection(ctx context.Context, id int64, selected bool) error {
	if d.db == nil {
		return nil
	}
	if !selected {
		_, err := d.db.ExecContext(ctx, `DELETE FROM session_meta WHERE k = ?`, metaSelectedWishlist)
		return err
	}
	_, err := d.db.ExecContext(ctx, `INSERT OR REPLACE INTO session_meta(k, v) VALUES(?, ?)`, metaSelectedWishlist, strconv.FormatInt(id, 10))
	return err
}

// Activity is one request outcome.
type Activity struct {
	ID         int64     `json:"id"`
	At         time.Time `json:"at"`
	Op         string    `json:"op"`
	WishlistID int64     `json:"wishlist_id,omitempty"`
	ProductID  int64     `json:"product_id,omitempty"`
	OK         bool      `json:"ok"`
	Message    string    `json:"message,omitempty"`
}

func (d *DB) AppendActivity(ctx context.Context, a Activity) error {
	if d.db == nil {
		return nil
	}
	at := a.At
	if at.IsZero() {
		at = time.Now()
	}
	ok := 0
	if a.OK {
		ok = 1
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO activity(at_unixms, op, wishlist_id, product_id, ok, message) VALUES(?, ?, ?, ?, ?, ?)`,
		at.UTC().UnixMilli(), a.Op, a.WishlistID, a.ProductID, ok, a.Message,
	)
	return err
}

func (d *DB) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if d.db == nil {
		return []Activity{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, at_unixms, op, wishlist_id, product_id, ok, message FROM activity ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var a Activity
		var atMS int64
		var ok int
		if err := rows.Scan(&a.ID, &atMS, &a.Op, &a.WishlistID, &a.ProductID, &ok, &a.Message); err != nil {
			return nil, err
		}
		a.At = time.UnixMilli(atMS).UTC()
		a.OK = ok != 0
		out = append(out, a)
	}
	return out, rows.Err()
}
