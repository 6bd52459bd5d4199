package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/logosim/descriptor"
)

// ErrNotFound reports a logo without a descriptor in the requested family.
var ErrNotFound = errors.New("not found")

// Neighbor is a logo returned by Nearest.
type Neighbor struct {
	ID       string
	URL      string
	Distance float64
}

// SQLiteStore keeps logos and descriptors in a SQLite database. Vectors are
// stored as descriptor.EncodeVector BLOBs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed store. It ensures the schema exists
// in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// PutLogos inserts or updates logos. An empty URL is stored as NULL.
func (s *SQLiteStore) PutLogos(ctx context.Context, logos []descriptor.Logo) error {
	if len(logos) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO logos(id, url) VALUES(?, ?)
ON CONFLICT(id) DO UPDATE SET url = COALESCE(excluded.url, logos.url)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range logos {
		if l.ID == "" {
			return fmt.Errorf("store: logo id must be set: %w", descriptor.ErrInvalidInput)
		}
		var url interface{}
		if l.URL != "" {
			url = l.URL
		}
		if _, err := stmt.ExecContext(ctx, l.ID, url); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PutDescriptors inserts or replaces the vectors of one family. Dimensions
// are not checked here; descriptor.Collect enforces them on read.
func (s *SQLiteStore) PutDescriptors(ctx context.Context, family descriptor.Family, entries []descriptor.Entry) error {
	if family == "" {
		return fmt.Errorf("store: family must be set: %w", descriptor.ErrInvalidInput)
	}
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO descriptors(family, id, vector) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" || len(e.Vector) == 0 {
			return fmt.Errorf("store: %s entry %q needs an id and a vector: %w", family, e.ID, descriptor.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, string(family), e.ID, descriptor.EncodeVector(e.Vector)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Descriptors returns the entries of family ordered by id.
func (s *SQLiteStore) Descriptors(ctx context.Context, family descriptor.Family) ([]descriptor.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, vector FROM descriptors WHERE family = ? ORDER BY id`, string(family))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []descriptor.Entry
	for rows.Next() {
		var (
			id   string
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		vec, err := descriptor.DecodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("store: %s descriptor of %q: %w", family, id, err)
		}
		out = append(out, descriptor.Entry{ID: id, Vector: vec})
	}
	return out, rows.Err()
}

// URLs returns the known logo URLs keyed by id.
func (s *SQLiteStore) URLs(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url FROM logos WHERE url IS NOT NULL AND url <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, err
		}
		out[id] = url
	}
	return out, rows.Err()
}

// Families lists the stored descriptor families in name order.
func (s *SQLiteStore) Families(ctx context.Context) ([]descriptor.Family, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT family FROM descriptors ORDER BY family`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []descriptor.Family
	for rows.Next() {
		var family string
		if err := rows.Scan(&family); err != nil {
			return nil, err
		}
		out = append(out, descriptor.Family(family))
	}
	return out, rows.Err()
}

// Nearest returns the logos of family within Euclidean distance maxDistance
// of id, closest first (ties by id), excluding id itself. A negative
// maxDistance disables the bound; limit <= 0 returns all matches.
func (s *SQLiteStore) Nearest(ctx context.Context, family descriptor.Family, id string, maxDistance float64, limit int) ([]Neighbor, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM descriptors WHERE family = ? AND id = ?`, string(family), id).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("store: logo %q has no %s descriptor: %w", id, family, ErrNotFound)
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, url, dist FROM (
    SELECT d.id AS id, l.url AS url, desc_l2(d.vector, q.vector) AS dist
    FROM descriptors d
    JOIN descriptors q ON q.family = d.family AND q.id = ?
    LEFT JOIN logos l ON l.id = d.id
    WHERE d.family = ? AND d.id <> q.id
)
WHERE ? < 0 OR dist <= ?
ORDER BY dist, id
LIMIT ?`, id, string(family), maxDistance, maxDistance, limit)
	if err != nil {
		return nil, fmt.Errorf("store: nearest %s %q: %w", family, id, err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var (
			nb  Neighbor
			url sql.NullString
		)
		if err := rows.Scan(&nb.ID, &url, &nb.Distance); err != nil {
			return nil, err
		}
		nb.URL = url.String
		out = append(out, nb)
	}
	return out, rows.Err()
}

// Remove deletes a logo and all of its descriptors.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("store: Remove called with empty id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM descriptors WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM logos WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

var (
	_ descriptor.Source      = (*SQLiteStore)(nil)
	_ descriptor.URLResolver = (*SQLiteStore)(nil)
)
