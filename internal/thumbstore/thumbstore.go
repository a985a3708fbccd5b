// Package thumbstore persists rendered map composites in a sqlite database
// so previews survive between runs.
package thumbstore

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"

	_ "github.com/mattn/go-sqlite3"

	"chosenoffset.com/tilecomp/internal/render/cache"
	"chosenoffset.com/tilecomp/internal/tilemap"
)

// Store is a sqlite table of PNG encoded composites keyed like cache.Key.
type Store struct {
	db *sql.DB
}

// Entry describes a stored composite without its pixels.
type Entry struct {
	Key    cache.Key
	Width  int
	Height int
}

// Open opens or creates the database file and its table.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail store %s: %w", file, err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS composites (map TEXT NOT NULL, per_layer INTEGER NOT NULL, layer_index INTEGER NOT NULL, layer TEXT NOT NULL, types INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, png BLOB NOT NULL, PRIMARY KEY (map, per_layer, layer_index, layer, types))"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create composite table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores img under key, replacing any previous row.
func (s *Store) Put(key cache.Key, img image.Image) error {
	if img == nil {
		return errors.New("nil image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	b := img.Bounds()
	if _, err := s.db.Exec("INSERT OR REPLACE INTO composites (map, per_layer, layer_index, layer, types, width, height, png) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		key.Map, key.PerLayer, key.Index, key.Layer, int(key.Types), b.Dx(), b.Dy(), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get loads the composite stored under key. The boolean is false when no
// row exists.
func (s *Store) Get(key cache.Key) (image.Image, bool, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT png FROM composites WHERE map = ? AND per_layer = ? AND layer_index = ? AND layer = ? AND types = ?",
		key.Map, key.PerLayer, key.Index, key.Layer, int(key.Types)).Scan(&blob)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	img, err := png.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return img, true, nil
}

// DeleteMap removes every composite of the named map and returns the number
// of rows removed.
func (s *Store) DeleteMap(name string) (int, error) {
	res, err := s.db.Exec("DELETE FROM composites WHERE map = ?", name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete composites of %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Entries lists stored composites ordered by map, whole-map entries first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query("SELECT map, per_layer, layer_index, layer, types, width, height FROM composites ORDER BY map, per_layer, layer_index, types")
	if err != nil {
		return nil, fmt.Errorf("failed to list composites: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var types int
		if err := rows.Scan(&e.Key.Map, &e.Key.PerLayer, &e.Key.Index, &e.Key.Layer, &types, &e.Width, &e.Height); err != nil {
			return nil, err
		}
		e.Key.Types = tilemap.RenderTypeSet(types)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Warm copies every stored composite of the named map into c.
func (s *Store) Warm(c *cache.Store, mapName string) (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if e.Key.Map != mapName {
			continue
		}
		img, ok, err := s.Get(e.Key)
		if err != nil {
			return n, err
		}
		if ok {
			c.Add(e.Key, img)
			n++
		}
	}
	return n, nil
}
