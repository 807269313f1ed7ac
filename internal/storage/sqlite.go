// Package storage provides a SQLite-backed catalog of course zones.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rune-race/internal/zones"
)

// Store manages the SQLite database connection for the zone catalog.
type Store struct {
	db *sql.DB
}

// ZoneInfo summarizes a catalogued zone.
type ZoneInfo struct {
	Name       string
	Width      int
	Height     int
	Layers     int
	Source     string // file the zone was imported from
	ImportedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS zones (
			name TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			layer_count INTEGER NOT NULL,
			layers BLOB NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveZone stores a zone, replacing any zone with the same name.
func (s *Store) SaveZone(z zones.Zone, source string) error {
	if err := z.Validate(); err != nil {
		return fmt.Errorf("storage: cannot save zone: %w", err)
	}
	blob, err := msgpack.Marshal(z.Layers)
	if err != nil {
		return fmt.Errorf("storage: cannot encode layers of %s: %w", z.Name, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO zones (name, width, height, layer_count, layers, source)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   width = excluded.width,
		   height = excluded.height,
		   layer_count = excluded.layer_count,
		   layers = excluded.layers,
		   source = excluded.source,
		   imported_at = CURRENT_TIMESTAMP`,
		z.Name, z.Width, z.Height, len(z.Layers), blob, source,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save zone %s: %w", z.Name, err)
	}
	return nil
}

// LoadZone retrieves a zone by name.
func (s *Store) LoadZone(name string) (zones.Zone, error) {
	z := zones.Zone{Name: name}
	var blob []byte

	err := s.db.QueryRow(
		"SELECT width, height, layers FROM zones WHERE name = ?",
		name,
	).Scan(&z.Width, &z.Height, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return zones.Zone{}, fmt.Errorf("%w: %s in catalog", zones.ErrNotFound, name)
	}
	if err != nil {
		return zones.Zone{}, fmt.Errorf("storage: cannot query zone %s: %w", name, err)
	}

	if err := msgpack.Unmarshal(blob, &z.Layers); err != nil {
		return zones.Zone{}, fmt.Errorf("storage: cannot decode layers of %s: %w", name, err)
	}
	if err := z.Validate(); err != nil {
		return zones.Zone{}, fmt.Errorf("storage: %w", err)
	}
	return z, nil
}

// Zone implements zones.Source using the level-N naming convention.
func (s *Store) Zone(level int) (zones.Zone, error) {
	return s.LoadZone(zones.LevelName(level))
}

// ListZones returns every catalogued zone ordered by name.
func (s *Store) ListZones() ([]ZoneInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, width, height, layer_count, source, imported_at
		 FROM zones
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query zones: %w", err)
	}
	defer rows.Close()

	var infos []ZoneInfo
	for rows.Next() {
		var info ZoneInfo
		var importedAt any
		if err := rows.Scan(&info.Name, &info.Width, &info.Height, &info.Layers, &info.Source, &importedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.ImportedAt = parseTime(importedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return infos, nil
}

// DeleteZone removes a zone. Deleting a missing zone is not an error.
func (s *Store) DeleteZone(name string) error {
	_, err := s.db.Exec("DELETE FROM zones WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete zone %s: %w", name, err)
	}
	return nil
}

// Import copies every zone the loader can read into the catalog and
// returns how many were stored.
func (s *Store) Import(l *zones.Loader) (int, error) {
	all, err := l.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read zones: %w", err)
	}
	for i, z := range all {
		if err := s.SaveZone(z, l.Root()); err != nil {
			return i, err
		}
	}
	return len(all), nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
