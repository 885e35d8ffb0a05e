// Package locationdb reads location history from an Android-style SQLite
// database (a pulled GMS locations.db or a locally supplied file).
package locationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
)

// ErrNoTable indicates the configured table does not exist in the database.
var ErrNoTable = errors.New("location table not found in database")

// Layout names the table and columns holding the location history.
type Layout struct {
	Table           string
	TimestampColumn string
	LatitudeColumn  string
	LongitudeColumn string
}

// DefaultLayout matches the Android GMS locations schema.
func DefaultLayout() Layout {
	return Layout{
		Table:           "locations",
		TimestampColumn: "timestamp",
		LatitudeColumn:  "latitude",
		LongitudeColumn: "longitude",
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validate rejects layout names that cannot be spliced into SQL safely.
// Column and table names cannot be bound as parameters, so they are
// restricted to plain identifiers instead.
func (l Layout) validate() error {
	for _, name := range []string{l.Table, l.TimestampColumn, l.LatitudeColumn, l.LongitudeColumn} {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("invalid identifier %q in layout", name)
		}
	}
	return nil
}

// DB wraps the SQLite handle for a location database.
type DB struct {
	*sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	return &DB{DB: db, path: path}, nil
}

// Path returns the filesystem path the database was opened from.
func (db *DB) Path() string { return db.path }

// HasTable reports whether the named table exists.
func (db *DB) HasTable(ctx context.Context, table string) (bool, error) {
	if !identPattern.MatchString(table) {
		return false, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	exists := rows.Next()
	return exists, rows.Err()
}

// Fixes extracts location fixes recorded at or after since, ordered by
// timestamp ascending. Timestamps are stored as milliseconds since the Unix
// epoch and converted to UTC. Rows with a NULL timestamp or coordinate are
// skipped so the detector only ever sees complete fixes.
func (db *DB) Fixes(ctx context.Context, layout Layout, since time.Time) ([]stops.Fix, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}

	exists, err := db.HasTable(ctx, layout.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect database: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("table %q: %w", layout.Table, ErrNoTable)
	}

	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s WHERE %s >= ? ORDER BY %s ASC",
		layout.TimestampColumn, layout.LatitudeColumn, layout.LongitudeColumn,
		layout.Table, layout.TimestampColumn, layout.TimestampColumn,
	)

	rows, err := db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query location data: %w", err)
	}
	defer rows.Close()

	var fixes []stops.Fix
	skipped := 0
	for rows.Next() {
		var (
			ts       sql.NullInt64
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&ts, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		if !ts.Valid || !lat.Valid || !lon.Valid {
			skipped++
			continue
		}
		fixes = append(fixes, stops.Fix{
			Timestamp: time.UnixMilli(ts.Int64).UTC(),
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		monitoring.Logf("skipped %d rows with NULL timestamp or coordinates", skipped)
	}
	return fixes, nil
}
