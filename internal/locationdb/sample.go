package locationdb

import (
	"context"
	"fmt"
	"time"
)

// sampleRow is one synthetic observation: a day offset into the past, a time
// of day, and the raw sensor fields.
type sampleRow struct {
	daysAgo      int
	hour, minute int
	lat, lon     float64
	accuracy     int
	altitude     float64
	speed        float64
	bearing      float64
	provider     string
}

// sampleRows describes a week of Bay Area movement: a recurring home
// location, commutes, office dwells, a weekend trip, shopping, and a jog.
var sampleRows = []sampleRow{
	// Home location (morning, repeated pattern)
	{7, 8, 0, 37.7749, -122.4194, 10, 52.3, 0.0, 0.0, "gps"},
	{7, 8, 30, 37.7749, -122.4194, 12, 52.3, 0.0, 0.0, "network"},

	// Commute to work (driving)
	{7, 9, 0, 37.7751, -122.4180, 15, 48.1, 8.5, 45.0, "gps"},
	{7, 9, 15, 37.7805, -122.4121, 20, 35.2, 12.3, 65.0, "gps"},
	{7, 9, 30, 37.7858, -122.4064, 18, 28.5, 15.7, 85.0, "gps"},
	{7, 9, 45, 37.7901, -122.4012, 25, 22.1, 10.2, 90.0, "network"},

	// At the office
	{7, 10, 0, 37.4220, -122.0841, 30, 15.0, 0.0, 0.0, "network"},
	{7, 12, 0, 37.4220, -122.0841, 35, 15.0, 0.0, 0.0, "network"},
	{7, 14, 0, 37.4220, -122.0841, 40, 15.0, 0.0, 0.0, "passive"},
	{7, 16, 0, 37.4220, -122.0841, 45, 15.0, 0.0, 0.0, "network"},

	// Lunch break (walking to a nearby restaurant)
	{7, 12, 30, 37.4225, -122.0835, 10, 15.5, 1.2, 120.0, "gps"},
	{7, 12, 35, 37.4230, -122.0828, 12, 16.0, 1.5, 135.0, "gps"},
	{7, 13, 0, 37.4235, -122.0820, 15, 16.5, 0.0, 0.0, "gps"},

	// Weekend trip to Golden Gate Bridge
	{5, 10, 0, 37.8199, -122.4783, 8, 75.0, 0.0, 0.0, "gps"},
	{5, 10, 30, 37.8199, -122.4783, 10, 75.0, 0.0, 0.0, "gps"},
	{5, 11, 0, 37.8199, -122.4783, 12, 75.0, 0.0, 0.0, "network"},

	// Shopping at Union Square
	{4, 15, 0, 37.7879, -122.4075, 20, 45.0, 0.8, 180.0, "network"},
	{4, 15, 30, 37.7881, -122.4078, 25, 45.0, 0.5, 210.0, "network"},
	{4, 16, 0, 37.7885, -122.4082, 30, 45.0, 0.0, 0.0, "passive"},

	// Evening jog in the park
	{3, 18, 0, 37.7694, -122.4862, 10, 120.0, 2.5, 270.0, "gps"},
	{3, 18, 15, 37.7701, -122.4905, 12, 125.0, 3.2, 285.0, "gps"},
	{3, 18, 30, 37.7712, -122.4948, 15, 130.0, 2.8, 300.0, "gps"},
	{3, 18, 45, 37.7725, -122.4990, 18, 128.0, 2.1, 315.0, "gps"},

	// Recent locations (yesterday and today)
	{1, 9, 0, 37.7749, -122.4194, 10, 52.3, 0.0, 0.0, "gps"},
	{1, 12, 30, 37.7735, -122.4142, 15, 38.0, 0.0, 0.0, "network"},
	{1, 18, 0, 37.7749, -122.4194, 12, 52.3, 0.0, 0.0, "gps"},

	{0, 8, 0, 37.7749, -122.4194, 10, 52.3, 0.0, 0.0, "gps"},
	{0, 10, 30, 37.7805, -122.4090, 20, 30.0, 5.5, 45.0, "gps"},
	{0, 14, 0, 37.7820, -122.4015, 25, 25.0, 0.0, 0.0, "network"},
}

// SeedSample fills the locations table with synthetic fixture rows relative
// to now, for demos and tests. The schema must already exist (MigrateUp).
// Returns the number of rows inserted.
func (db *DB) SeedSample(ctx context.Context, now time.Time) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO locations (timestamp, latitude, longitude, accuracy, altitude, speed, bearing, provider)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now = now.UTC()
	for _, r := range sampleRows {
		day := now.AddDate(0, 0, -r.daysAgo)
		ts := time.Date(day.Year(), day.Month(), day.Day(), r.hour, r.minute, 0, 0, time.UTC)
		if _, err := stmt.ExecContext(ctx,
			ts.UnixMilli(), r.lat, r.lon, r.accuracy, r.altitude, r.speed, r.bearing, r.provider,
		); err != nil {
			return 0, fmt.Errorf("failed to insert sample row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(sampleRows), nil
}
