// Package config loads the extraction configuration. The schema uses
// pointer fields so a partial JSON file only overrides what it names; the
// Get* accessors supply the documented defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
)

// Config is the root configuration for an extraction run.
type Config struct {
	// Stop detection thresholds
	StopRadiusMeters       *float64 `json:"stop_radius_meters,omitempty"`
	MinStopDurationMinutes *float64 `json:"min_stop_duration_minutes,omitempty"`
	MaxTimeGapMinutes      *float64 `json:"max_time_gap_minutes,omitempty"`

	// Extraction window
	LookbackDays *int `json:"lookback_days,omitempty"`

	// Source database layout
	Table           *string `json:"table,omitempty"`
	TimestampColumn *string `json:"timestamp_column,omitempty"`
	LatitudeColumn  *string `json:"latitude_column,omitempty"`
	LongitudeColumn *string `json:"longitude_column,omitempty"`

	// Candidate on-device database paths, tried in order during a pull.
	DevicePaths []string `json:"device_paths,omitempty"`
}

// Default returns a Config with all fields unset, so every accessor falls
// back to its documented default.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. Fields omitted from the file keep
// their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any values present are usable.
func (c *Config) Validate() error {
	if c.StopRadiusMeters != nil && *c.StopRadiusMeters <= 0 {
		return fmt.Errorf("stop_radius_meters must be positive, got %f", *c.StopRadiusMeters)
	}
	if c.MinStopDurationMinutes != nil && *c.MinStopDurationMinutes < 0 {
		return fmt.Errorf("min_stop_duration_minutes must be non-negative, got %f", *c.MinStopDurationMinutes)
	}
	if c.MaxTimeGapMinutes != nil && *c.MaxTimeGapMinutes <= 0 {
		return fmt.Errorf("max_time_gap_minutes must be positive, got %f", *c.MaxTimeGapMinutes)
	}
	if c.LookbackDays != nil && *c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", *c.LookbackDays)
	}
	if c.Table != nil && *c.Table == "" {
		return fmt.Errorf("table must not be empty")
	}
	return nil
}

// GetStopRadiusMeters returns the stop grouping radius or the default.
func (c *Config) GetStopRadiusMeters() float64 {
	if c.StopRadiusMeters == nil {
		return 50
	}
	return *c.StopRadiusMeters
}

// GetMinStopDuration returns the minimum dwell span or the default.
func (c *Config) GetMinStopDuration() time.Duration {
	if c.MinStopDurationMinutes == nil {
		return time.Minute
	}
	return time.Duration(*c.MinStopDurationMinutes * float64(time.Minute))
}

// GetMaxTimeGap returns the maximum sampling gap or the default.
func (c *Config) GetMaxTimeGap() time.Duration {
	if c.MaxTimeGapMinutes == nil {
		return 30 * time.Minute
	}
	return time.Duration(*c.MaxTimeGapMinutes * float64(time.Minute))
}

// GetLookbackDays returns the extraction window in days or the default.
func (c *Config) GetLookbackDays() int {
	if c.LookbackDays == nil {
		return 7
	}
	return *c.LookbackDays
}

// GetTable returns the source table name or the default.
func (c *Config) GetTable() string {
	if c.Table == nil {
		return "locations"
	}
	return *c.Table
}

// GetTimestampColumn returns the timestamp column name or the default.
func (c *Config) GetTimestampColumn() string {
	if c.TimestampColumn == nil {
		return "timestamp"
	}
	return *c.TimestampColumn
}

// GetLatitudeColumn returns the latitude column name or the default.
func (c *Config) GetLatitudeColumn() string {
	if c.LatitudeColumn == nil {
		return "latitude"
	}
	return *c.LatitudeColumn
}

// GetLongitudeColumn returns the longitude column name or the default.
func (c *Config) GetLongitudeColumn() string {
	if c.LongitudeColumn == nil {
		return "longitude"
	}
	return *c.LongitudeColumn
}

// GetDevicePaths returns the candidate on-device database paths or the
// default GMS locations.
func (c *Config) GetDevicePaths() []string {
	if len(c.DevicePaths) == 0 {
		return []string{
			"/data/data/com.google.android.gms/databases/locations.db",
			"/data/data/com.google.android.gms/databases/cache.db",
		}
	}
	return c.DevicePaths
}

// DetectorParams assembles the stop detection thresholds.
func (c *Config) DetectorParams() stops.Params {
	return stops.Params{
		StopRadiusMeters: c.GetStopRadiusMeters(),
		MinStopDuration:  c.GetMinStopDuration(),
		MaxTimeGap:       c.GetMaxTimeGap(),
	}
}
