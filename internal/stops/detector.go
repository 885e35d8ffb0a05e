// Package stops turns a noisy stream of timestamped GPS fixes into a compact
// sequence of dwell episodes.
package stops

import (
	"math"
	"sort"
	"time"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/geo"
)

// Fix is one raw location observation. Timestamps are UTC; coordinates are
// WGS-84 decimal degrees. Fixes are value types and never mutated by the
// detector.
type Fix struct {
	Timestamp time.Time
	Latitude  float64
	Longitude float64
}

// Stop is a detected dwell episode: one or more temporally and spatially
// contiguous fixes collapsed into an arrival/departure window around their
// centroid.
type Stop struct {
	Arrival         time.Time `json:"arrival_time"`
	Departure       time.Time `json:"departure_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	PointCount      int       `json:"point_count"`
}

// Params tunes the clustering thresholds.
type Params struct {
	// StopRadiusMeters is the maximum distance from the running cluster
	// centroid for a fix to join the current cluster.
	StopRadiusMeters float64

	// MinStopDuration is the minimum departure-minus-arrival span for a
	// cluster to be emitted as a Stop. Shorter clusters are discarded.
	MinStopDuration time.Duration

	// MaxTimeGap is the maximum elapsed time since the cluster's last
	// member for a new fix to still be considered contiguous.
	MaxTimeGap time.Duration
}

// DefaultParams returns the standard thresholds: 50 m radius, 1 minute
// minimum dwell, 30 minute maximum sampling gap.
func DefaultParams() Params {
	return Params{
		StopRadiusMeters: 50,
		MinStopDuration:  time.Minute,
		MaxTimeGap:       30 * time.Minute,
	}
}

// cluster accumulates the members of the in-progress dwell candidate.
type cluster struct {
	fixes []Fix
	lats  []float64
	lons  []float64
}

func newCluster(f Fix) *cluster {
	return &cluster{
		fixes: []Fix{f},
		lats:  []float64{f.Latitude},
		lons:  []float64{f.Longitude},
	}
}

func (c *cluster) add(f Fix) {
	c.fixes = append(c.fixes, f)
	c.lats = append(c.lats, f.Latitude)
	c.lons = append(c.lons, f.Longitude)
}

func (c *cluster) first() Fix { return c.fixes[0] }
func (c *cluster) last() Fix  { return c.fixes[len(c.fixes)-1] }

// emit converts the cluster to a Stop if it spans at least minDuration.
// Sub-threshold clusters are dropped entirely; their fixes appear in no
// output stop.
func (c *cluster) emit(minDuration time.Duration) (Stop, bool) {
	duration := c.last().Timestamp.Sub(c.first().Timestamp)
	if duration < minDuration {
		return Stop{}, false
	}
	lat, lon := geo.Centroid(c.lats, c.lons)
	return Stop{
		Arrival:         c.first().Timestamp,
		Departure:       c.last().Timestamp,
		DurationMinutes: int(duration.Minutes()),
		Latitude:        roundCoord(lat),
		Longitude:       roundCoord(lon),
		PointCount:      len(c.fixes),
	}, true
}

// roundCoord rounds to 6 decimal places, about 0.1 m of latitude.
func roundCoord(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Detect groups fixes into stops with a single forward pass. Input need not
// be sorted; it is stable-sorted by timestamp first, so ties keep their
// original relative order. The function is pure: it neither logs nor mutates
// its input, and calling it twice on the same input yields identical output.
//
// A fix joins the current cluster when it is within StopRadiusMeters of the
// cluster's running centroid (computed before the fix is added) and within
// MaxTimeGap of the last member. Both comparisons are inclusive. Any other
// fix closes the cluster and starts a new one.
func Detect(fixes []Fix, p Params) []Stop {
	if len(fixes) == 0 {
		return nil
	}

	sorted := make([]Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var stops []Stop
	current := newCluster(sorted[0])

	for _, f := range sorted[1:] {
		gap := f.Timestamp.Sub(current.last().Timestamp)
		centLat, centLon := geo.Centroid(current.lats, current.lons)
		dist := geo.Distance(centLat, centLon, f.Latitude, f.Longitude)

		if dist <= p.StopRadiusMeters && gap <= p.MaxTimeGap {
			current.add(f)
			continue
		}

		if stop, ok := current.emit(p.MinStopDuration); ok {
			stops = append(stops, stop)
		}
		current = newCluster(f)
	}

	if stop, ok := current.emit(p.MinStopDuration); ok {
		stops = append(stops, stop)
	}

	return stops
}
