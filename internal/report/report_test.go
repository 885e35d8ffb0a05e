package report

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/audit"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/fsutil"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

func newTestWriter(t *testing.T) (*Writer, *fsutil.MemoryFileSystem) {
	t.Helper()
	monitoring.SetLogger(nil)
	fs := fsutil.NewMemoryFileSystem()
	clock := timeutil.NewFakeClock(time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC))
	return NewWriter(fs, clock, audit.New(clock), "out"), fs
}

func sampleStops() []stops.Stop {
	arrival := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return []stops.Stop{
		{
			Arrival:         arrival,
			Departure:       arrival.Add(25 * time.Minute),
			DurationMinutes: 25,
			Latitude:        37.7749,
			Longitude:       -122.4194,
			PointCount:      3,
		},
		{
			Arrival:         arrival.Add(2 * time.Hour),
			Departure:       arrival.Add(5 * time.Hour),
			DurationMinutes: 180,
			Latitude:        37.422,
			Longitude:       -122.0841,
			PointCount:      6,
		},
	}
}

func TestTimelineCSV(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	require.NoError(t, fs.MkdirAll("out", 0755))

	path, err := w.TimelineCSV(sampleStops())
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)

	want := "arrival_time,departure_time,duration_minutes,latitude,longitude,point_count\n" +
		"2024-03-01 08:00:00,2024-03-01 08:25:00,25,37.7749,-122.4194,3\n" +
		"2024-03-01 10:00:00,2024-03-01 13:00:00,180,37.422,-122.0841,6\n"
	assert.Equal(t, want, string(data))
}

func TestTimelineCSVEmpty(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	path, err := w.TimelineCSV(nil)
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arrival_time,departure_time,duration_minutes,latitude,longitude,point_count\n", string(data))
}

func TestMapHTML(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	path, err := w.MapHTML(sampleStops())
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "Detected Stops")
	assert.Contains(t, html, "Dwell Heat")
	assert.Contains(t, html, "short stay")
	assert.Contains(t, html, "long stay")
	assert.Contains(t, html, "echarts")
}

func TestMapHTMLNoStops(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	path, err := w.MapHTML(nil)
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0 stops")
}

func TestDurationHistogramPNG(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	path, err := w.DurationHistogramPNG(sampleStops())
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(data[:8]), "file must start with the PNG signature")
}

func TestDurationHistogramPNGNoStops(t *testing.T) {
	t.Parallel()

	// The chart is still rendered, just without bars.
	w, fs := newTestWriter(t)
	path, err := w.DurationHistogramPNG(nil)
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(data[:8]))
}

func TestActionLog(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	w.Audit.Recordf("parsed 29 location points")

	path, err := w.ActionLog()
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Android Location Timeline Extractor - Detailed Action Log")
	assert.Contains(t, text, "Generated at: 2024-03-08 12:00:00")
	assert.Contains(t, text, "parsed 29 location points")
	assert.Contains(t, text, "Action log completed.")
}

func TestHashesCSVMatchesContent(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	require.NoError(t, fs.WriteFile("out/timeline.csv", []byte("a,b\n1,2\n"), 0644))

	path, err := w.HashesCSV([]string{"out/timeline.csv", "out/missing.csv"})
	require.NoError(t, err)

	data, err := fs.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus one row; missing files are skipped")
	assert.Equal(t, []string{"filename", "sha256_hash"}, records[0])
	assert.Equal(t, "timeline.csv", records[1][0])

	sum := sha256.Sum256([]byte("a,b\n1,2\n"))
	assert.Equal(t, hex.EncodeToString(sum[:]), records[1][1])
}

func TestWriteAllProducesEveryArtifact(t *testing.T) {
	t.Parallel()

	w, fs := newTestWriter(t)
	paths, err := w.WriteAll(sampleStops())
	require.NoError(t, err)
	require.Len(t, paths, 5)

	assert.Equal(t, []string{
		"out/action_log.txt", "out/durations.png", "out/hashes.csv",
		"out/map.html", "out/timeline.csv",
	}, fs.Names())

	// Every non-hash artifact is listed in hashes.csv.
	data, err := fs.ReadFile("out/hashes.csv")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	var names []string
	for _, rec := range records[1:] {
		names = append(names, rec[0])
		assert.Len(t, rec[1], 64, "sha256 hex digest")
	}
	assert.Equal(t, []string{"timeline.csv", "map.html", "durations.png", "action_log.txt"}, names)
}

func TestWriteAllWithNoStops(t *testing.T) {
	t.Parallel()

	// Outputs are still generated for completeness when nothing was found.
	w, fs := newTestWriter(t)
	paths, err := w.WriteAll(nil)
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	assert.True(t, fs.Exists("out/timeline.csv"))
	assert.True(t, fs.Exists("out/map.html"))

	data, err := fs.ReadFile("out/durations.png")
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(data[:8]))
}
