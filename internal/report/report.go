// Package report renders the extraction artifacts: the tabular timeline, the
// interactive stop map, the dwell duration chart, the action log, and the
// integrity hashes over all of them.
package report

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/audit"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/fsutil"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

// Artifact file names within the output directory.
const (
	TimelineFile  = "timeline.csv"
	MapFile       = "map.html"
	DurationsFile = "durations.png"
	ActionLogFile = "action_log.txt"
	HashesFile    = "hashes.csv"
)

// timestampLayout is the timeline timestamp format.
const timestampLayout = "2006-01-02 15:04:05"

// Writer renders stop records into artifact files under OutDir.
type Writer struct {
	FS     fsutil.FileSystem
	Clock  timeutil.Clock
	Audit  *audit.Log
	OutDir string
}

// NewWriter builds a Writer for the given output directory.
func NewWriter(fs fsutil.FileSystem, clock timeutil.Clock, log *audit.Log, outDir string) *Writer {
	return &Writer{FS: fs, Clock: clock, Audit: log, OutDir: outDir}
}

// WriteAll generates every artifact and returns their paths in generation
// order. The hashes file is produced last and covers all other artifacts,
// including the action log, so audit entries recorded while hashing appear
// only in the diagnostic output.
func (w *Writer) WriteAll(detected []stops.Stop) ([]string, error) {
	if err := w.FS.MkdirAll(w.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", w.OutDir, err)
	}

	w.Audit.Recordf("starting output file generation")

	timelinePath, err := w.TimelineCSV(detected)
	if err != nil {
		return nil, err
	}
	mapPath, err := w.MapHTML(detected)
	if err != nil {
		return nil, err
	}
	durationsPath, err := w.DurationHistogramPNG(detected)
	if err != nil {
		return nil, err
	}
	logPath, err := w.ActionLog()
	if err != nil {
		return nil, err
	}

	toHash := []string{timelinePath, mapPath, durationsPath, logPath}
	hashesPath, err := w.HashesCSV(toHash)
	if err != nil {
		return nil, err
	}

	w.Audit.Recordf("all output files generated in %s", w.OutDir)
	return append(toHash, hashesPath), nil
}

// TimelineCSV writes one row per stop with arrival, departure, duration,
// centroid, and supporting point count.
func (w *Writer) TimelineCSV(detected []stops.Stop) (string, error) {
	path := filepath.Join(w.OutDir, TimelineFile)
	w.Audit.Recordf("generating %s", TimelineFile)

	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{
		"arrival_time", "departure_time", "duration_minutes",
		"latitude", "longitude", "point_count",
	}); err != nil {
		return "", err
	}

	for _, s := range detected {
		row := []string{
			s.Arrival.Format(timestampLayout),
			s.Departure.Format(timestampLayout),
			strconv.Itoa(s.DurationMinutes),
			strconv.FormatFloat(s.Latitude, 'f', -1, 64),
			strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			strconv.Itoa(s.PointCount),
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	w.Audit.Recordf("generated %s with %d stops", TimelineFile, len(detected))
	return path, nil
}

// ActionLog writes the audit trail accumulated so far.
func (w *Writer) ActionLog() (string, error) {
	path := filepath.Join(w.OutDir, ActionLogFile)
	w.Audit.Recordf("generating %s", ActionLogFile)

	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	banner := "======================================================================\n"
	fmt.Fprint(f, "Android Location Timeline Extractor - Detailed Action Log\n")
	fmt.Fprint(f, banner)
	fmt.Fprintf(f, "Generated at: %s\n", w.Clock.Now().Format(timestampLayout))
	fmt.Fprint(f, banner)
	fmt.Fprint(f, "\n")

	for _, entry := range w.Audit.Entries() {
		fmt.Fprintln(f, entry)
	}
	fmt.Fprintf(f, "\n[%s] Action log completed.\n", w.Clock.Now().Format(timestampLayout))

	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// HashesCSV writes a filename,sha256_hash row for each existing path.
func (w *Writer) HashesCSV(paths []string) (string, error) {
	path := filepath.Join(w.OutDir, HashesFile)
	w.Audit.Recordf("generating %s", HashesFile)

	f, err := w.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"filename", "sha256_hash"}); err != nil {
		return "", err
	}

	for _, p := range paths {
		if !w.FS.Exists(p) {
			w.Audit.Recordf("skipping hash for missing file %s", p)
			continue
		}
		sum, err := w.hashFile(p)
		if err != nil {
			return "", err
		}
		if err := cw.Write([]string{filepath.Base(p), sum}); err != nil {
			return "", err
		}
		w.Audit.Recordf("  - %s: %s...", filepath.Base(p), sum[:16])
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) hashFile(path string) (string, error) {
	f, err := w.FS.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 4096)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
