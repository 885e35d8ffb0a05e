// Package audit accumulates the timestamped action trail for one extraction
// run. The trail is an injected value, not package state, so the core
// analysis stays side-effect free and concurrent runs can be audited
// independently.
package audit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

// entryTimeFormat has millisecond precision, matching the action log layout.
const entryTimeFormat = "2006-01-02 15:04:05.000"

// Log is a mutex-guarded, append-only list of timestamped entries. Every
// entry is mirrored to monitoring.Logf as it is recorded.
type Log struct {
	mu      sync.Mutex
	clock   timeutil.Clock
	runID   string
	entries []string
}

// New creates a Log for a fresh run and records the run ID as its first
// entry.
func New(clock timeutil.Clock) *Log {
	l := &Log{
		clock: clock,
		runID: uuid.New().String(),
	}
	l.Recordf("extraction run %s started", l.runID)
	return l
}

// RunID returns the unique identifier assigned to this run.
func (l *Log) RunID() string { return l.runID }

// Recordf appends a formatted, timestamped entry and mirrors it to the
// diagnostic logger.
func (l *Log) Recordf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := fmt.Sprintf("[%s] %s", l.clock.Now().Format(entryTimeFormat), fmt.Sprintf(format, v...))
	l.entries = append(l.entries, entry)
	monitoring.Logf("%s", entry)
}

// Entries returns a copy of the recorded entries in order.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
