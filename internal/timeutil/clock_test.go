package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, 30*time.Minute, clock.Since(start.Add(-30*time.Minute)))

	clock.Advance(5 * time.Minute)
	assert.Equal(t, start.Add(5*time.Minute), clock.Now())
}

func TestRealClockMonotonic(t *testing.T) {
	t.Parallel()

	var clock RealClock
	before := clock.Now()
	assert.False(t, clock.Now().Before(before))
	assert.GreaterOrEqual(t, clock.Since(before), time.Duration(0))
}
