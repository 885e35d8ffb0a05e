package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/config"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	monitoring.SetLogger(nil)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	db, err := locationdb.Open(filepath.Join(t.TempDir(), "gmm_storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())

	n, err := db.SeedSample(context.Background(), now)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	return NewServer(db, config.Default(), timeutil.NewFakeClock(now), "")
}

func TestListStops(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stops", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var detected []stops.Stop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detected))
	assert.NotEmpty(t, detected, "sample data contains multi-fix dwells")
	for _, s := range detected {
		assert.GreaterOrEqual(t, s.DurationMinutes, 1)
		assert.True(t, s.Departure.After(s.Arrival) || s.Departure.Equal(s.Arrival))
	}
}

func TestListStopsRejectsPost(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stops", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListStopsInvalidDays(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	for _, q := range []string{"zero", "-1", "0"} {
		rec := httptest.NewRecorder()
		srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stops?days="+q, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", q)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "days")
	}

	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/map?days=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListStopsDaysWindow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	all := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(all, httptest.NewRequest(http.MethodGet, "/api/stops?days=30", nil))
	require.Equal(t, http.StatusOK, all.Code)

	recent := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(recent, httptest.NewRequest(http.MethodGet, "/api/stops?days=1", nil))
	require.Equal(t, http.StatusOK, recent.Code)

	var wide, narrow []stops.Stop
	require.NoError(t, json.Unmarshal(all.Body.Bytes(), &wide))
	require.NoError(t, json.Unmarshal(recent.Body.Bytes(), &narrow))
	assert.LessOrEqual(t, len(narrow), len(wide))
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var params map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &params))
	assert.Equal(t, 50.0, params["stop_radius_meters"])
	assert.Equal(t, 1.0, params["min_stop_duration_minutes"])
	assert.Equal(t, 30.0, params["max_time_gap_minutes"])
	assert.Equal(t, 7.0, params["lookback_days"])
}

func TestShowStopMap(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/map", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Detected Stops")
}

func TestShowDurations(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/durations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")
}

func TestHome(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Location Timeline Viewer")

	missing := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, format)
	})
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, logged, 1)
}
