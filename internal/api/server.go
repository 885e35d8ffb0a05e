// Package api serves detected stops and rendered charts over HTTP so a
// timeline can be inspected in a browser without regenerating artifacts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/config"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/report"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

type Server struct {
	db     *locationdb.DB
	cfg    *config.Config
	clock  timeutil.Clock
	outDir string
}

func NewServer(db *locationdb.DB, cfg *config.Config, clock timeutil.Clock, outDir string) *Server {
	return &Server{
		db:     db,
		cfg:    cfg,
		clock:  clock,
		outDir: outDir,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%d] %s %s %vms",
			lrw.statusCode, r.Method, r.RequestURI,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stops", s.listStops)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/charts/map", s.showStopMap)
	mux.HandleFunc("/charts/durations", s.showDurations)
	if s.outDir != "" {
		mux.Handle("/artifacts/", http.StripPrefix("/artifacts/", http.FileServer(http.Dir(s.outDir))))
	}
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><body>
<h1>Location Timeline Viewer</h1>
<ul>
<li><a href="/api/stops">detected stops (JSON)</a></li>
<li><a href="/api/config">detection parameters (JSON)</a></li>
<li><a href="/charts/map">stop map</a></li>
<li><a href="/charts/durations">stop durations</a></li>
<li><a href="/artifacts/">generated artifacts</a></li>
</ul>
</body></html>`)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// lookbackDays returns the window from the 'days' query parameter, falling
// back to the configured lookback. A malformed parameter is a client error.
func (s *Server) lookbackDays(r *http.Request) (int, error) {
	d := r.URL.Query().Get("days")
	if d == "" {
		return s.cfg.GetLookbackDays(), nil
	}
	parsed, err := strconv.Atoi(d)
	if err != nil || parsed < 1 {
		return 0, fmt.Errorf("invalid 'days' parameter %q", d)
	}
	return parsed, nil
}

// detectStops runs stop detection over the given lookback window.
func (s *Server) detectStops(ctx context.Context, days int) ([]stops.Stop, error) {
	layout := locationdb.Layout{
		Table:           s.cfg.GetTable(),
		TimestampColumn: s.cfg.GetTimestampColumn(),
		LatitudeColumn:  s.cfg.GetLatitudeColumn(),
		LongitudeColumn: s.cfg.GetLongitudeColumn(),
	}
	since := s.clock.Now().AddDate(0, 0, -days)

	fixes, err := s.db.Fixes(ctx, layout, since)
	if err != nil {
		return nil, err
	}
	return stops.Detect(fixes, s.cfg.DetectorParams()), nil
}

func (s *Server) listStops(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	days, err := s.lookbackDays(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid 'days' parameter")
		return
	}

	detected, err := s.detectStops(r.Context(), days)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to detect stops: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(detected); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write stops")
		return
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params := map[string]interface{}{
		"stop_radius_meters":        s.cfg.GetStopRadiusMeters(),
		"min_stop_duration_minutes": s.cfg.GetMinStopDuration().Minutes(),
		"max_time_gap_minutes":      s.cfg.GetMaxTimeGap().Minutes(),
		"lookback_days":             s.cfg.GetLookbackDays(),
	}

	if err := json.NewEncoder(w).Encode(params); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}

func (s *Server) showStopMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days, err := s.lookbackDays(r)
	if err != nil {
		http.Error(w, "Invalid 'days' parameter", http.StatusBadRequest)
		return
	}

	detected, err := s.detectStops(r.Context(), days)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to detect stops: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.BuildStopMapPage(detected).Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("Failed to render map: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) showDurations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days, err := s.lookbackDays(r)
	if err != nil {
		http.Error(w, "Invalid 'days' parameter", http.StatusBadRequest)
		return
	}

	detected, err := s.detectStops(r.Context(), days)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to detect stops: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := report.BuildDurationBar(detected).Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("Failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
