package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/api"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/monitoring"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", "", "Locations database to serve (required)")
	listen := fs.String("listen", ":8080", "Address to listen on")
	configPath := fs.String("config", "", "JSON configuration file")
	outDir := fs.String("out", "", "Artifact directory to serve under /artifacts/")
	fs.Parse(args)

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --db flag is required. Specify the locations database to serve (e.g., --db ./locations.db)")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := locationdb.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(db, cfg, timeutil.RealClock{}, *outDir)
	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(srv.ServeMux()),
	}

	go func() {
		monitoring.Logf("viewer listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
	}
	monitoring.Logf("graceful shutdown complete")
}
