package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/adb"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/audit"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/config"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/fsutil"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/report"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/stops"
	"github.com/DevJadon04/android-location-timeline-extractor/internal/timeutil"
)

func handleExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	outDir := fs.String("out", "", "Output directory for generated artifacts (required)")
	dbPath := fs.String("db", "", "Local locations database path; skips the device pull")
	deviceID := fs.String("device", "", "Device ID to pull from when multiple devices are connected")
	configPath := fs.String("config", "", "JSON configuration file")
	fs.Parse(args)

	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --out flag is required. Specify where to write timeline.csv, map.html, and the other artifacts (e.g., --out ./report)")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	clock := timeutil.RealClock{}
	auditLog := audit.New(clock)
	auditLog.Recordf("Android Location Timeline Extractor started")
	auditLog.Recordf("command line arguments: %s", strings.Join(os.Args, " "))

	filesystem := fsutil.OSFileSystem{}
	if err := filesystem.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Could not create output directory %q: %v\n", *outDir, err)
		os.Exit(1)
	}
	auditLog.Recordf("output directory %q ensured", *outDir)

	ctx := context.Background()

	localDB, err := resolveDatabase(ctx, auditLog, cfg, *dbPath, *deviceID, *outDir, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	auditLog.Recordf("location database ready at: %s", localDB)

	db, err := locationdb.Open(localDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	layout := locationdb.Layout{
		Table:           cfg.GetTable(),
		TimestampColumn: cfg.GetTimestampColumn(),
		LatitudeColumn:  cfg.GetLatitudeColumn(),
		LongitudeColumn: cfg.GetLongitudeColumn(),
	}
	auditLog.Recordf("db layout: table=%q timestamp=%q lat=%q lon=%q",
		layout.Table, layout.TimestampColumn, layout.LatitudeColumn, layout.LongitudeColumn)

	since := clock.Now().AddDate(0, 0, -cfg.GetLookbackDays())
	fixes, err := db.Fixes(ctx, layout, since)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse location data: %v\n", err)
		os.Exit(1)
	}
	if len(fixes) == 0 {
		auditLog.Recordf("no location points to analyze in the last %d day(s)", cfg.GetLookbackDays())
		fmt.Fprintln(os.Stderr, "No location data extracted.")
		os.Exit(1)
	}
	auditLog.Recordf("successfully parsed %d location points", len(fixes))

	detected := stops.Detect(fixes, cfg.DetectorParams())
	if len(detected) == 0 {
		// Outputs are still generated for completeness.
		auditLog.Recordf("no stops identified in the location data")
	} else {
		auditLog.Recordf("identified %d stops from location data", len(detected))
	}

	writer := report.NewWriter(filesystem, clock, auditLog, *outDir)
	paths, err := writer.WriteAll(detected)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate outputs: %v\n", err)
		os.Exit(1)
	}

	abs, err := filepath.Abs(*outDir)
	if err != nil {
		abs = *outDir
	}
	auditLog.Recordf("all outputs saved to: %s", abs)
	fmt.Printf("Wrote %d artifacts to %s\n", len(paths), abs)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// resolveDatabase returns a local database path, either the one supplied on
// the command line or one pulled from a connected device.
func resolveDatabase(ctx context.Context, auditLog *audit.Log, cfg *config.Config, dbPath, deviceID, outDir string, stdin io.Reader) (string, error) {
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err != nil {
			return "", fmt.Errorf("specified DB path %q does not exist: %w", dbPath, err)
		}
		auditLog.Recordf("using provided local DB path: %q", dbPath)
		return dbPath, nil
	}

	bridge := adb.NewBridge(auditLog, cfg.GetDevicePaths())

	devices, err := bridge.Devices(ctx)
	if errors.Is(err, adb.ErrNoDevices) {
		return "", errors.New("no devices found to pull from; connect an ADB-enabled device or provide --db")
	}
	if err != nil {
		return "", err
	}

	selected, err := selectDevice(devices, deviceID, stdin)
	if err != nil {
		return "", err
	}

	pulled, err := bridge.PullDatabase(ctx, selected, outDir)
	if err != nil {
		return "", fmt.Errorf("failed to pull DB from %q: %w", selected, err)
	}
	return pulled, nil
}

// selectDevice picks one connected device: the flagged ID if given, the only
// device if there is exactly one, otherwise an interactive prompt.
func selectDevice(devices []string, flagged string, stdin io.Reader) (string, error) {
	if flagged != "" {
		for _, d := range devices {
			if d == flagged {
				return d, nil
			}
		}
		return "", fmt.Errorf("device ID %q not found among connected devices", flagged)
	}
	if len(devices) == 1 {
		return devices[0], nil
	}

	fmt.Println("Multiple devices found. Please select one:")
	for i, d := range devices {
		fmt.Printf("  %d. %s\n", i+1, d)
	}
	fmt.Print("Enter device number or ID: ")

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read device choice: %w", err)
	}
	choice := strings.TrimSpace(line)

	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(devices) {
		return devices[n-1], nil
	}
	for _, d := range devices {
		if d == choice {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid device choice %q", choice)
}
