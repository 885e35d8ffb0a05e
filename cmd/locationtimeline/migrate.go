package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
)

func handleMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "", "Locations database to migrate (required)")
	fs.Parse(args)

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --db flag is required")
		fs.Usage()
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: migrate needs an action: up, down, status, or force <version>")
		os.Exit(1)
	}

	db, err := locationdb.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch action := fs.Arg(0); action {
	case "up":
		if err := db.MigrateUp(); err != nil {
			fmt.Fprintf(os.Stderr, "Migration up failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := db.MigrateDown(); err != nil {
			fmt.Fprintf(os.Stderr, "Migration down failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations rolled back")
	case "status":
		version, dirty, err := db.MigrateVersion()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read migration status: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
	case "force":
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Error: force needs a version number")
			os.Exit(1)
		}
		version, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid version %q: %v\n", fs.Arg(1), err)
			os.Exit(1)
		}
		if err := db.MigrateForce(version); err != nil {
			fmt.Fprintf(os.Stderr, "Force failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Schema version forced to %d\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown migrate action: %s\n", action)
		os.Exit(1)
	}
}
