package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/locationdb"
)

func handleSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	dbPath := fs.String("db", "locations.db", "Path for the synthetic locations database")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %q already exists; refusing to overwrite\n", *dbPath)
		os.Exit(1)
	}

	db, err := locationdb.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply schema migrations: %v\n", err)
		os.Exit(1)
	}

	n, err := db.SeedSample(context.Background(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed sample data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s with %d sample location points\n", *dbPath, n)
	fmt.Println("Try: locationtimeline extract --out ./report --db " + *dbPath)
}
