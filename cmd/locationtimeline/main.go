package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/DevJadon04/android-location-timeline-extractor/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "extract":
		handleExtract(args)
	case "sample":
		handleSample(args)
	case "serve":
		handleServe(args)
	case "migrate":
		handleMigrate(args)
	case "version":
		fmt.Printf("locationtimeline %s (%s, built %s)\n",
			version.Version, version.GitSHA, version.BuildTime)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`locationtimeline - Android location timeline extractor

Usage: locationtimeline <command> [options]

Commands:
  extract    Pull a location database (or read a local one), detect stops,
             and write timeline.csv, map.html, durations.png, action_log.txt,
             and hashes.csv to the output directory
  sample     Create a synthetic locations database for demos and tests
  serve      Run the local HTTP viewer over a locations database
  migrate    Run or inspect schema migrations on a locations database
  version    Show locationtimeline version
  help       Show this help message

Common Flags:
  --db <file>       Path to a local locations database
  --config <file>   JSON configuration file with detection thresholds,
                    table layout, and candidate device database paths

Examples:
  # Pull from the single connected device and analyze the last 7 days
  locationtimeline extract --out ./report

  # Analyze a database file already on disk
  locationtimeline extract --out ./report --db ./gmm_storage.db

  # Build a demo database, then browse it
  locationtimeline sample --db ./locations.db
  locationtimeline serve --db ./locations.db --listen :8080`)
}
