package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kwslab/kwspot/internal/output"
	"github.com/kwslab/kwspot/pkg/kwspot"
	"github.com/kwslab/kwspot/pkg/logger"
	"github.com/kwslab/kwspot/pkg/utils"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// globalFlags registers the flags shared by every subcommand.
func globalFlags(fs *flag.FlagSet) (dbPath *string, workers *int, maxGap *float64, segmentScan *bool, language *string) {
	dbPath = fs.String("db", getEnvOrDefault("KWSPOT_DB_PATH", "kwspot.sqlite3"), "Path to the SQLite run database")
	workers = fs.Int("workers", 0, "Worker goroutines for query matching (0 = one per CPU)")
	maxGap = fs.Float64("max-gap", 0.5, "Maximum start-to-start gap in seconds between consecutive phrase words")
	segmentScan = fs.Bool("segment-scan", false, "Restrict matches to a single file/channel instead of the flat scan")
	language = fs.String("language", "", "Language attribute for the XML output")
	return
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	log := logger.GetLogger()
	command := os.Args[1]
	log.Debugf("Executing command: %s", command)

	switch command {
	case "search":
		handleSearch(os.Args[2:])
	case "list":
		handleList(os.Args[2:])
	case "delete":
		handleDelete(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleSearch(args []string) {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	dbPath, workers, maxGap, segmentScan, language := globalFlags(fs)
	refPath := fs.String("ref", "", "Reference transcript file (required)")
	queryPath := fs.String("queries", "", "Keyword list XML file (required)")
	ctmOut := fs.String("ctm-out", "output/hits.ctm", "CTM output path")
	xmlOut := fs.String("xml-out", "output/hits.xml", "kwslist XML output path")
	kwlistName := fs.String("kwlist-name", "", "kwlist_filename attribute for the XML output (default: base name of -queries)")
	save := fs.Bool("save", false, "Persist this run to the database")
	fs.Parse(args)

	if *refPath == "" || *queryPath == "" {
		fmt.Println("Error: -ref and -queries are required")
		fmt.Println("Usage: kwspot search -ref <reference.ctm> -queries <queries.xml> [flags]")
		os.Exit(1)
	}
	if *kwlistName == "" {
		*kwlistName = filepath.Base(*queryPath)
	}

	svc, err := kwspot.NewService(
		kwspot.WithDBPath(*dbPath),
		kwspot.WithWorkers(*workers),
		kwspot.WithMaxStartGap(*maxGap),
		kwspot.WithSegmentScan(*segmentScan),
		kwspot.WithLanguage(*language),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Search(ctx, *refPath, *queryPath)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if err := utils.EnsureParentDir(*ctmOut); err != nil {
		log.Fatalf("Failed to prepare output directory: %v", err)
	}
	if err := utils.EnsureParentDir(*xmlOut); err != nil {
		log.Fatalf("Failed to prepare output directory: %v", err)
	}
	if err := output.WriteCTMFile(*ctmOut, result.Hits); err != nil {
		log.Fatalf("Failed to write CTM output: %v", err)
	}
	if err := output.WriteKwslistFile(*xmlOut, result.Hits, output.Meta{
		KwlistFilename: *kwlistName,
		Language:       *language,
	}); err != nil {
		log.Fatalf("Failed to write XML output: %v", err)
	}

	fmt.Printf("Search complete: %d hits for %d queries over %d reference words\n",
		len(result.Hits), result.QueryCount, result.OccurrenceCount)
	fmt.Printf("   CTM: %s\n", *ctmOut)
	fmt.Printf("   XML: %s\n", *xmlOut)

	if *save {
		runID, err := svc.SaveRun(result)
		if err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		fmt.Printf("   Run ID: %s\n", runID)
	}
}

func handleList(args []string) {
	log := logger.GetLogger()

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath, _, _, _, _ := globalFlags(fs)
	fs.Parse(args)

	svc, err := kwspot.NewService(kwspot.WithDBPath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	runs, err := svc.ListRuns()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs in database")
		return
	}

	fmt.Printf("Found %d run(s):\n\n", len(runs))
	for i, run := range runs {
		fmt.Printf("%d. %s  (%s)\n", i+1, run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Reference: %s\n", run.ReferencePath)
		fmt.Printf("   Queries:   %s\n", run.QueryPath)
		fmt.Printf("   Hits:      %d over %d queries\n", run.HitCount, run.QueryCount)
		fmt.Println()
	}
}

func handleDelete(args []string) {
	log := logger.GetLogger()

	if len(args) < 1 {
		fmt.Println("Usage: kwspot delete <run_id> [flags]")
		os.Exit(1)
	}
	runID := args[0]

	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dbPath, _, _, _, _ := globalFlags(fs)
	fs.Parse(args[1:])

	svc, err := kwspot.NewService(kwspot.WithDBPath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer svc.Close()

	run, err := svc.GetRunByID(runID)
	if err != nil {
		log.Fatalf("Run not found (%s): %v", runID, err)
	}

	if err := svc.DeleteRun(runID); err != nil {
		log.Fatalf("Failed to delete run: %v", err)
	}

	fmt.Printf("Deleted run %s (%d hits)\n", run.ID, run.HitCount)
}

func printUsage() {
	fmt.Println("kwspot - keyword spotting search over time-aligned transcripts")
	fmt.Println("\nUsage:")
	fmt.Println("  kwspot search -ref <reference.ctm> -queries <queries.xml> [flags]")
	fmt.Println("  kwspot list   [flags]")
	fmt.Println("  kwspot delete <run_id> [flags]")
	fmt.Println("\nShared flags:")
	fmt.Println("  -db <path>        SQLite run database (env: KWSPOT_DB_PATH, default: kwspot.sqlite3)")
	fmt.Println("  -workers <n>      Worker goroutines for matching (default: one per CPU)")
	fmt.Println("  -max-gap <sec>    Maximum start-to-start gap between phrase words (default: 0.5)")
	fmt.Println("  -segment-scan     Keep matches within one file/channel")
	fmt.Println("\nSearch flags:")
	fmt.Println("  -ctm-out <path>      CTM output (default: output/hits.ctm)")
	fmt.Println("  -xml-out <path>      kwslist XML output (default: output/hits.xml)")
	fmt.Println("  -kwlist-name <name>  kwlist_filename attribute for the XML output")
	fmt.Println("  -language <lang>     language attribute for the XML output")
	fmt.Println("  -save                persist the run to the database")
}
