package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/kwslab/kwspot/pkg/kwspot"
)

var (
	port           int
	dbPath         string
	workers        int
	maxGap         float64
	segmentScan    bool
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("KWSPOT_DB_PATH", "kwspot.sqlite3"), "Path to SQLite run database")
	flag.IntVar(&workers, "workers", 0, "Worker goroutines for query matching (0 = one per CPU)")
	flag.Float64Var(&maxGap, "max-gap", 0.5, "Maximum start-to-start gap in seconds between consecutive phrase words")
	flag.BoolVar(&segmentScan, "segment-scan", false, "Restrict matches to a single file/channel")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := kwspot.NewService(
		kwspot.WithDBPath(dbPath),
		kwspot.WithWorkers(workers),
		kwspot.WithMaxStartGap(maxGap),
		kwspot.WithSegmentScan(segmentScan),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
