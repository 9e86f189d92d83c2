package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"energy-model-builder/internal/config"
	"energy-model-builder/pkg/database"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	dir := flag.String("dir", "migrations", "Directory holding the migration files")
	flag.Parse()

	if *direction != "up" && *direction != "down" {
		fmt.Fprintf(os.Stderr, "Unknown direction %q, expected up or down\n", *direction)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("model-migrate", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	ctx := context.Background()

	// Connect to database
	db, err := database.Open(cfg.ConnectionConfig(), logger, metrics.NewCollector("model_migrate"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("Connected to database successfully")

	// Execute migration
	migrationFile := filepath.Join(*dir, fmt.Sprintf("001_create_schema.%s.sql", *direction))
	fmt.Printf("Running migration: %s\n", migrationFile)

	if err := db.ApplySchema(ctx, migrationFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migration completed successfully")
}
