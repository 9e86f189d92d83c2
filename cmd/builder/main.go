package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/cheggaaa/pb.v1"

	"energy-model-builder/internal/config"
	"energy-model-builder/internal/repository"
	"energy-model-builder/internal/services"
	"energy-model-builder/pkg/database"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override configured input paths
	scenarioPath := flag.String("scenario", cfg.Inputs.Scenario, "Scenario configuration (TOML)")
	generators := flag.String("generators", cfg.Inputs.Generators, "Generator technology dataset (TOML)")
	storage := flag.String("storage", cfg.Inputs.Storage, "Storage technology dataset (TOML)")
	fuels := flag.String("fuels", cfg.Inputs.Fuels, "Fuel dataset for import technologies (TOML)")
	distribution := flag.String("distribution", cfg.Inputs.Distribution, "Distribution technology dataset (TOML)")
	demandPath := flag.String("demand", cfg.Inputs.Demand, "Annual load forecast table (CSV or XLSX)")
	hourly := flag.String("hourly-loads", cfg.Inputs.HourlyLoads, "Hourly load table, 8760 rows (CSV or XLSX)")
	conversions := flag.String("conversions", cfg.Inputs.ConversionDir, "Directory of unit conversion tables")
	template := flag.String("template", cfg.Inputs.Template, "Schema template database copied for each run (sqlite3)")
	outputDir := flag.String("output-dir", cfg.Inputs.OutputDir, "Directory for the output database (sqlite3)")
	schema := flag.String("schema", "migrations/001_create_schema.up.sql", "Schema applied when no template is given (sqlite3)")
	batchSize := flag.Int("batch-size", cfg.Build.BatchSize, "Number of rows inserted per transaction")
	keepGoing := flag.Bool("keep-going", cfg.Build.KeepGoing, "Drop failing technology instances instead of aborting")
	dryRun := flag.Bool("dry-run", false, "Expand the scenario in memory without writing a database")
	flag.Parse()

	cfg.Build.BatchSize = *batchSize
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("model-builder", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	logger.AddFile(logging.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer logger.Sync()

	runID := uuid.NewString()
	ctx := logging.WithRunID(context.Background(), runID)

	logger.Info(ctx, "[BUILDER_START] Starting model database build", logging.Fields{
		"version":    "1.0.0",
		"scenario":   *scenarioPath,
		"driver":     cfg.Database.Driver,
		"batch_size": *batchSize,
		"keep_going": *keepGoing,
		"dry_run":    *dryRun,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("model_builder")

	// Load inputs
	inputs, err := services.LoadInputs(ctx, services.InputPaths{
		Scenario:      *scenarioPath,
		ConversionDir: *conversions,
		Generators:    *generators,
		Storage:       *storage,
		Fuels:         *fuels,
		Distribution:  *distribution,
		Demand:        *demandPath,
		HourlyLoads:   *hourly,
	})
	if err != nil {
		logger.Fatal(ctx, "[BUILDER_ERROR] Failed to load inputs", logging.Fields{}, err)
	}

	// Initialize repository
	var repo repository.ModelRepository
	if *dryRun {
		repo = repository.NewMemoryRepository()
	} else {
		dbConfig := cfg.ConnectionConfig()
		if dbConfig.Driver == database.DriverSQLite {
			path, err := database.PrepareOutputFile(*template, *outputDir, inputs.Scenario.General.FileName)
			if err != nil {
				logger.Fatal(ctx, "[BUILDER_ERROR] Failed to prepare output database", logging.Fields{}, err)
			}
			dbConfig.Path = path
		}

		db, err := database.Open(dbConfig, logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[BUILDER_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()

		if dbConfig.Driver == database.DriverSQLite && *template == "" {
			if err := db.ApplySchema(ctx, *schema); err != nil {
				logger.Fatal(ctx, "[BUILDER_ERROR] Failed to apply schema", logging.Fields{}, err)
			}
		}
		repo = repository.NewModelRepository(db, logger, metricsCollector)
	}

	// Run the build
	bar := pb.StartNew(len(services.Stages))
	bar.ShowTimeLeft = false
	bar.Prefix("stages ")

	buildService := services.NewBuildService(repo, logger, metricsCollector)
	result, err := buildService.Run(ctx, inputs, services.BuildOptions{
		RunID:     runID,
		BatchSize: *batchSize,
		KeepGoing: *keepGoing,
		Progress:  func(string) { bar.Increment() },
	})
	if err != nil {
		bar.FinishPrint("Build failed")
		logger.Fatal(ctx, "[BUILD_ERROR] Build failed", logging.Fields{
			"instance_error": services.IsInstanceError(err),
		}, err)
	}
	bar.FinishPrint("Build finished")

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("BUILD COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Run ID:           %s\n", result.RunID)
	fmt.Printf("Total Rows:       %d\n", result.TotalRows())
	fmt.Printf("Failed Instances: %d\n", len(result.FailedInstances))
	fmt.Printf("Duration:         %v\n", result.Duration)

	tables := make([]string, 0, len(result.RowsByTable))
	for table := range result.RowsByTable {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Println("\nRows by table:")
	for _, table := range tables {
		fmt.Printf("  %-28s %d\n", table, result.RowsByTable[table])
	}

	if len(result.FailedInstances) > 0 {
		fmt.Printf("\nFailed instances (%d):\n", len(result.FailedInstances))
		for i, msg := range result.FailedInstances {
			if i < 10 {
				fmt.Printf("  - %s\n", msg)
			}
		}
		if len(result.FailedInstances) > 10 {
			fmt.Printf("  ... and %d more\n", len(result.FailedInstances)-10)
		}
	}

	logger.Info(ctx, "[BUILDER_COMPLETE] Build completed successfully", logging.Fields{
		"total_rows":       result.TotalRows(),
		"failed_instances": len(result.FailedInstances),
		"duration_seconds": result.Duration.Seconds(),
	})
}
