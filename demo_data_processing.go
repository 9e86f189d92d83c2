package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"energy-model-builder/internal/config"
	"energy-model-builder/internal/repository"
	"energy-model-builder/internal/services"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

// Demonstrates a full expansion without a database: the configured inputs
// are expanded into an in-memory store and the table counts printed.
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("ENERGY MODEL BUILDER - DRY RUN DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("demo", "1.0.0", logging.WarnLevel)
	collector := metrics.NewCollectorWithRegistry("demo", prometheus.NewRegistry())
	ctx := context.Background()

	inputs, err := services.LoadInputs(ctx, services.InputPaths{
		Scenario:      cfg.Inputs.Scenario,
		ConversionDir: cfg.Inputs.ConversionDir,
		Generators:    cfg.Inputs.Generators,
		Storage:       cfg.Inputs.Storage,
		Fuels:         cfg.Inputs.Fuels,
		Distribution:  cfg.Inputs.Distribution,
		Demand:        cfg.Inputs.Demand,
		HourlyLoads:   cfg.Inputs.HourlyLoads,
	})
	if err != nil {
		fmt.Printf("Error loading inputs: %v\n", err)
		os.Exit(1)
	}

	sc := inputs.Scenario
	fmt.Printf("Regions:      %v\n", sc.Geography.Regions)
	fmt.Printf("Model years:  %v\n", sc.Time.ModelYears)
	fmt.Printf("Units:        capacity=%s activity=%s currency=%s emissions=%s\n",
		sc.Units.Capacity, sc.Units.Activity, sc.Units.Currency, sc.Units.Emissions)
	fmt.Println()

	repo := repository.NewMemoryRepository()
	result, err := services.NewBuildService(repo, logger, collector).Run(ctx, inputs, services.BuildOptions{
		BatchSize: cfg.Build.BatchSize,
		KeepGoing: true,
	})
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		os.Exit(1)
	}

	counts, err := services.NewInspectionService(repo, logger, collector).TableCounts(ctx)
	if err != nil {
		fmt.Printf("Error counting rows: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("TABLE SUMMARY")
	fmt.Println("════════════════════════════════════════════════════════════════")
	for _, table := range repository.Tables {
		fmt.Printf("%-28s %8d\n", table, counts[table])
	}
	fmt.Println()

	if len(result.SkipsByReason) > 0 {
		fmt.Println("Omitted facts:")
		type skipCount struct {
			label string
			n     int
		}
		var skips []skipCount
		for skip, n := range result.SkipsByReason {
			skips = append(skips, skipCount{skip.Table + " (" + skip.Reason + ")", n})
		}
		sort.Slice(skips, func(i, j int) bool { return skips[i].label < skips[j].label })
		for _, s := range skips {
			fmt.Printf("  %-40s %d\n", s.label, s.n)
		}
		fmt.Println()
	}

	if len(result.FailedInstances) > 0 {
		fmt.Printf("Failed technology instances (%d):\n", len(result.FailedInstances))
		for _, msg := range result.FailedInstances {
			fmt.Printf("  - %s\n", msg)
		}
		fmt.Println()
	}

	fmt.Printf("Total rows: %d in %v\n", result.TotalRows(), result.Duration)
}
