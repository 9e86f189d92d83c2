package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"energy-model-builder/internal/scenario"
	"energy-model-builder/internal/tabular"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
)

// InputPaths names every document a build reads. Empty optional paths skip
// the corresponding stage.
type InputPaths struct {
	Scenario      string
	ConversionDir string
	Generators    string
	Storage       string
	Fuels         string
	Distribution  string
	Demand        string
	HourlyLoads   string
}

// Inputs is the parsed, read-only input set of one build.
type Inputs struct {
	Scenario     *scenario.Scenario
	Engine       *units.Engine
	Generators   *techspec.Dataset
	Storage      *techspec.Dataset
	Fuels        *techspec.Dataset
	Distribution *techspec.Dataset
	Demand       *tabular.Table
	HourlyLoads  *tabular.Table
}

// LoadInputs parses the scenario, conversion tables, datasets, and tables
// concurrently.
func LoadInputs(ctx context.Context, paths InputPaths) (*Inputs, error) {
	if paths.Scenario == "" {
		return nil, fmt.Errorf("scenario path is required")
	}
	if paths.ConversionDir == "" {
		return nil, fmt.Errorf("unit conversion directory is required")
	}

	in := &Inputs{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sc, err := scenario.Load(paths.Scenario)
		if err != nil {
			return err
		}
		in.Scenario = sc
		return nil
	})
	g.Go(func() error {
		engine, err := units.LoadEngine(ctx, paths.ConversionDir)
		if err != nil {
			return err
		}
		in.Engine = engine
		return nil
	})

	datasets := []struct {
		path string
		dst  **techspec.Dataset
	}{
		{paths.Generators, &in.Generators},
		{paths.Storage, &in.Storage},
		{paths.Fuels, &in.Fuels},
		{paths.Distribution, &in.Distribution},
	}
	for _, d := range datasets {
		if d.path == "" {
			continue
		}
		g.Go(func() error {
			ds, err := techspec.Load(d.path)
			if err != nil {
				return err
			}
			*d.dst = ds
			return nil
		})
	}

	tables := []struct {
		path string
		dst  **tabular.Table
	}{
		{paths.Demand, &in.Demand},
		{paths.HourlyLoads, &in.HourlyLoads},
	}
	for _, tb := range tables {
		if tb.path == "" {
			continue
		}
		g.Go(func() error {
			t, err := tabular.Load(tb.path)
			if err != nil {
				return err
			}
			*tb.dst = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}
	return in, nil
}
