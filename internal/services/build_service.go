package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"energy-model-builder/internal/builder"
	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/demand"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/repository"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

// Build stages in execution order.
const (
	StageSets               = "sets"
	StageDemand             = "demand"
	StageDemandDistribution = "demand_distribution"
	StageGeneration         = "generation"
	StageStorage            = "storage"
	StageImports            = "imports"
	StageDistribution       = "distribution"
)

// Stages lists every build stage in order.
var Stages = []string{
	StageSets,
	StageDemand,
	StageDemandDistribution,
	StageGeneration,
	StageStorage,
	StageImports,
	StageDistribution,
}

// DefaultBatchSize is used when BuildOptions.BatchSize is not positive.
const DefaultBatchSize = 1000

// BuildOptions controls one build run
type BuildOptions struct {
	RunID     string
	BatchSize int
	// KeepGoing drops failed technology instances instead of aborting the run.
	KeepGoing bool
	// Progress, when set, is called after each stage finishes.
	Progress func(stage string)
}

// BuildResult contains build statistics
type BuildResult struct {
	RunID           string
	RowsByTable     map[string]int
	SkipsByReason   map[builder.Skip]int
	FailedInstances []string
	Duration        time.Duration
}

// TotalRows sums emitted rows across tables.
func (r *BuildResult) TotalRows() int {
	n := 0
	for _, c := range r.RowsByTable {
		n += c
	}
	return n
}

// BuildService expands a scenario into model database rows
type BuildService struct {
	repo    repository.ModelRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewBuildService creates a new build service
func NewBuildService(repo repository.ModelRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *BuildService {
	return &BuildService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Run executes every build stage against in and writes the rows.
func (s *BuildService) Run(ctx context.Context, in *Inputs, opts BuildOptions) (*BuildResult, error) {
	if in == nil || in.Scenario == nil || in.Engine == nil {
		return nil, fmt.Errorf("scenario and unit conversions are required")
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	ctx = logging.WithRunID(ctx, opts.RunID)

	buildTimer := s.metrics.NewTimer(s.metrics.BuildDuration)

	s.logger.Info(ctx, "[BUILD_START] Starting model database build", logging.Fields{
		"regions":     in.Scenario.Geography.Regions,
		"model_years": in.Scenario.Time.ModelYears,
		"batch_size":  opts.BatchSize,
		"keep_going":  opts.KeepGoing,
		"stage":       "INITIALIZATION",
	})

	r := &run{
		svc:    s,
		in:     in,
		opts:   opts,
		cal:    calendar.New(),
		result: &BuildResult{RunID: opts.RunID, RowsByTable: make(map[string]int), SkipsByReason: make(map[builder.Skip]int)},
	}
	r.b = builder.New(in.Scenario, in.Engine, r.cal)

	steps := []struct {
		stage string
		fn    func(context.Context) error
	}{
		{StageSets, r.sets},
		{StageDemand, r.annualDemand},
		{StageDemandDistribution, r.demandShape},
		{StageGeneration, r.generation},
		{StageStorage, r.storage},
		{StageImports, r.imports},
		{StageDistribution, r.distribution},
	}

	for _, step := range steps {
		timer := s.metrics.NewTimer(s.metrics.StageDuration.WithLabelValues(step.stage))
		err := step.fn(ctx)
		duration := timer.ObserveDuration()
		if err != nil {
			s.logger.Error(ctx, "[BUILD_STAGE_ERROR] Build stage failed", logging.Fields{
				"stage": step.stage,
			}, err)
			return r.result, fmt.Errorf("%s stage: %w", step.stage, err)
		}
		s.logger.Debug(ctx, "[BUILD_STAGE_COMPLETE] Build stage completed", logging.Fields{
			"stage":       step.stage,
			"duration_ms": duration.Milliseconds(),
		})
		if opts.Progress != nil {
			opts.Progress(step.stage)
		}
	}

	r.result.Duration = buildTimer.ObserveDuration()

	s.logger.Info(ctx, "[BUILD_COMPLETE] Model database build completed", logging.Fields{
		"total_rows":       r.result.TotalRows(),
		"tables":           len(r.result.RowsByTable),
		"failed_instances": len(r.result.FailedInstances),
		"duration_seconds": r.result.Duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return r.result, nil
}

// run carries the state of one Run call.
type run struct {
	svc        *BuildService
	in         *Inputs
	opts       BuildOptions
	cal        *calendar.Calendar
	b          *builder.Builder
	generators []builder.Instance
	result     *BuildResult
}

func (r *run) sets(ctx context.Context) error {
	return r.write(ctx, r.b.Sets())
}

func (r *run) annualDemand(ctx context.Context) error {
	if r.in.Demand == nil {
		r.svc.logger.Info(ctx, "[BUILD_SKIP] No load forecast given", logging.Fields{"stage": StageDemand})
		return nil
	}
	rows, err := demand.Annual(r.in.Demand, r.in.Scenario, r.in.Engine)
	if err != nil {
		return err
	}
	set := builder.NewRowSet()
	for _, row := range rows {
		set.Add(row)
	}
	return r.write(ctx, set)
}

func (r *run) demandShape(ctx context.Context) error {
	if r.in.HourlyLoads == nil {
		r.svc.logger.Info(ctx, "[BUILD_SKIP] No hourly load shape given", logging.Fields{"stage": StageDemandDistribution})
		return nil
	}
	rows, err := demand.Distribution(r.in.HourlyLoads, r.in.Scenario.Geography.Regions, r.cal, r.in.Scenario.Demand.Commodity)
	if err != nil {
		return err
	}
	set := builder.NewRowSet()
	for _, row := range rows {
		set.Add(row)
	}
	return r.write(ctx, set)
}

func (r *run) generation(ctx context.Context) error {
	if r.in.Generators == nil {
		return nil
	}
	r.generators = r.b.Generation(r.in.Generators)
	return r.instances(ctx, r.generators)
}

func (r *run) storage(ctx context.Context) error {
	if r.in.Storage == nil {
		return nil
	}
	return r.instances(ctx, r.b.Storage(r.in.Storage))
}

func (r *run) imports(ctx context.Context) error {
	if r.in.Fuels == nil {
		return nil
	}
	matched, unmatched := builder.ImportCandidates(builder.EfficiencyRows(r.generators), r.in.Fuels)
	for _, key := range unmatched {
		r.svc.logger.Warn(ctx, "[BUILD_IMPORT_UNMATCHED] Generator input is not a known fuel", logging.Fields{
			"region":    key.Region,
			"commodity": key.Commodity,
		})
		r.svc.metrics.RecordSkip(models.TableTechnologies, builder.ReasonNotAFuel)
		r.result.SkipsByReason[builder.Skip{Table: models.TableTechnologies, Reason: builder.ReasonNotAFuel}]++
	}
	return r.instances(ctx, r.b.Imports(r.in.Fuels, matched))
}

func (r *run) distribution(ctx context.Context) error {
	if r.in.Distribution == nil {
		return nil
	}
	return r.instances(ctx, r.b.Distribution(r.in.Distribution))
}

// instances merges the rows of successful instances and applies the error
// policy to failed ones.
func (r *run) instances(ctx context.Context, instances []builder.Instance) error {
	set := builder.NewRowSet()
	for _, inst := range instances {
		if inst.Err != nil {
			r.svc.metrics.RecordInstanceError(string(inst.Family))
			r.svc.logger.Error(ctx, "[BUILD_INSTANCE_ERROR] Technology expansion failed", logging.Fields{
				"family": inst.Family,
				"region": inst.Region,
				"tech":   inst.Tech,
			}, inst.Err)
			if !r.opts.KeepGoing {
				return inst.Err
			}
			r.result.FailedInstances = append(r.result.FailedInstances, inst.Err.Error())
			continue
		}
		set.Merge(inst.Rows)
	}
	return r.write(ctx, set)
}

// write stores a row set table by table in batches.
func (r *run) write(ctx context.Context, set *builder.RowSet) error {
	for _, skip := range set.Skips() {
		r.svc.metrics.RecordSkip(skip.Table, skip.Reason)
		r.result.SkipsByReason[skip]++
	}

	for _, table := range set.Tables() {
		rows := set.Rows(table)
		if err := r.insert(ctx, table, rows); err != nil {
			return err
		}
		r.svc.metrics.RecordRows(table, len(rows))
		r.result.RowsByTable[table] += len(rows)

		r.svc.logger.Debug(ctx, "[BUILD_TABLE_WRITTEN] Rows written", logging.Fields{
			"table": table,
			"count": len(rows),
		})
	}
	return nil
}

func (r *run) insert(ctx context.Context, table string, rows []models.Row) error {
	if len(rows) == 1 {
		return r.svc.repo.InsertOne(ctx, rows[0])
	}
	for start := 0; start < len(rows); start += r.opts.BatchSize {
		end := start + r.opts.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.svc.repo.InsertMany(ctx, table, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// IsInstanceError reports whether err came from a failed technology instance.
func IsInstanceError(err error) bool {
	var te *builder.TechnologyError
	return errors.As(err, &te)
}
