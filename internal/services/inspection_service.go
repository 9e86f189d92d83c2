package services

import (
	"context"
	"fmt"
	"sort"

	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/repository"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

// HourlyFraction is one demand distribution fraction placed on the hour axis.
type HourlyFraction struct {
	Hour      int     `json:"hour"`
	Season    string  `json:"season"`
	TimeOfDay string  `json:"time_of_day"`
	Demand    string  `json:"demand"`
	Fraction  float64 `json:"fraction"`
}

// InspectionService answers read-only queries over a built model database
type InspectionService struct {
	repo     repository.ModelRepository
	calendar *calendar.Calendar
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewInspectionService creates a new inspection service
func NewInspectionService(repo repository.ModelRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *InspectionService {
	return &InspectionService{
		repo:     repo,
		calendar: calendar.New(),
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// Technologies retrieves registry rows, optionally for one sector
func (s *InspectionService) Technologies(ctx context.Context, filter repository.TechnologyFilter) ([]*models.Technology, error) {
	return s.repo.ListTechnologies(ctx, filter)
}

// Efficiency retrieves efficiency rows
func (s *InspectionService) Efficiency(ctx context.Context, filter repository.EfficiencyFilter) ([]*models.Efficiency, error) {
	return s.repo.ListEfficiency(ctx, filter)
}

// VariableCosts retrieves variable cost rows
func (s *InspectionService) VariableCosts(ctx context.Context, filter repository.CostFilter) ([]*models.CostVariable, error) {
	return s.repo.ListCostVariable(ctx, filter)
}

// DemandDistribution returns a region's fractions ordered by hour of year.
func (s *InspectionService) DemandDistribution(ctx context.Context, region string) ([]HourlyFraction, error) {
	rows, err := s.repo.ListDemandDistribution(ctx, region)
	if err != nil {
		return nil, err
	}

	out := make([]HourlyFraction, 0, len(rows))
	for _, row := range rows {
		hour, err := s.calendar.SliceToHour(calendar.Slice{Season: row.Season, TimeOfDay: row.TimeOfDay})
		if err != nil {
			return nil, fmt.Errorf("demand distribution for %s: %w", region, err)
		}
		out = append(out, HourlyFraction{
			Hour:      hour,
			Season:    row.Season,
			TimeOfDay: row.TimeOfDay,
			Demand:    row.DemandName,
			Fraction:  row.Fraction,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// TableCounts returns the row count of every output table.
func (s *InspectionService) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(repository.Tables))
	for _, table := range repository.Tables {
		n, err := s.repo.CountRows(ctx, table)
		if err != nil {
			s.logger.Error(ctx, "[INSPECT_COUNT_ERROR] Failed to count table rows", logging.Fields{
				"table": table,
			}, err)
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// HealthCheck checks the underlying store
func (s *InspectionService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
