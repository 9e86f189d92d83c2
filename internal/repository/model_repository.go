package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"energy-model-builder/internal/models"
	"energy-model-builder/pkg/database"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

// ModelRepository provides data access for the model database
type ModelRepository interface {
	// Write operations
	InsertOne(ctx context.Context, row models.Row) error
	InsertMany(ctx context.Context, table string, rows []models.Row) error

	// Inspection operations
	ListTechnologies(ctx context.Context, filter TechnologyFilter) ([]*models.Technology, error)
	ListEfficiency(ctx context.Context, filter EfficiencyFilter) ([]*models.Efficiency, error)
	ListCostVariable(ctx context.Context, filter CostFilter) ([]*models.CostVariable, error)
	ListDemandDistribution(ctx context.Context, region string) ([]*models.DemandSpecificDistribution, error)
	CountRows(ctx context.Context, table string) (int, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// TechnologyFilter defines filters for querying the technology registry
type TechnologyFilter struct {
	Sector *string
}

// EfficiencyFilter defines filters for querying efficiency rows
type EfficiencyFilter struct {
	Region *string
	Tech   *string
}

// CostFilter defines filters for querying periodic cost rows
type CostFilter struct {
	Region *string
	Tech   *string
	Period *int
}

// modelRepository implements ModelRepository over sqlx
type modelRepository struct {
	db      *database.DB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *database.DB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) ModelRepository {
	return &modelRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// InsertStatement builds a '?'-placeholder INSERT for a table's columns.
func InsertStatement(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
}

// InsertOne inserts a single row
func (r *modelRepository) InsertOne(ctx context.Context, row models.Row) error {
	query := r.db.Rebind(InsertStatement(row.Table(), row.Columns()))

	if _, err := r.db.ExecContext(ctx, "insert_"+row.Table(), query, row.Values()...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", row.Table(), err)
	}
	return nil
}

// InsertMany inserts rows of one table in a single transaction
func (r *modelRepository) InsertMany(ctx context.Context, table string, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.InsertBatchSize.Observe(float64(len(rows)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Batch insert completed", logging.Fields{
			"table":       table,
			"count":       len(rows),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	// Begin transaction
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Prepare statement
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(InsertStatement(table, rows[0].Columns())))
	if err != nil {
		return fmt.Errorf("failed to prepare statement for %s: %w", table, err)
	}
	defer stmt.Close()

	// Execute batch
	for _, row := range rows {
		if row.Table() != table {
			return fmt.Errorf("row for %s in %s batch", row.Table(), table)
		}
		if _, err := stmt.ExecContext(ctx, row.Values()...); err != nil {
			r.metrics.RecordDBError("insert_error")
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	// Commit transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTechnologies retrieves registry rows ordered by tech
func (r *modelRepository) ListTechnologies(ctx context.Context, filter TechnologyFilter) ([]*models.Technology, error) {
	query := `
		SELECT tech, flag, sector, tech_desc, tech_category, unlim_cap
		FROM technologies
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Sector != nil {
		query += " AND sector = ?"
		args = append(args, *filter.Sector)
	}
	query += " ORDER BY tech"

	var techs []*models.Technology
	if err := r.db.SelectContext(ctx, "list_technologies", &techs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list technologies: %w", err)
	}
	return techs, nil
}

// ListEfficiency retrieves efficiency rows
func (r *modelRepository) ListEfficiency(ctx context.Context, filter EfficiencyFilter) ([]*models.Efficiency, error) {
	query := `
		SELECT regions, input_comm, tech, vintage, output_comm, efficiency, eff_notes
		FROM Efficiency
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Region != nil {
		query += " AND regions = ?"
		args = append(args, *filter.Region)
	}
	if filter.Tech != nil {
		query += " AND tech = ?"
		args = append(args, *filter.Tech)
	}
	query += " ORDER BY regions, tech, vintage"

	var rows []*models.Efficiency
	if err := r.db.SelectContext(ctx, "list_efficiency", &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list efficiency: %w", err)
	}
	return rows, nil
}

// ListCostVariable retrieves variable cost rows
func (r *modelRepository) ListCostVariable(ctx context.Context, filter CostFilter) ([]*models.CostVariable, error) {
	query := `
		SELECT regions, periods, tech, vintage, cost_variable, cost_variable_units, cost_variable_notes
		FROM CostVariable
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Region != nil {
		query += " AND regions = ?"
		args = append(args, *filter.Region)
	}
	if filter.Tech != nil {
		query += " AND tech = ?"
		args = append(args, *filter.Tech)
	}
	if filter.Period != nil {
		query += " AND periods = ?"
		args = append(args, *filter.Period)
	}
	query += " ORDER BY regions, tech, vintage, periods"

	var rows []*models.CostVariable
	if err := r.db.SelectContext(ctx, "list_cost_variable", &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list variable costs: %w", err)
	}
	return rows, nil
}

// ListDemandDistribution retrieves a region's hourly demand fractions
func (r *modelRepository) ListDemandDistribution(ctx context.Context, region string) ([]*models.DemandSpecificDistribution, error) {
	query := `
		SELECT regions, season_name, time_of_day_name, demand_name, dds, dds_notes
		FROM DemandSpecificDistribution
		WHERE regions = ?
	`

	var rows []*models.DemandSpecificDistribution
	if err := r.db.SelectContext(ctx, "list_demand_distribution", &rows, r.db.Rebind(query), region); err != nil {
		return nil, fmt.Errorf("failed to list demand distribution: %w", err)
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Resource: "demand_distribution", ID: region}
	}
	return rows, nil
}

// CountRows returns the number of rows in a known output table
func (r *modelRepository) CountRows(ctx context.Context, table string) (int, error) {
	if !KnownTable(table) {
		return 0, &NotFoundError{Resource: "table", ID: table}
	}

	var n int
	if err := r.db.GetContext(ctx, "count_rows", &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// HealthCheck performs a repository health check
func (r *modelRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Tables lists every output table in load order.
var Tables = []string{
	models.TableCommodityLabels,
	models.TableSectorLabels,
	models.TableTechnologyLabels,
	models.TableTimeOfDay,
	models.TableTimeSeason,
	models.TableSegFrac,
	models.TableDemand,
	models.TableDemandSpecificDistribution,
	models.TableTechnologies,
	models.TableTechReserve,
	models.TableEfficiency,
	models.TableCostInvest,
	models.TableCostVariable,
	models.TableCostFixed,
	models.TableCapacityCredit,
	models.TableDiscountRate,
	models.TableCapacityToActivity,
	models.TableLifetimeTech,
	models.TableLifetimeLoanTech,
	models.TableStorageDuration,
	models.TableEmissionActivity,
}

// KnownTable reports whether table is an output table.
func KnownTable(table string) bool {
	for _, t := range Tables {
		if t == table {
			return true
		}
	}
	return false
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
