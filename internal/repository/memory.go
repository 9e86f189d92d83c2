package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"energy-model-builder/internal/models"
)

// MemoryRepository keeps rows in process memory. Dry runs and tests use it
// in place of a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	tables map[string][]models.Row
}

// NewMemoryRepository returns an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tables: make(map[string][]models.Row)}
}

func (m *MemoryRepository) InsertOne(ctx context.Context, row models.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[row.Table()] = append(m.tables[row.Table()], row)
	return nil
}

func (m *MemoryRepository) InsertMany(ctx context.Context, table string, rows []models.Row) error {
	for _, row := range rows {
		if row.Table() != table {
			return fmt.Errorf("row for %s in %s batch", row.Table(), table)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
	return nil
}

// Rows returns a copy of one table's rows in insertion order.
func (m *MemoryRepository) Rows(table string) []models.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Row, len(m.tables[table]))
	copy(out, m.tables[table])
	return out
}

func (m *MemoryRepository) ListTechnologies(ctx context.Context, filter TechnologyFilter) ([]*models.Technology, error) {
	var out []*models.Technology
	for _, row := range m.Rows(models.TableTechnologies) {
		t := row.(models.Technology)
		if filter.Sector != nil && t.Sector != *filter.Sector {
			continue
		}
		out = append(out, &t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tech < out[j].Tech })
	return out, nil
}

func (m *MemoryRepository) ListEfficiency(ctx context.Context, filter EfficiencyFilter) ([]*models.Efficiency, error) {
	var out []*models.Efficiency
	for _, row := range m.Rows(models.TableEfficiency) {
		e := row.(models.Efficiency)
		if filter.Region != nil && e.Region != *filter.Region {
			continue
		}
		if filter.Tech != nil && e.Tech != *filter.Tech {
			continue
		}
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Tech != b.Tech {
			return a.Tech < b.Tech
		}
		return a.Vintage < b.Vintage
	})
	return out, nil
}

func (m *MemoryRepository) ListCostVariable(ctx context.Context, filter CostFilter) ([]*models.CostVariable, error) {
	var out []*models.CostVariable
	for _, row := range m.Rows(models.TableCostVariable) {
		c := row.(models.CostVariable)
		if filter.Region != nil && c.Region != *filter.Region {
			continue
		}
		if filter.Tech != nil && c.Tech != *filter.Tech {
			continue
		}
		if filter.Period != nil && c.Period != *filter.Period {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Tech != b.Tech {
			return a.Tech < b.Tech
		}
		if a.Vintage != b.Vintage {
			return a.Vintage < b.Vintage
		}
		return a.Period < b.Period
	})
	return out, nil
}

func (m *MemoryRepository) ListDemandDistribution(ctx context.Context, region string) ([]*models.DemandSpecificDistribution, error) {
	var out []*models.DemandSpecificDistribution
	for _, row := range m.Rows(models.TableDemandSpecificDistribution) {
		d := row.(models.DemandSpecificDistribution)
		if d.Region == region {
			out = append(out, &d)
		}
	}
	if len(out) == 0 {
		return nil, &NotFoundError{Resource: "demand_distribution", ID: region}
	}
	return out, nil
}

func (m *MemoryRepository) CountRows(ctx context.Context, table string) (int, error) {
	if !KnownTable(table) {
		return 0, &NotFoundError{Resource: "table", ID: table}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table]), nil
}

func (m *MemoryRepository) HealthCheck(ctx context.Context) error {
	return nil
}
