// Package demand turns load tables into annual demand rows and hourly
// demand-specific distribution rows.
package demand

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/scenario"
	"energy-model-builder/internal/tabular"
	"energy-model-builder/internal/units"
)

// YearColumn is the header of the period column in load forecast tables.
const YearColumn = "Year"

var (
	// ErrRowCount is returned when an hourly load table is not 8760 rows long.
	ErrRowCount = errors.New("demand: hourly table must have one row per hour")
	// ErrZeroColumn is returned when a region's hourly loads sum to zero.
	ErrZeroColumn = errors.New("demand: hourly loads sum to zero")
)

// Annual returns one Demand row per modeled year and configured region, in
// table row order then scenario region order. Values are converted from the
// scenario's demand unit to its activity unit. Regions without a column and
// years outside the grid are skipped.
func Annual(table *tabular.Table, sc *scenario.Scenario, engine *units.Engine) ([]models.Demand, error) {
	years, err := table.IntColumn(YearColumn)
	if err != nil {
		return nil, fmt.Errorf("load forecasts: %w", err)
	}

	grid := sc.Grid()
	var rows []models.Demand

	for i, year := range years {
		if !grid.Contains(year) {
			continue
		}
		for _, region := range sc.Geography.Regions {
			col, ok := table.ColumnIndex(region)
			if !ok {
				continue
			}
			raw, err := table.Float(i, col)
			if err != nil {
				return nil, fmt.Errorf("load forecasts: %w", err)
			}
			value, err := engine.Convert(raw, sc.Demand.Unit, sc.Units.Activity, units.Activity)
			if err != nil {
				return nil, fmt.Errorf("load forecasts %s %d: %w", region, year, err)
			}
			rows = append(rows, models.Demand{
				Region:    region,
				Period:    year,
				Commodity: sc.Demand.Commodity,
				Demand:    value,
				Units:     sc.Units.Activity,
			})
		}
	}
	return rows, nil
}

// LoadMatrix extracts the hourly columns of the given regions as an
// hours x regions matrix. Regions with no column are left out; the returned
// slice names the matrix columns in order.
func LoadMatrix(table *tabular.Table, regions []string) (*mat.Dense, []string, error) {
	if len(table.Rows) != calendar.HoursPerYear {
		return nil, nil, fmt.Errorf("%w: got %d rows, want %d", ErrRowCount, len(table.Rows), calendar.HoursPerYear)
	}

	var present []string
	var data [][]float64
	for _, region := range regions {
		if !table.HasColumn(region) {
			continue
		}
		col, err := table.FloatColumn(region)
		if err != nil {
			return nil, nil, fmt.Errorf("hourly loads: %w", err)
		}
		present = append(present, region)
		data = append(data, col)
	}
	if len(present) == 0 {
		return nil, nil, nil
	}

	m := mat.NewDense(calendar.HoursPerYear, len(present), nil)
	for j, col := range data {
		m.SetCol(j, col)
	}
	return m, present, nil
}

// NormalizeColumns scales every column of m in place so it sums to 1.
func NormalizeColumns(m *mat.Dense, names []string) error {
	rows, cols := m.Dims()
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		sum := floats.Sum(col)
		if sum == 0 {
			name := fmt.Sprint(j)
			if j < len(names) {
				name = names[j]
			}
			return fmt.Errorf("%w: %s", ErrZeroColumn, name)
		}
		floats.Scale(1/sum, col)
		m.SetCol(j, col)
	}
	return nil
}

// Distribution normalizes each region's hourly loads and returns one row per
// hour and region, hours outer.
func Distribution(table *tabular.Table, regions []string, cal *calendar.Calendar, commodity string) ([]models.DemandSpecificDistribution, error) {
	m, present, err := LoadMatrix(table, regions)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	if err := NormalizeColumns(m, present); err != nil {
		return nil, err
	}

	rows := make([]models.DemandSpecificDistribution, 0, calendar.HoursPerYear*len(present))
	for hour := 1; hour <= calendar.HoursPerYear; hour++ {
		slice, err := cal.HourToSlice(hour)
		if err != nil {
			return nil, err
		}
		for j, region := range present {
			rows = append(rows, models.DemandSpecificDistribution{
				Region:     region,
				Season:     slice.Season,
				TimeOfDay:  slice.TimeOfDay,
				DemandName: commodity,
				Fraction:   m.At(hour-1, j),
			})
		}
	}
	return rows, nil
}
