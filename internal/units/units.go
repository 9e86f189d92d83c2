// Package units converts scalar quantities between named units within one
// physical or monetary dimension, using pairwise factor tables loaded once per
// build run.
package units

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"energy-model-builder/internal/tabular"
)

// Dimension names a family of mutually convertible units.
type Dimension string

const (
	Activity  Dimension = "activity"
	Capacity  Dimension = "capacity"
	Emissions Dimension = "emissions"
	Currency  Dimension = "currency"
)

// None is the sentinel unit that passes through every conversion untouched.
const None = "none"

// Dimensions lists every dimension the engine loads a table for.
var Dimensions = []Dimension{Activity, Capacity, Emissions, Currency}

// ErrUnknownConversion is returned when a (from, to) pair is not listed in the
// dimension's table.
var ErrUnknownConversion = errors.New("units: unknown conversion")

// Known reports whether d is one of the table-backed dimensions.
func (d Dimension) Known() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// Table maps from-unit to to-unit to a multiplicative factor.
type Table map[string]map[string]float64

// Engine holds one conversion table per dimension. It is read-only after
// construction and safe for concurrent use.
type Engine struct {
	tables map[Dimension]Table
}

// NewEngine builds an engine from in-memory tables. Dimensions without a table
// fail every non-identity lookup.
func NewEngine(tables map[Dimension]Table) *Engine {
	e := &Engine{tables: make(map[Dimension]Table, len(tables))}
	for dim, t := range tables {
		e.tables[dim] = t
	}
	return e
}

// FileName is the conventional conversion table name for a dimension.
func FileName(dim Dimension) string {
	return "unit_conversions_" + string(dim) + ".csv"
}

// LoadEngine reads unit_conversions_<dimension>.csv for every dimension from dir.
func LoadEngine(ctx context.Context, dir string) (*Engine, error) {
	paths := make(map[Dimension]string, len(Dimensions))
	for _, dim := range Dimensions {
		paths[dim] = filepath.Join(dir, FileName(dim))
	}
	return LoadEngineFiles(ctx, paths)
}

// LoadEngineFiles reads one tabular file per dimension concurrently. The first
// column of each file is the from-unit, the header names the to-units.
func LoadEngineFiles(ctx context.Context, paths map[Dimension]string) (*Engine, error) {
	g, ctx := errgroup.WithContext(ctx)

	loaded := make([]Table, len(Dimensions))
	for i, dim := range Dimensions {
		path, ok := paths[dim]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := tabular.Load(path)
			if err != nil {
				return fmt.Errorf("%s conversions: %w", dim, err)
			}
			m, err := t.Matrix()
			if err != nil {
				return fmt.Errorf("%s conversions: %w", dim, err)
			}
			loaded[i] = Table(m)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[Dimension]Table, len(Dimensions))
	for i, dim := range Dimensions {
		if loaded[i] != nil {
			tables[dim] = loaded[i]
		}
	}
	return NewEngine(tables), nil
}

// Factor returns the multiplier taking a value in from to a value in to.
// Identical units, the None sentinel on either side, and unrecognized
// dimensions all yield 1.
func (e *Engine) Factor(dim Dimension, from, to string) (float64, error) {
	if from == to || from == None || to == None || !dim.Known() {
		return 1, nil
	}

	row, ok := e.tables[dim][from]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q -> %q", ErrUnknownConversion, dim, from, to)
	}
	factor, ok := row[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q -> %q", ErrUnknownConversion, dim, from, to)
	}
	return factor, nil
}

// Convert returns value expressed in to.
func (e *Engine) Convert(value float64, from, to string, dim Dimension) (float64, error) {
	factor, err := e.Factor(dim, from, to)
	if err != nil {
		return 0, err
	}
	return value * factor, nil
}
