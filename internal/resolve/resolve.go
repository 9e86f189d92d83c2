// Package resolve picks a technology field value from, in order, a regional
// configuration override, the technology's own entry, and the dataset defaults.
package resolve

import (
	"errors"
	"fmt"

	"energy-model-builder/internal/techspec"
)

// ErrMissingField is returned when a required field resolves at no level.
var ErrMissingField = errors.New("resolve: missing required field")

// Source records which level supplied a resolved value.
type Source int

const (
	SourceNone Source = iota
	SourceOverride
	SourceEntry
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceEntry:
		return "entry"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// Resolution is the outcome of resolving one field. A zero Source means the
// field is absent everywhere; callers decide whether that is a skip or an error
// through Optional and Require.
type Resolution struct {
	Field  string
	Value  techspec.Value
	Source Source
}

// Found reports whether any level supplied the field.
func (r Resolution) Found() bool {
	return r.Source != SourceNone
}

// Optional returns the value for facts whose absence means "no such fact".
func (r Resolution) Optional() (techspec.Value, bool) {
	return r.Value, r.Found()
}

// Require returns the value or ErrMissingField.
func (r Resolution) Require() (techspec.Value, error) {
	if !r.Found() {
		return techspec.Value{}, fmt.Errorf("%w: %s", ErrMissingField, r.Field)
	}
	return r.Value, nil
}

// Resolve applies the precedence override > entry > defaults.
func Resolve(field string, entry, defaults techspec.Entry, overrides map[string]techspec.Value) Resolution {
	if v, ok := overrides[field]; ok {
		return Resolution{Field: field, Value: v, Source: SourceOverride}
	}
	if v, ok := entry.Get(field); ok {
		return Resolution{Field: field, Value: v, Source: SourceEntry}
	}
	if v, ok := defaults.Get(field); ok {
		return Resolution{Field: field, Value: v, Source: SourceDefault}
	}
	return Resolution{Field: field}
}

// Resolver binds one technology entry, its dataset defaults, and the region's
// overrides so each field can be resolved by name.
type Resolver struct {
	entry     techspec.Entry
	defaults  techspec.Entry
	overrides map[string]techspec.Value
}

// New returns a Resolver. overrides may be nil.
func New(entry, defaults techspec.Entry, overrides map[string]techspec.Value) *Resolver {
	return &Resolver{entry: entry, defaults: defaults, overrides: overrides}
}

// Resolve looks up field.
func (r *Resolver) Resolve(field string) Resolution {
	return Resolve(field, r.entry, r.defaults, r.overrides)
}

// Float resolves a required scalar.
func (r *Resolver) Float(field string) (float64, error) {
	v, err := r.Resolve(field).Require()
	if err != nil {
		return 0, err
	}
	f, err := v.Float()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return f, nil
}

// Int resolves a required integral scalar.
func (r *Resolver) Int(field string) (int, error) {
	v, err := r.Resolve(field).Require()
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}

// At resolves a required scalar-or-series field for year.
func (r *Resolver) At(field string, year, startYear int) (float64, error) {
	v, err := r.Resolve(field).Require()
	if err != nil {
		return 0, err
	}
	f, err := v.At(year, startYear)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return f, nil
}

// OptionalAt resolves a scalar-or-series field that may be absent.
func (r *Resolver) OptionalAt(field string, year, startYear int) (float64, bool, error) {
	v, ok := r.Resolve(field).Optional()
	if !ok {
		return 0, false, nil
	}
	f, err := v.At(year, startYear)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", field, err)
	}
	return f, true, nil
}

// OptionalInt resolves an integral scalar that may be absent.
func (r *Resolver) OptionalInt(field string) (int, bool, error) {
	v, ok := r.Resolve(field).Optional()
	if !ok {
		return 0, false, nil
	}
	n, err := v.Int()
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", field, err)
	}
	return n, true, nil
}

// Text resolves a required string field.
func (r *Resolver) Text(field string) (string, error) {
	v, err := r.Resolve(field).Require()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// TextOr resolves a string field, returning fallback when it is absent.
func (r *Resolver) TextOr(field, fallback string) string {
	if v, ok := r.Resolve(field).Optional(); ok {
		return v.String()
	}
	return fallback
}
