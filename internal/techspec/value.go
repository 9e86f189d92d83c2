package techspec

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrIndexRange is returned when a per-year series is indexed outside its bounds.
	ErrIndexRange = errors.New("techspec: year index out of range")
	// ErrNotNumeric is returned when a text value is read as a number.
	ErrNotNumeric = errors.New("techspec: value is not numeric")
	// ErrUnsupported is returned for document values that are neither numbers,
	// strings, nor numeric arrays.
	ErrUnsupported = errors.New("techspec: unsupported value")
)

// Kind distinguishes the shapes a specification field can take.
type Kind int

const (
	KindNumber Kind = iota
	KindSeries
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSeries:
		return "series"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a scalar, a per-year series starting at the entry's start_year, or text.
type Value struct {
	kind   Kind
	number float64
	series []float64
	text   string
}

// Number returns a scalar value.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// Series returns a per-year value.
func Series(values ...float64) Value {
	s := make([]float64, len(values))
	copy(s, values)
	return Value{kind: KindSeries, series: s}
}

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// Len is the number of years covered by a series, 1 for scalars and 0 for text.
func (v Value) Len() int {
	switch v.kind {
	case KindSeries:
		return len(v.series)
	case KindNumber:
		return 1
	default:
		return 0
	}
}

// Float returns a scalar number. A series is not a scalar.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.number, nil
	case KindSeries:
		return 0, fmt.Errorf("%w: per-year series used where a scalar is required", ErrNotNumeric)
	default:
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v.text)
	}
}

// Int returns a scalar number that must be integral.
func (v Value) Int() (int, error) {
	f, err := v.Float()
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrNotNumeric, f)
	}
	return int(f), nil
}

// At returns the value for year. A scalar applies uniformly to every year; a
// series is indexed by year - startYear.
func (v Value) At(year, startYear int) (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.number, nil
	case KindSeries:
		idx := year - startYear
		if idx < 0 || idx >= len(v.series) {
			return 0, fmt.Errorf("%w: year %d with start year %d and %d values", ErrIndexRange, year, startYear, len(v.series))
		}
		return v.series[idx], nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v.text)
	}
}

// String renders text values verbatim and numbers in their shortest form.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	default:
		return fmt.Sprint(v.series)
	}
}

// FromAny converts a decoded document value into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case Value:
		return x, nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case string:
		return Text(x), nil
	case []float64:
		return Series(x...), nil
	case []any:
		series := make([]float64, len(x))
		for i, item := range x {
			item, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			f, err := item.Float()
			if err != nil {
				return Value{}, fmt.Errorf("%w: array element %d", ErrUnsupported, i)
			}
			series[i] = f
		}
		return Series(series...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, raw)
	}
}
