package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTechnology is returned when a scenario names a technology the
	// specification dataset does not define.
	ErrUnknownTechnology = errors.New("builder: technology not in dataset")
	// ErrNoModeledYear is returned when a fuel's valid years miss every modeled year.
	ErrNoModeledYear = errors.New("builder: no modeled year in valid range")
	// ErrZeroConversion is returned when a unit conversion denominator is zero.
	ErrZeroConversion = errors.New("builder: zero conversion factor")
)

// TechnologyError names the technology instance and field whose expansion failed.
type TechnologyError struct {
	Family Family
	Region string
	Tech   string
	Field  string
	Err    error
}

func (e *TechnologyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s technology %s in region %s: %v", e.Family, e.Tech, e.Region, e.Err)
	}
	return fmt.Sprintf("%s technology %s in region %s, field %s: %v", e.Family, e.Tech, e.Region, e.Field, e.Err)
}

func (e *TechnologyError) Unwrap() error {
	return e.Err
}
