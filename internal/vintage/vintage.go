// Package vintage computes the periods in which a technology vintage is active.
package vintage

import (
	"fmt"
	"sort"
)

// Grid is the ascending, duplicate-free list of modeled years.
type Grid struct {
	years []int
	index map[int]struct{}
}

// NewGrid sorts and de-duplicates years.
func NewGrid(years []int) Grid {
	sorted := make([]int, 0, len(years))
	index := make(map[int]struct{}, len(years))
	for _, y := range years {
		if _, dup := index[y]; dup {
			continue
		}
		index[y] = struct{}{}
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)
	return Grid{years: sorted, index: index}
}

// Years returns a copy of the grid.
func (g Grid) Years() []int {
	out := make([]int, len(g.years))
	copy(out, g.years)
	return out
}

// Len is the number of modeled years.
func (g Grid) Len() int {
	return len(g.years)
}

// Contains reports whether year is a modeled year.
func (g Grid) Contains(year int) bool {
	_, ok := g.index[year]
	return ok
}

// First returns the earliest modeled year.
func (g Grid) First() (int, error) {
	if len(g.years) == 0 {
		return 0, fmt.Errorf("vintage: empty year grid")
	}
	return g.years[0], nil
}

// Periods returns, in ascending order, the modeled years p with
// vintage <= p < vintage+lifetime. Years between grid points are not
// interpolated; a non-positive lifetime yields no periods.
func (g Grid) Periods(vintage, lifetime int) []int {
	if lifetime <= 0 {
		return nil
	}
	end := vintage + lifetime

	var periods []int
	for _, p := range g.years {
		if p < vintage {
			continue
		}
		if p >= end {
			break
		}
		periods = append(periods, p)
	}
	return periods
}

// Expand is Periods over an ad-hoc list of modeled years.
func Expand(vintage, lifetime int, modeledYears []int) []int {
	return NewGrid(modeledYears).Periods(vintage, lifetime)
}
