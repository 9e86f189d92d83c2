// Package calendar maps the 8,760 hours of the modeled year onto
// (season, time-of-day) slices. Days are "MM-DD" labels on a fixed 365-day
// calendar with no leap day; times of day are "01".."24".
package calendar

import (
	"errors"
	"fmt"
)

const (
	// HoursPerDay is the number of time-of-day slices in a season.
	HoursPerDay = 24
	// DaysPerYear is fixed; February always has 28 days.
	DaysPerYear = 365
	// HoursPerYear is the number of slices in the modeled year.
	HoursPerYear = DaysPerYear * HoursPerDay
)

var (
	// ErrHourOutOfRange is returned for hour indices outside 1..8760.
	ErrHourOutOfRange = errors.New("calendar: hour out of range")
	// ErrUnknownSlice is returned for a (season, time-of-day) pair not on the calendar.
	ErrUnknownSlice = errors.New("calendar: unknown slice")
)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Slice is one hourly bucket of the modeled year.
type Slice struct {
	Season    string `json:"season" db:"season_name"`
	TimeOfDay string `json:"time_of_day" db:"time_of_day_name"`
}

func (s Slice) String() string {
	return s.Season + "/" + s.TimeOfDay
}

// Calendar is an immutable bijection between hour index and Slice.
// Build one per run with New and share it read-only.
type Calendar struct {
	slices  []Slice
	hours   map[Slice]int
	seasons []string
	times   []string
}

// New enumerates days in month/day order, hours 1..24 within each day, and
// numbers the result 1..8760.
func New() *Calendar {
	c := &Calendar{
		slices:  make([]Slice, 0, HoursPerYear),
		hours:   make(map[Slice]int, HoursPerYear),
		seasons: make([]string, 0, DaysPerYear),
		times:   make([]string, 0, HoursPerDay),
	}

	for hour := 1; hour <= HoursPerDay; hour++ {
		c.times = append(c.times, fmt.Sprintf("%02d", hour))
	}

	for month := 1; month <= 12; month++ {
		for day := 1; day <= daysInMonth[month-1]; day++ {
			season := fmt.Sprintf("%02d-%02d", month, day)
			c.seasons = append(c.seasons, season)
			for _, tod := range c.times {
				s := Slice{Season: season, TimeOfDay: tod}
				c.slices = append(c.slices, s)
				c.hours[s] = len(c.slices)
			}
		}
	}

	return c
}

// HourToSlice returns the slice for hour h in 1..8760.
func (c *Calendar) HourToSlice(h int) (Slice, error) {
	if h < 1 || h > len(c.slices) {
		return Slice{}, fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
	}
	return c.slices[h-1], nil
}

// SliceToHour is the inverse of HourToSlice.
func (c *Calendar) SliceToHour(s Slice) (int, error) {
	h, ok := c.hours[s]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSlice, s)
	}
	return h, nil
}

// Slices returns all slices in hour order. The returned slice is a copy.
func (c *Calendar) Slices() []Slice {
	out := make([]Slice, len(c.slices))
	copy(out, c.slices)
	return out
}

// Seasons returns the 365 day labels in calendar order.
func (c *Calendar) Seasons() []string {
	out := make([]string, len(c.seasons))
	copy(out, c.seasons)
	return out
}

// TimesOfDay returns "01".."24".
func (c *Calendar) TimesOfDay() []string {
	out := make([]string, len(c.times))
	copy(out, c.times)
	return out
}

// SegmentFraction is the share of the year carried by each slice.
func (c *Calendar) SegmentFraction() float64 {
	return 1 / float64(len(c.slices))
}
