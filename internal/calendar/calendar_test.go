package calendar

import (
	"errors"
	"testing"
)

func TestCalendar_RoundTrip(t *testing.T) {
	c := New()

	seen := make(map[Slice]bool, HoursPerYear)
	for h := 1; h <= HoursPerYear; h++ {
		s, err := c.HourToSlice(h)
		if err != nil {
			t.Fatalf("HourToSlice(%d) error = %v", h, err)
		}
		if seen[s] {
			t.Fatalf("slice %s produced twice", s)
		}
		seen[s] = true

		back, err := c.SliceToHour(s)
		if err != nil {
			t.Fatalf("SliceToHour(%s) error = %v", s, err)
		}
		if back != h {
			t.Fatalf("SliceToHour(HourToSlice(%d)) = %d", h, back)
		}
	}

	if len(seen) != HoursPerYear {
		t.Errorf("distinct slices = %d, want %d", len(seen), HoursPerYear)
	}
}

func TestCalendar_KnownSlices(t *testing.T) {
	c := New()

	tests := []struct {
		hour int
		want Slice
	}{
		{1, Slice{"01-01", "01"}},
		{24, Slice{"01-01", "24"}},
		{25, Slice{"01-02", "01"}},
		{59*24 + 1, Slice{"03-01", "01"}}, // Jan 31 + Feb 28 days precede March
		{HoursPerYear, Slice{"12-31", "24"}},
	}

	for _, tt := range tests {
		got, err := c.HourToSlice(tt.hour)
		if err != nil {
			t.Fatalf("HourToSlice(%d) error = %v", tt.hour, err)
		}
		if got != tt.want {
			t.Errorf("HourToSlice(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestCalendar_Errors(t *testing.T) {
	c := New()

	for _, h := range []int{0, -1, HoursPerYear + 1} {
		if _, err := c.HourToSlice(h); !errors.Is(err, ErrHourOutOfRange) {
			t.Errorf("HourToSlice(%d) error = %v, want ErrHourOutOfRange", h, err)
		}
	}

	for _, s := range []Slice{{"02-29", "01"}, {"04-31", "01"}, {"01-01", "25"}, {"01-01", "00"}} {
		if _, err := c.SliceToHour(s); !errors.Is(err, ErrUnknownSlice) {
			t.Errorf("SliceToHour(%s) error = %v, want ErrUnknownSlice", s, err)
		}
	}
}

func TestCalendar_Sets(t *testing.T) {
	c := New()

	if got := len(c.Seasons()); got != DaysPerYear {
		t.Errorf("len(Seasons()) = %d, want %d", got, DaysPerYear)
	}
	if got := c.TimesOfDay(); len(got) != 24 || got[0] != "01" || got[23] != "24" {
		t.Errorf("TimesOfDay() = %v", got)
	}
	if got := c.SegmentFraction(); got != 1.0/8760 {
		t.Errorf("SegmentFraction() = %v, want %v", got, 1.0/8760)
	}
}
