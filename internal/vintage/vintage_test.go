package vintage

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		vintage  int
		lifetime int
		years    []int
		want     []int
	}{
		{
			name:     "upper bound is exclusive",
			vintage:  2025,
			lifetime: 10,
			years:    []int{2025, 2030, 2035, 2040},
			want:     []int{2025, 2030},
		},
		{
			name:     "short lifetime keeps only the vintage year",
			vintage:  2025,
			lifetime: 5,
			years:    []int{2025, 2030, 2035},
			want:     []int{2025},
		},
		{
			name:     "vintage between grid points",
			vintage:  2027,
			lifetime: 10,
			years:    []int{2025, 2030, 2035, 2040},
			want:     []int{2030, 2035},
		},
		{
			name:     "unsorted grid yields ascending output",
			vintage:  2025,
			lifetime: 30,
			years:    []int{2040, 2025, 2035, 2030, 2030},
			want:     []int{2025, 2030, 2035, 2040},
		},
		{
			name:     "zero lifetime",
			vintage:  2025,
			lifetime: 0,
			years:    []int{2025, 2030},
			want:     nil,
		},
		{
			name:     "vintage after last modeled year",
			vintage:  2050,
			lifetime: 20,
			years:    []int{2025, 2030},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.vintage, tt.lifetime, tt.years)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	g := NewGrid([]int{2035, 2025, 2030})

	if !reflect.DeepEqual(g.Years(), []int{2025, 2030, 2035}) {
		t.Errorf("Years() = %v", g.Years())
	}
	if !g.Contains(2030) || g.Contains(2031) {
		t.Error("Contains() mismatch")
	}
	first, err := g.First()
	if err != nil || first != 2025 {
		t.Errorf("First() = %v, %v", first, err)
	}
	if _, err := NewGrid(nil).First(); err == nil {
		t.Error("First() on empty grid expected error")
	}
}
