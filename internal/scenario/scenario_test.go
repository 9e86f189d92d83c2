package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleScenario = `
[General]
file_name = "lite.sqlite"

[Geography]
regions = ["R1", "R2"]

[Time]
model_years = [2035, 2025, 2030]

[Units]
capacity = "GW"
activity = "PJ"
currency = "M"

[Financials]
currency = "USD"

[Generators.New.Regional]
R1 = ["NaturalGas_CC", "Solar"]
global = ["Solar", "Wind"]

[Generators.New.Overrides.R1]
wacc = 0.08

[Storage.New.Regional.R1]
Battery = [2, 4]

[Storage.New.Regional.global]
Battery = [8]
PumpedHydro = [10]

[Distribution.Regional]
global = ["DIST_ELC"]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.General.FileName != "lite.sqlite" {
		t.Errorf("FileName = %v, want lite.sqlite", s.General.FileName)
	}
	if !reflect.DeepEqual(s.Grid().Years(), []int{2025, 2030, 2035}) {
		t.Errorf("Grid() = %v", s.Grid().Years())
	}
	if s.Demand.Commodity != DefaultDemandCommodity || s.Demand.Unit != DefaultDemandUnit {
		t.Errorf("Demand defaults = %+v", s.Demand)
	}
	if s.Units.Emissions != DefaultEmissionsUnit {
		t.Errorf("Units.Emissions = %v, want %v", s.Units.Emissions, DefaultEmissionsUnit)
	}

	overrides, err := s.Generators.New.Overrides.For("R1")
	if err != nil {
		t.Fatalf("Overrides.For() error = %v", err)
	}
	if got, _ := overrides["wacc"].Float(); got != 0.08 {
		t.Errorf("R1 wacc override = %v, want 0.08", got)
	}
	none, err := s.Generators.New.Overrides.For("R2")
	if err != nil || len(none) != 0 {
		t.Errorf("R2 overrides = %v (%v), want empty", none, err)
	}
}

func TestApplicability(t *testing.T) {
	s, err := Parse([]byte(sampleScenario))
	if err != nil {
		t.Fatal(err)
	}

	if got := s.ApplicableGenerators("R1"); !reflect.DeepEqual(got, []string{"NaturalGas_CC", "Solar", "Wind"}) {
		t.Errorf("ApplicableGenerators(R1) = %v", got)
	}
	if got := s.ApplicableGenerators("R2"); !reflect.DeepEqual(got, []string{"Solar", "Wind"}) {
		t.Errorf("ApplicableGenerators(R2) = %v", got)
	}

	want := []StorageResource{
		{Name: "Battery", Durations: []int{2, 4}},
		{Name: "PumpedHydro", Durations: []int{10}},
	}
	if got := s.ApplicableStorage("R1"); !reflect.DeepEqual(got, want) {
		t.Errorf("ApplicableStorage(R1) = %+v, want %+v", got, want)
	}
	if got := s.ApplicableStorage("R2"); len(got) != 2 || got[0].Durations[0] != 8 {
		t.Errorf("ApplicableStorage(R2) = %+v", got)
	}

	if got := s.ApplicableDistribution("R2"); !reflect.DeepEqual(got, []string{"DIST_ELC"}) {
		t.Errorf("ApplicableDistribution(R2) = %v", got)
	}
}

func TestCostUnit(t *testing.T) {
	s := &Scenario{Units: Units{Currency: "M"}, Financials: Financials{Currency: "USD"}}
	if got := s.CostUnit("GW-year"); got != "M USD/GW-year" {
		t.Errorf("CostUnit() = %v, want %v", got, "M USD/GW-year")
	}

	s.Units.Currency = "none"
	if got := s.CostUnit("PJ"); got != "USD/PJ" {
		t.Errorf("CostUnit() = %v, want %v", got, "USD/PJ")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no regions", "[Time]\nmodel_years=[2025]\n[Units]\ncapacity='GW'\nactivity='PJ'\ncurrency='none'\n[Financials]\ncurrency='USD'\n"},
		{"no years", "[Geography]\nregions=['R1']\n[Units]\ncapacity='GW'\nactivity='PJ'\ncurrency='none'\n[Financials]\ncurrency='USD'\n"},
		{"no units", "[Geography]\nregions=['R1']\n[Time]\nmodel_years=[2025]\n[Financials]\ncurrency='USD'\n"},
		{"bad duration", sampleScenario + "\n[Storage.New.Regional.R2]\nBattery = [0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lite.toml")
	if err := os.WriteFile(path, []byte(sampleScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}
