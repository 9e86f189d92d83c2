// Package scenario describes one database build: regions, modeled years,
// target units, and which technologies apply where.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/vintage"
)

// GlobalKey marks applicability lists that hold for every region.
const GlobalKey = "global"

// Defaults applied to optional scenario settings.
const (
	DefaultDemandCommodity = "demand_elec"
	DefaultDemandUnit      = "MWh"
	DefaultEmissionsUnit   = "t"
)

// ErrInvalid wraps every scenario validation failure.
var ErrInvalid = errors.New("scenario: invalid configuration")

type General struct {
	FileName string `toml:"file_name"`
}

type Geography struct {
	Regions []string `toml:"regions"`
}

type Time struct {
	ModelYears []int `toml:"model_years"`
}

// Units are the target units every derived row is expressed in.
type Units struct {
	Capacity  string `toml:"capacity"`
	Activity  string `toml:"activity"`
	Currency  string `toml:"currency"`
	Emissions string `toml:"emissions"`
}

type Financials struct {
	Currency string `toml:"currency"`
}

// Overrides maps region to field name to a raw override value.
type Overrides map[string]map[string]any

// For returns the region's overrides as specification values. A region without
// overrides yields an empty map.
func (o Overrides) For(region string) (map[string]techspec.Value, error) {
	raw := o[region]
	out := make(map[string]techspec.Value, len(raw))
	for field, v := range raw {
		value, err := techspec.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("override %s.%s: %w", region, field, err)
		}
		out[field] = value
	}
	return out, nil
}

type GeneratorSet struct {
	Regional  map[string][]string `toml:"Regional"`
	Overrides Overrides           `toml:"Overrides"`
}

type Generators struct {
	New GeneratorSet `toml:"New"`
}

// StorageSet maps region to resource name to its list of durations in hours.
type StorageSet struct {
	Regional  map[string]map[string][]int `toml:"Regional"`
	Overrides Overrides                   `toml:"Overrides"`
}

type Storage struct {
	New StorageSet `toml:"New"`
}

type Distribution struct {
	Regional  map[string][]string `toml:"Regional"`
	Overrides Overrides           `toml:"Overrides"`
}

type Demand struct {
	Commodity string `toml:"commodity"`
	Unit      string `toml:"unit"`
}

// Scenario is the parsed scenario configuration document.
type Scenario struct {
	General      General      `toml:"General"`
	Geography    Geography    `toml:"Geography"`
	Time         Time         `toml:"Time"`
	Units        Units        `toml:"Units"`
	Financials   Financials   `toml:"Financials"`
	Generators   Generators   `toml:"Generators"`
	Storage      Storage      `toml:"Storage"`
	Distribution Distribution `toml:"Distribution"`
	Demand       Demand       `toml:"Demand"`
}

// StorageResource is one storage resource applicable in a region.
type StorageResource struct {
	Name      string
	Durations []int
}

// Load reads and validates a TOML scenario document.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Demand.Commodity == "" {
		s.Demand.Commodity = DefaultDemandCommodity
	}
	if s.Demand.Unit == "" {
		s.Demand.Unit = DefaultDemandUnit
	}
	if s.Units.Emissions == "" {
		s.Units.Emissions = DefaultEmissionsUnit
	}
}

// Validate checks the settings every build depends on.
func (s *Scenario) Validate() error {
	if len(s.Geography.Regions) == 0 {
		return fmt.Errorf("%w: Geography.regions is empty", ErrInvalid)
	}
	if len(s.Time.ModelYears) == 0 {
		return fmt.Errorf("%w: Time.model_years is empty", ErrInvalid)
	}
	if s.Units.Capacity == "" || s.Units.Activity == "" || s.Units.Currency == "" {
		return fmt.Errorf("%w: Units.capacity, Units.activity and Units.currency are required", ErrInvalid)
	}
	if s.Financials.Currency == "" {
		return fmt.Errorf("%w: Financials.currency is required", ErrInvalid)
	}

	for _, o := range []Overrides{s.Generators.New.Overrides, s.Storage.New.Overrides, s.Distribution.Overrides} {
		for region := range o {
			if _, err := o.For(region); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalid, err)
			}
		}
	}

	for region, resources := range s.Storage.New.Regional {
		for name, durations := range resources {
			for _, d := range durations {
				if d <= 0 {
					return fmt.Errorf("%w: storage %s in %s has duration %d", ErrInvalid, name, region, d)
				}
			}
		}
	}
	return nil
}

// Grid returns the modeled years as a sorted period grid.
func (s *Scenario) Grid() vintage.Grid {
	return vintage.NewGrid(s.Time.ModelYears)
}

// ApplicableGenerators lists the region's generators followed by the global
// ones, without repeats.
func (s *Scenario) ApplicableGenerators(region string) []string {
	return unionLists(s.Generators.New.Regional, region)
}

// ApplicableDistribution lists distribution technologies for the region.
func (s *Scenario) ApplicableDistribution(region string) []string {
	return unionLists(s.Distribution.Regional, region)
}

// ApplicableStorage merges global and regional storage resources. A resource
// listed in both takes the region's durations. Resources are sorted by name.
func (s *Scenario) ApplicableStorage(region string) []StorageResource {
	merged := make(map[string][]int)
	if region != GlobalKey {
		for name, durations := range s.Storage.New.Regional[GlobalKey] {
			merged[name] = durations
		}
	}
	for name, durations := range s.Storage.New.Regional[region] {
		merged[name] = durations
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]StorageResource, 0, len(names))
	for _, name := range names {
		out = append(out, StorageResource{Name: name, Durations: merged[name]})
	}
	return out
}

// CostUnit builds the composite unit for a cost expressed per denominator,
// such as "M USD/GW". The scale token is omitted when Units.currency is "none".
func (s *Scenario) CostUnit(denominator string) string {
	if s.Units.Currency == "none" {
		return s.Financials.Currency + "/" + denominator
	}
	return s.Units.Currency + " " + s.Financials.Currency + "/" + denominator
}

func unionLists(lists map[string][]string, region string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(names []string) {
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}

	add(lists[region])
	if region != GlobalKey {
		add(lists[GlobalKey])
	}
	return out
}
