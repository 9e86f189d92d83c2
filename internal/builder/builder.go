// Package builder expands sparse technology specifications into the
// region x vintage x period rows of the model database. Each technology
// family supplies its naming, applicability, and cost rules; override
// resolution, unit conversion, and vintage windowing are shared.
package builder

import (
	"fmt"
	"strconv"

	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/resolve"
	"energy-model-builder/internal/scenario"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
	"energy-model-builder/internal/vintage"
)

// Family is a technology family.
type Family string

const (
	FamilyGeneration   Family = "generation"
	FamilyStorage      Family = "storage"
	FamilyImport       Family = "import"
	FamilyDistribution Family = "distribution"
)

// Commodity and label constants used in emitted rows.
const (
	Electricity      = "electricity"
	EmissionCO2      = "co2"
	DefaultImportIn  = "ethos"
	ImportPrefix     = "IMP_"
	DistributionDesc = "intra-regional transmission and distribution"
)

// Instance is one expanded technology instance. When Err is set the instance
// produced no rows.
type Instance struct {
	Family Family
	Region string
	Tech   string
	Rows   *RowSet
	Err    error
}

// Builder holds the read-only inputs shared by every expansion of a run.
type Builder struct {
	scenario *scenario.Scenario
	engine   *units.Engine
	calendar *calendar.Calendar
	grid     vintage.Grid
}

// New returns a Builder for one scenario.
func New(sc *scenario.Scenario, engine *units.Engine, cal *calendar.Calendar) *Builder {
	if cal == nil {
		cal = calendar.New()
	}
	return &Builder{
		scenario: sc,
		engine:   engine,
		calendar: cal,
		grid:     sc.Grid(),
	}
}

// Grid returns the modeled years.
func (b *Builder) Grid() vintage.Grid {
	return b.grid
}

// expansion carries the state of one technology instance.
type expansion struct {
	b        *Builder
	family   Family
	region   string
	tech     string
	r        *resolve.Resolver
	start    int
	hasStart bool
	rows     *RowSet
}

func (b *Builder) newExpansion(family Family, region, key string, ds *techspec.Dataset, overrides scenario.Overrides) (*expansion, error) {
	x := &expansion{b: b, family: family, region: region, tech: key, rows: NewRowSet()}

	entry, ok := ds.Entry(key)
	if !ok {
		return nil, x.fail("", fmt.Errorf("%w: %q", ErrUnknownTechnology, key))
	}

	ov, err := overrides.For(region)
	if err != nil {
		return nil, x.fail("overrides", err)
	}
	x.r = resolve.New(entry, ds.Defaults, ov)
	x.tech = x.r.TextOr("name", key)

	start, ok, err := x.r.OptionalInt("start_year")
	if err != nil {
		return nil, x.fail("start_year", err)
	}
	x.start, x.hasStart = start, ok
	return x, nil
}

func (x *expansion) fail(field string, err error) error {
	return &TechnologyError{Family: x.family, Region: x.region, Tech: x.tech, Field: field, Err: err}
}

func (x *expansion) text(field string) (string, error) {
	s, err := x.r.Text(field)
	if err != nil {
		return "", x.fail(field, err)
	}
	return s, nil
}

func (x *expansion) integer(field string) (int, error) {
	n, err := x.r.Int(field)
	if err != nil {
		return 0, x.fail(field, err)
	}
	return n, nil
}

func (x *expansion) value(field string, year int, v techspec.Value) (float64, error) {
	if v.Kind() == techspec.KindSeries && !x.hasStart {
		return 0, x.fail(field, fmt.Errorf("%w: start_year is needed to index a per-year series", resolve.ErrMissingField))
	}
	f, err := v.At(year, x.start)
	if err != nil {
		return 0, x.fail(field, err)
	}
	return f, nil
}

// at resolves a required scalar-or-series field for year.
func (x *expansion) at(field string, year int) (float64, error) {
	v, err := x.r.Resolve(field).Require()
	if err != nil {
		return 0, x.fail(field, err)
	}
	return x.value(field, year, v)
}

// optionalAt resolves a field whose absence means the fact does not exist.
func (x *expansion) optionalAt(field string, year int) (float64, bool, error) {
	v, ok := x.r.Resolve(field).Optional()
	if !ok {
		return 0, false, nil
	}
	f, err := x.value(field, year, v)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// costScalar converts a cost given in costUnit per givenUnit into the
// scenario currency per targetUnit.
func (x *expansion) costScalar(givenField string, target string, dim units.Dimension) (float64, error) {
	costUnit, err := x.text("cost_unit")
	if err != nil {
		return 0, err
	}
	given, err := x.text(givenField)
	if err != nil {
		return 0, err
	}

	num, err := x.b.engine.Convert(1, costUnit, x.b.scenario.Units.Currency, units.Currency)
	if err != nil {
		return 0, x.fail("cost_unit", err)
	}
	den, err := x.b.engine.Convert(1, given, target, dim)
	if err != nil {
		return 0, x.fail(givenField, err)
	}
	if den == 0 {
		return 0, x.fail(givenField, fmt.Errorf("%w: %s -> %s", ErrZeroConversion, given, target))
	}
	return num / den, nil
}

// discountRates emits one DiscountRate row per vintage when wacc resolves.
func (x *expansion) discountRates(notes string) error {
	for _, v := range x.b.grid.Years() {
		wacc, ok, err := x.optionalAt("wacc", v)
		if err != nil {
			return err
		}
		if !ok {
			x.rows.Skip(models.TableDiscountRate, ReasonAbsent)
			return nil
		}
		x.rows.Add(models.DiscountRate{Region: x.region, Tech: x.tech, Vintage: v, Rate: wacc, Notes: notes})
	}
	return nil
}

// capacityCredits emits CapacityCredit rows per vintage and active period.
func (x *expansion) capacityCredits(lifetime int, notes string) error {
	for _, v := range x.b.grid.Years() {
		credit, ok, err := x.optionalAt("capacity_credit", v)
		if err != nil {
			return err
		}
		if !ok {
			x.rows.Skip(models.TableCapacityCredit, ReasonAbsent)
			return nil
		}
		for _, p := range x.b.grid.Periods(v, lifetime) {
			x.rows.Add(models.CapacityCredit{Region: x.region, Period: p, Tech: x.tech, Vintage: v, Credit: credit, Notes: notes})
		}
	}
	return nil
}

// capacityToActivity emits the c2a row for the scenario's unit pair.
func (x *expansion) capacityToActivity() {
	capUnit := x.b.scenario.Units.Capacity
	actUnit := x.b.scenario.Units.Activity

	c2a, ok := units.CapacityToActivity(capUnit, actUnit)
	if !ok {
		x.rows.Skip(models.TableCapacityToActivity, ReasonUnknownUnit)
		return
	}
	x.rows.Add(models.CapacityToActivity{
		Region: x.region,
		Tech:   x.tech,
		C2A:    c2a,
		Notes:  fmt.Sprintf("1 %s operated with a 100%% capacity factor generates %s %s", capUnit, formatFloat(c2a), actUnit),
	})
}

// loanLifetime emits LifetimeLoanTech when capital_recovery_period resolves.
func (x *expansion) loanLifetime(notes string) error {
	loan, ok, err := x.r.OptionalInt("capital_recovery_period")
	if err != nil {
		return x.fail("capital_recovery_period", err)
	}
	if !ok {
		x.rows.Skip(models.TableLifetimeLoanTech, ReasonAbsent)
		return nil
	}
	x.rows.Add(models.LifetimeLoanTech{Region: x.region, Tech: x.tech, Loan: loan, Notes: notes})
	return nil
}

func lifetimeNote(tech string, life int, source string) string {
	return fmt.Sprintf("The technology %s has a lifespan of %d years. Source: %s", tech, life, source)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// registry keeps the first registry row emitted for each technology name.
type registry map[string]bool

// admit prepends the registry rows to rows the first time tech succeeds.
func (reg registry) admit(tech string, entries []models.Row, rows *RowSet) *RowSet {
	if reg[tech] {
		return rows
	}
	reg[tech] = true
	out := NewRowSet()
	out.Add(entries...)
	out.Merge(rows)
	return out
}

func intPtr(n int) *int {
	return &n
}

// EfficiencyRows collects the Efficiency rows of successful instances.
func EfficiencyRows(instances []Instance) []models.Efficiency {
	var out []models.Efficiency
	for _, inst := range instances {
		if inst.Err != nil || inst.Rows == nil {
			continue
		}
		for _, row := range inst.Rows.Rows(models.TableEfficiency) {
			if eff, ok := row.(models.Efficiency); ok {
				out = append(out, eff)
			}
		}
	}
	return out
}
