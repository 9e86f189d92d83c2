package builder

import (
	"fmt"
	"math"

	"energy-model-builder/internal/models"
	"energy-model-builder/internal/resolve"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
)

// ImportKey is a (region, commodity) pair consumed by a generator.
type ImportKey struct {
	Region    string
	Commodity string
}

// ImportCandidates scans generator efficiency rows for the commodities each
// region consumes. Pairs whose commodity is a fuel in the dataset are matched;
// the rest are returned as unmatched. Both lists keep first-seen order.
func ImportCandidates(efficiency []models.Efficiency, fuels *techspec.Dataset) (matched, unmatched []ImportKey) {
	seen := make(map[ImportKey]bool)
	for _, eff := range efficiency {
		key := ImportKey{Region: eff.Region, Commodity: eff.InputComm}
		if seen[key] {
			continue
		}
		seen[key] = true
		if fuels.Has(key.Commodity) {
			matched = append(matched, key)
		} else {
			unmatched = append(unmatched, key)
		}
	}
	return matched, unmatched
}

// Imports synthesizes one import technology per matched (region, fuel) pair.
func (b *Builder) Imports(fuels *techspec.Dataset, candidates []ImportKey) []Instance {
	reg := registry{}
	out := make([]Instance, 0, len(candidates))

	for _, key := range candidates {
		inst := Instance{Family: FamilyImport, Region: key.Region, Tech: ImportPrefix + key.Commodity}

		x, err := b.newExpansion(FamilyImport, key.Region, key.Commodity, fuels, nil)
		if err != nil {
			inst.Err = err
			out = append(out, inst)
			continue
		}
		if !x.r.Resolve("name").Found() {
			x.tech = ImportPrefix + key.Commodity
		}
		inst.Tech = x.tech

		output, err := x.importFuel(key.Commodity)
		if err != nil {
			inst.Err = err
			out = append(out, inst)
			continue
		}

		inst.Rows = reg.admit(x.tech, []models.Row{
			models.Technology{
				Tech:     x.tech,
				Flag:     "r",
				Sector:   string(FamilyImport),
				Desc:     "technology to import " + output,
				UnlimCap: intPtr(1),
			},
		}, x.rows)
		out = append(out, inst)
	}
	return out
}

// importFuel emits the rows of one import technology and returns its output
// commodity.
func (x *expansion) importFuel(fuel string) (string, error) {
	sc := x.b.scenario
	notes := x.r.TextOr("data_source", "")
	output := x.r.TextOr("output_comm", fuel)
	input := x.r.TextOr("input_comm", DefaultImportIn)

	if !x.hasStart {
		return "", x.fail("start_year", resolve.ErrMissingField)
	}
	lifetime, err := x.integer("lifetime")
	if err != nil {
		return "", err
	}

	costs, err := x.r.Resolve("variable_costs").Require()
	if err != nil {
		return "", x.fail("variable_costs", err)
	}
	last, err := x.lastFuelYear(costs)
	if err != nil {
		return "", err
	}

	vintage := 0
	found := false
	for _, y := range x.b.grid.Years() {
		if y >= x.start && y <= last {
			vintage, found = y, true
			break
		}
	}
	if !found {
		return "", x.fail("start_year", fmt.Errorf("%w: fuel years %d..%d", ErrNoModeledYear, x.start, last))
	}

	eff, err := x.at("efficiency", vintage)
	if err != nil {
		return "", err
	}
	x.rows.Add(models.Efficiency{Region: x.region, InputComm: input, Tech: x.tech, Vintage: vintage, OutputComm: output, Efficiency: eff})

	activityUnit, err := x.text("activity_unit")
	if err != nil {
		return "", err
	}
	costUnit, err := x.text("cost_unit")
	if err != nil {
		return "", err
	}
	scalar, err := x.b.engine.Convert(1, costUnit, sc.Units.Currency, units.Currency)
	if err != nil {
		return "", x.fail("cost_unit", err)
	}
	costUnits := sc.CostUnit(activityUnit)

	for _, p := range x.b.grid.Periods(vintage, lifetime) {
		if p > last {
			x.rows.Skip(models.TableCostVariable, ReasonOutsideFuelYears)
			continue
		}
		cost, err := x.value("variable_costs", p, costs)
		if err != nil {
			return "", err
		}
		x.rows.Add(models.CostVariable{Region: x.region, Period: p, Tech: x.tech, Vintage: vintage, Cost: cost * scalar, Units: costUnits, Notes: notes})
	}

	emissions, ok, err := x.optionalAt("emissions", vintage)
	if err != nil {
		return "", err
	}
	if ok && emissions > 0 {
		emUnit, err := x.text("emissions_unit")
		if err != nil {
			return "", err
		}
		converted, err := x.b.engine.Convert(emissions, emUnit, sc.Units.Emissions, units.Emissions)
		if err != nil {
			return "", x.fail("emissions_unit", err)
		}
		x.rows.Add(models.EmissionActivity{
			Region:     x.region,
			EmisComm:   EmissionCO2,
			InputComm:  input,
			Tech:       x.tech,
			Vintage:    vintage,
			OutputComm: output,
			Activity:   converted,
			Units:      sc.Units.Emissions + "/" + activityUnit,
			Notes:      notes,
		})
	} else {
		x.rows.Skip(models.TableEmissionActivity, ReasonAbsent)
	}

	x.rows.Add(models.LifetimeTech{Region: x.region, Tech: x.tech, Life: lifetime, Notes: lifetimeNote(x.tech, lifetime, notes)})
	return output, nil
}

// lastFuelYear is the final year a fuel has cost data for: the end of its
// cost series, capped by end_year when given.
func (x *expansion) lastFuelYear(costs techspec.Value) (int, error) {
	last := math.MaxInt
	if costs.Kind() == techspec.KindSeries {
		last = x.start + costs.Len() - 1
	}
	end, ok, err := x.r.OptionalInt("end_year")
	if err != nil {
		return 0, x.fail("end_year", err)
	}
	if ok && end < last {
		last = end
	}
	return last, nil
}
