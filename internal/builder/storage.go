package builder

import (
	"fmt"

	"energy-model-builder/internal/models"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
)

// StorageName mangles a storage resource name with its duration in hours.
func StorageName(name string, duration int) string {
	return fmt.Sprintf("%s_%dHR", name, duration)
}

// Storage expands every storage resource and duration applicable to each
// scenario region.
func (b *Builder) Storage(ds *techspec.Dataset) []Instance {
	reg := registry{}
	var out []Instance

	for _, region := range b.scenario.Geography.Regions {
		for _, res := range b.scenario.ApplicableStorage(region) {
			for _, duration := range res.Durations {
				inst := Instance{Family: FamilyStorage, Region: region, Tech: StorageName(res.Name, duration)}

				x, err := b.newExpansion(FamilyStorage, region, res.Name, ds, b.scenario.Storage.New.Overrides)
				if err != nil {
					inst.Err = err
					out = append(out, inst)
					continue
				}
				x.tech = StorageName(x.tech, duration)
				inst.Tech = x.tech

				if err := x.storage(duration); err != nil {
					inst.Err = err
					out = append(out, inst)
					continue
				}

				inst.Rows = reg.admit(x.tech, []models.Row{
					models.Technology{Tech: x.tech, Flag: "ps", Sector: string(FamilyStorage), Desc: res.Name},
					models.TechReserve{Tech: x.tech},
				}, x.rows)
				out = append(out, inst)
			}
		}
	}
	return out
}

func (x *expansion) storage(duration int) error {
	sc := x.b.scenario
	years := x.b.grid.Years()
	notes := x.r.TextOr("data_source", "")

	for _, year := range years {
		eff, err := x.at("roundtrip_efficiency", year)
		if err != nil {
			return err
		}
		x.rows.Add(models.Efficiency{
			Region:     x.region,
			InputComm:  Electricity,
			Tech:       x.tech,
			Vintage:    year,
			OutputComm: Electricity,
			Efficiency: eff,
			Notes:      notes,
		})
	}

	lifetime, err := x.integer("lifetime")
	if err != nil {
		return err
	}

	capScalar, err := x.costScalar("capacity_unit", sc.Units.Capacity, units.Capacity)
	if err != nil {
		return err
	}
	actScalar, err := x.costScalar("activity_unit", sc.Units.Activity, units.Activity)
	if err != nil {
		return err
	}
	investUnit := sc.CostUnit(sc.Units.Capacity)
	fixedUnit := sc.CostUnit(sc.Units.Capacity + "-year")
	variableUnit := sc.CostUnit(sc.Units.Activity)

	for _, v := range years {
		capCost, err := x.at("capital_costs_capacity", v)
		if err != nil {
			return err
		}
		energyCost, err := x.at("capital_costs_energy", v)
		if err != nil {
			return err
		}
		fixedPercent, err := x.at("fixed_costs_percent", v)
		if err != nil {
			return err
		}

		invest := capCost + energyCost*float64(duration)
		fixed := invest * fixedPercent

		x.rows.Add(models.CostInvest{Region: x.region, Tech: x.tech, Vintage: v, Cost: invest * capScalar, Units: investUnit, Notes: notes})
		for _, p := range x.b.grid.Periods(v, lifetime) {
			x.rows.Add(models.CostFixed{Region: x.region, Period: p, Tech: x.tech, Vintage: v, Cost: fixed * capScalar, Units: fixedUnit, Notes: notes})
		}
	}

	for _, v := range years {
		variable, err := x.at("variable_costs", v)
		if err != nil {
			return err
		}
		// A zero variable cost means the storage unit has none; no rows.
		if variable == 0 {
			x.rows.Skip(models.TableCostVariable, ReasonZeroVariableCost)
			continue
		}
		for _, p := range x.b.grid.Periods(v, lifetime) {
			x.rows.Add(models.CostVariable{Region: x.region, Period: p, Tech: x.tech, Vintage: v, Cost: variable * actScalar, Units: variableUnit, Notes: notes})
		}
	}

	if err := x.capacityCredits(lifetime, notes); err != nil {
		return err
	}
	if err := x.discountRates(notes); err != nil {
		return err
	}
	x.capacityToActivity()

	x.rows.Add(models.LifetimeTech{Region: x.region, Tech: x.tech, Life: lifetime, Notes: notes})
	if err := x.loanLifetime(notes); err != nil {
		return err
	}
	x.rows.Add(models.StorageDuration{Region: x.region, Tech: x.tech, Duration: duration})
	return nil
}
