package builder

import (
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
)

// Generation expands every new generator applicable to each scenario region.
// Instances are ordered by region, then by the region's applicability list.
func (b *Builder) Generation(ds *techspec.Dataset) []Instance {
	reg := registry{}
	var out []Instance

	for _, region := range b.scenario.Geography.Regions {
		for _, key := range b.scenario.ApplicableGenerators(region) {
			inst := Instance{Family: FamilyGeneration, Region: region, Tech: key}

			x, err := b.newExpansion(FamilyGeneration, region, key, ds, b.scenario.Generators.New.Overrides)
			if err != nil {
				inst.Err = err
				out = append(out, inst)
				continue
			}
			inst.Tech = x.tech

			if err := x.generation(); err != nil {
				inst.Err = err
				out = append(out, inst)
				continue
			}

			inst.Rows = reg.admit(x.tech, []models.Row{
				models.Technology{Tech: x.tech, Flag: "p", Sector: string(FamilyGeneration), Desc: key},
				models.TechReserve{Tech: x.tech},
			}, x.rows)
			out = append(out, inst)
		}
	}
	return out
}

func (x *expansion) generation() error {
	sc := x.b.scenario
	years := x.b.grid.Years()
	notes := x.r.TextOr("data_source", "")

	fuel, err := x.text("fuel")
	if err != nil {
		return err
	}
	for _, year := range years {
		heatrate, err := x.at("heatrate", year)
		if err != nil {
			return err
		}
		x.rows.Add(models.Efficiency{
			Region:     x.region,
			InputComm:  fuel,
			Tech:       x.tech,
			Vintage:    year,
			OutputComm: Electricity,
			Efficiency: heatrate,
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
		invest, err := x.at("capital_costs", v)
		if err != nil {
			return err
		}
		x.rows.Add(models.CostInvest{Region: x.region, Tech: x.tech, Vintage: v, Cost: invest * capScalar, Units: investUnit, Notes: notes})
	}

	for _, v := range years {
		variable, err := x.at("variable_costs", v)
		if err != nil {
			return err
		}
		for _, p := range x.b.grid.Periods(v, lifetime) {
			x.rows.Add(models.CostVariable{Region: x.region, Period: p, Tech: x.tech, Vintage: v, Cost: variable * actScalar, Units: variableUnit, Notes: notes})
		}
	}

	for _, v := range years {
		fixed, err := x.at("fixed_costs", v)
		if err != nil {
			return err
		}
		for _, p := range x.b.grid.Periods(v, lifetime) {
			x.rows.Add(models.CostFixed{Region: x.region, Period: p, Tech: x.tech, Vintage: v, Cost: fixed * capScalar, Units: fixedUnit, Notes: notes})
		}
	}

	if err := x.capacityCredits(lifetime, notes); err != nil {
		return err
	}
	if err := x.discountRates(notes); err != nil {
		return err
	}
	x.capacityToActivity()

	x.rows.Add(models.LifetimeTech{Region: x.region, Tech: x.tech, Life: lifetime, Notes: lifetimeNote(x.tech, lifetime, notes)})
	return x.loanLifetime(notes)
}
