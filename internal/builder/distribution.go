package builder

import (
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/techspec"
)

// Distribution expands intra-regional transmission and distribution
// technologies applicable to each scenario region.
func (b *Builder) Distribution(ds *techspec.Dataset) []Instance {
	reg := registry{}
	var out []Instance

	for _, region := range b.scenario.Geography.Regions {
		for _, key := range b.scenario.ApplicableDistribution(region) {
			inst := Instance{Family: FamilyDistribution, Region: region, Tech: key}

			x, err := b.newExpansion(FamilyDistribution, region, key, ds, b.scenario.Distribution.Overrides)
			if err != nil {
				inst.Err = err
				out = append(out, inst)
				continue
			}
			inst.Tech = x.tech

			if err := x.distribution(); err != nil {
				inst.Err = err
				out = append(out, inst)
				continue
			}

			inst.Rows = reg.admit(x.tech, []models.Row{
				models.Technology{
					Tech:     x.tech,
					Flag:     "p",
					Sector:   string(FamilyDistribution),
					Desc:     DistributionDesc,
					UnlimCap: intPtr(1),
				},
			}, x.rows)
			out = append(out, inst)
		}
	}
	return out
}

func (x *expansion) distribution() error {
	notes := x.r.TextOr("data_source", "")

	input, err := x.text("input_comm")
	if err != nil {
		return err
	}
	output, err := x.text("output_comm")
	if err != nil {
		return err
	}
	lifetime, err := x.integer("lifetime")
	if err != nil {
		return err
	}

	for _, v := range x.b.grid.Years() {
		eff, err := x.at("efficiency", v)
		if err != nil {
			return err
		}
		x.rows.Add(models.Efficiency{Region: x.region, InputComm: input, Tech: x.tech, Vintage: v, OutputComm: output, Efficiency: eff, Notes: notes})
	}

	x.rows.Add(models.LifetimeTech{Region: x.region, Tech: x.tech, Life: lifetime, Notes: lifetimeNote(x.tech, lifetime, notes)})
	return nil
}
