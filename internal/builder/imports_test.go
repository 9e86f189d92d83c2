package builder

import (
	"errors"
	"reflect"
	"testing"

	"energy-model-builder/internal/models"
)

const fuelsDoc = `
[defaults]
data_source = "EIA AEO 2023"
activity_unit = "MMBtu"
cost_unit = "USD"
emissions_unit = "kg"
efficiency = 1
lifetime = 100

[natural_gas]
start_year = 2025
variable_costs = [3.0, 3.1, 3.2, 3.3, 3.4, 3.5, 3.6]
emissions = 53.06

[uranium]
name = "IMP_NUCLEAR"
output_comm = "uranium"
start_year = 2020
variable_costs = 0.7
emissions = 0

[coal]
start_year = 2040
variable_costs = [2.0]
`

func TestImportCandidates(t *testing.T) {
	effs := []models.Efficiency{
		{Region: "R1", InputComm: "natural_gas"},
		{Region: "R1", InputComm: "natural_gas"},
		{Region: "R1", InputComm: "solar"},
		{Region: "R2", InputComm: "natural_gas"},
		{Region: "R2", InputComm: "uranium"},
	}

	matched, unmatched := ImportCandidates(effs, mustDataset(t, fuelsDoc))

	wantMatched := []ImportKey{{"R1", "natural_gas"}, {"R2", "natural_gas"}, {"R2", "uranium"}}
	if !reflect.DeepEqual(matched, wantMatched) {
		t.Errorf("matched = %v, want %v", matched, wantMatched)
	}
	if !reflect.DeepEqual(unmatched, []ImportKey{{"R1", "solar"}}) {
		t.Errorf("unmatched = %v", unmatched)
	}
}

func TestImports(t *testing.T) {
	sc := testScenario([]string{"R1", "R2"}, []int{2025, 2030, 2035})
	b := New(sc, testEngine(), nil)

	instances := b.Imports(mustDataset(t, fuelsDoc), []ImportKey{
		{"R1", "natural_gas"}, {"R2", "natural_gas"}, {"R1", "uranium"},
	})
	onlyErrors(t, instances)

	techs := rowsOf[models.Technology](instances, models.TableTechnologies)
	if len(techs) != 2 {
		t.Fatalf("technologies = %d, want 2", len(techs))
	}
	gas := techs[0]
	if gas.Tech != "IMP_natural_gas" || gas.Flag != "r" || gas.Sector != "import" || gas.Desc != "technology to import natural_gas" {
		t.Errorf("gas import = %+v", gas)
	}
	if gas.UnlimCap == nil || *gas.UnlimCap != 1 {
		t.Errorf("unlim_cap = %v, want 1", gas.UnlimCap)
	}
	if techs[1].Tech != "IMP_NUCLEAR" {
		t.Errorf("uranium import = %v, want IMP_NUCLEAR", techs[1].Tech)
	}

	effs := rowsOf[models.Efficiency](instances, models.TableEfficiency)
	if len(effs) != 3 {
		t.Fatalf("efficiency rows = %d, want 3", len(effs))
	}
	if effs[0].InputComm != DefaultImportIn || effs[0].OutputComm != "natural_gas" || effs[0].Vintage != 2025 {
		t.Errorf("gas efficiency = %+v", effs[0])
	}

	// Gas prices run 2025..2031, so 2035 falls outside the fuel's years.
	var periods []int
	for _, c := range rowsOf[models.CostVariable](instances, models.TableCostVariable) {
		if c.Region == "R1" && c.Tech == "IMP_natural_gas" {
			periods = append(periods, c.Period)
			if c.Units != "USD/MMBtu" {
				t.Errorf("cost units = %v, want USD/MMBtu", c.Units)
			}
		}
	}
	if !reflect.DeepEqual(periods, []int{2025, 2030}) {
		t.Errorf("gas cost periods = %v, want [2025 2030]", periods)
	}

	emis := rowsOf[models.EmissionActivity](instances, models.TableEmissionActivity)
	if len(emis) != 2 {
		t.Fatalf("emission rows = %d, want 2 (uranium has none)", len(emis))
	}
	e := emis[0]
	if e.EmisComm != EmissionCO2 || !approx(e.Activity, 0.05306) || e.Units != "t/MMBtu" || e.OutputComm != "natural_gas" {
		t.Errorf("emission row = %+v", e)
	}

	lifes := rowsOf[models.LifetimeTech](instances, models.TableLifetimeTech)
	if len(lifes) != 3 || lifes[0].Life != 100 {
		t.Errorf("lifetime rows = %+v", lifes)
	}
}

func TestImports_NoModeledYear(t *testing.T) {
	sc := testScenario([]string{"R1"}, []int{2025, 2030})
	instances := New(sc, testEngine(), nil).Imports(mustDataset(t, fuelsDoc), []ImportKey{{"R1", "coal"}})

	if len(instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(instances))
	}
	if !errors.Is(instances[0].Err, ErrNoModeledYear) {
		t.Errorf("error = %v, want ErrNoModeledYear", instances[0].Err)
	}
}

func TestDistribution(t *testing.T) {
	sc := testScenario([]string{"R1", "R2"}, []int{2025, 2030})
	sc.Distribution.Regional = map[string][]string{"global": {"DIST"}}
	sc.Distribution.Overrides = map[string]map[string]any{"R2": {"efficiency": 0.9}}

	doc := `
[defaults]
lifetime = 50
data_source = "utility filings"

[DIST]
name = "ELC_DIST"
input_comm = "electricity"
output_comm = "demand_elec"
efficiency = 0.95
`
	instances := New(sc, testEngine(), nil).Distribution(mustDataset(t, doc))
	onlyErrors(t, instances)

	techs := rowsOf[models.Technology](instances, models.TableTechnologies)
	if len(techs) != 1 || techs[0].Desc != DistributionDesc || techs[0].Sector != "distribution" {
		t.Fatalf("technologies = %+v", techs)
	}

	eff := map[string]float64{}
	count := 0
	for _, e := range rowsOf[models.Efficiency](instances, models.TableEfficiency) {
		eff[e.Region] = e.Efficiency
		count++
		if e.OutputComm != "demand_elec" || e.Tech != "ELC_DIST" {
			t.Errorf("efficiency = %+v", e)
		}
	}
	if count != 4 || eff["R1"] != 0.95 || eff["R2"] != 0.9 {
		t.Errorf("efficiency = %v (%d rows)", eff, count)
	}

	if n := len(rowsOf[models.LifetimeTech](instances, models.TableLifetimeTech)); n != 2 {
		t.Errorf("lifetime rows = %d, want 2", n)
	}
}
