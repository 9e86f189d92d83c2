package builder

import (
	"errors"
	"math"
	"testing"

	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/resolve"
	"energy-model-builder/internal/scenario"
	"energy-model-builder/internal/techspec"
	"energy-model-builder/internal/units"
)

func testScenario(regions []string, years []int) *scenario.Scenario {
	return &scenario.Scenario{
		Geography:  scenario.Geography{Regions: regions},
		Time:       scenario.Time{ModelYears: years},
		Units:      scenario.Units{Capacity: "GW", Activity: "PJ", Currency: "none", Emissions: "t"},
		Financials: scenario.Financials{Currency: "USD"},
	}
}

func testEngine() *units.Engine {
	return units.NewEngine(map[units.Dimension]units.Table{
		units.Capacity:  {"MW": {"GW": 0.001}},
		units.Activity:  {"TJ": {"PJ": 0.001}},
		units.Currency:  {"USD": {"M": 1e-6}},
		units.Emissions: {"kg": {"t": 0.001}},
	})
}

func mustDataset(t *testing.T, doc string) *techspec.Dataset {
	t.Helper()
	ds, err := techspec.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("techspec.Parse() error = %v", err)
	}
	return ds
}

func rowsOf[T models.Row](instances []Instance, table string) []T {
	var out []T
	for _, inst := range instances {
		if inst.Rows == nil {
			continue
		}
		for _, row := range inst.Rows.Rows(table) {
			out = append(out, row.(T))
		}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func onlyErrors(t *testing.T, instances []Instance) {
	t.Helper()
	for _, inst := range instances {
		if inst.Err != nil {
			t.Fatalf("%s %s in %s failed: %v", inst.Family, inst.Tech, inst.Region, inst.Err)
		}
	}
}

const generatorDoc = `
[defaults]
data_source = "ATB 2023"
capacity_unit = "GW"
activity_unit = "PJ"
cost_unit = "USD"
start_year = 2025
fixed_costs = 20
variable_costs = 2

[NaturalGas_CC]
name = "NGCC"
fuel = "natural_gas"
heatrate = [6.4, 6.4, 6.4, 6.4, 6.4, 6.3, 6.3, 6.3, 6.3, 6.3, 6.2]
capital_costs = 1100
lifetime = 5
`

func TestGeneration_EndToEnd(t *testing.T) {
	sc := testScenario([]string{"R1"}, []int{2025, 2030, 2035})
	sc.Generators.New.Regional = map[string][]string{"R1": {"NaturalGas_CC"}}

	b := New(sc, testEngine(), calendar.New())
	instances := b.Generation(mustDataset(t, generatorDoc))
	onlyErrors(t, instances)

	techs := rowsOf[models.Technology](instances, models.TableTechnologies)
	if len(techs) != 1 {
		t.Fatalf("technologies = %d, want 1", len(techs))
	}
	if techs[0].Tech != "NGCC" || techs[0].Flag != "p" || techs[0].Sector != "generation" || techs[0].Desc != "NaturalGas_CC" {
		t.Errorf("technology = %+v", techs[0])
	}
	if techs[0].UnlimCap != nil {
		t.Errorf("unlim_cap = %v, want NULL", *techs[0].UnlimCap)
	}
	if n := len(rowsOf[models.TechReserve](instances, models.TableTechReserve)); n != 1 {
		t.Errorf("tech_reserve = %d, want 1", n)
	}

	effs := rowsOf[models.Efficiency](instances, models.TableEfficiency)
	if len(effs) != 3 {
		t.Fatalf("efficiency rows = %d, want 3", len(effs))
	}
	wantHR := map[int]float64{2025: 6.4, 2030: 6.3, 2035: 6.2}
	for _, e := range effs {
		if e.InputComm != "natural_gas" || e.OutputComm != Electricity || e.Notes != "ATB 2023" {
			t.Errorf("efficiency row = %+v", e)
		}
		if e.Efficiency != wantHR[e.Vintage] {
			t.Errorf("efficiency %d = %v, want %v", e.Vintage, e.Efficiency, wantHR[e.Vintage])
		}
	}

	vars := rowsOf[models.CostVariable](instances, models.TableCostVariable)
	if len(vars) != 3 {
		t.Fatalf("cost variable rows = %d, want 3", len(vars))
	}
	for _, v := range vars {
		if v.Period != v.Vintage {
			t.Errorf("vintage %d active in period %d, want only its own year", v.Vintage, v.Period)
		}
		if v.Units != "USD/PJ" {
			t.Errorf("cost variable units = %v, want USD/PJ", v.Units)
		}
	}
	if vars[0].Vintage != 2025 || vars[0].Period != 2025 {
		t.Errorf("first cost variable row = %+v", vars[0])
	}

	lifes := rowsOf[models.LifetimeTech](instances, models.TableLifetimeTech)
	if len(lifes) != 1 || lifes[0].Life != 5 {
		t.Fatalf("lifetime rows = %+v", lifes)
	}
	if want := "The technology NGCC has a lifespan of 5 years. Source: ATB 2023"; lifes[0].Notes != want {
		t.Errorf("life notes = %q, want %q", lifes[0].Notes, want)
	}

	c2a := rowsOf[models.CapacityToActivity](instances, models.TableCapacityToActivity)
	if len(c2a) != 1 {
		t.Fatalf("c2a rows = %d, want 1", len(c2a))
	}
	if !approx(c2a[0].C2A, 1e6*8760/277.78e6) {
		t.Errorf("c2a = %v", c2a[0].C2A)
	}

	if n := len(rowsOf[models.DiscountRate](instances, models.TableDiscountRate)); n != 0 {
		t.Errorf("discount rows = %d, want 0 without wacc", n)
	}
	if n := len(rowsOf[models.LifetimeLoanTech](instances, models.TableLifetimeLoanTech)); n != 0 {
		t.Errorf("loan rows = %d, want 0 without capital_recovery_period", n)
	}
}

func TestGeneration_CostConversion(t *testing.T) {
	sc := testScenario([]string{"R1"}, []int{2025, 2030})
	sc.Units.Currency = "M"
	sc.Generators.New.Regional = map[string][]string{"global": {"Wind"}}

	doc := `
[defaults]
start_year = 2025

[Wind]
fuel = "wind"
heatrate = 1
capital_costs = 1500
fixed_costs = 40
variable_costs = 3
capacity_credit = [0.2, 0.2, 0.2, 0.2, 0.2, 0.15]
lifetime = 25
capital_recovery_period = 20
capacity_unit = "MW"
activity_unit = "TJ"
cost_unit = "USD"
`
	instances := New(sc, testEngine(), nil).Generation(mustDataset(t, doc))
	onlyErrors(t, instances)

	invest := rowsOf[models.CostInvest](instances, models.TableCostInvest)
	if len(invest) != 2 {
		t.Fatalf("invest rows = %d, want 2", len(invest))
	}
	// 1500 USD/MW is 1.5 M USD/GW.
	if !approx(invest[0].Cost, 1.5) || invest[0].Units != "M USD/GW" {
		t.Errorf("invest = %v %s, want 1.5 M USD/GW", invest[0].Cost, invest[0].Units)
	}

	fixed := rowsOf[models.CostFixed](instances, models.TableCostFixed)
	if len(fixed) != 3 {
		t.Fatalf("fixed rows = %d, want 3", len(fixed))
	}
	if !approx(fixed[0].Cost, 0.04) || fixed[0].Units != "M USD/GW-year" {
		t.Errorf("fixed = %v %s", fixed[0].Cost, fixed[0].Units)
	}

	vars := rowsOf[models.CostVariable](instances, models.TableCostVariable)
	// 3 USD/TJ is 3e-3 M USD/PJ.
	if !approx(vars[0].Cost, 3e-3) || vars[0].Units != "M USD/PJ" {
		t.Errorf("variable = %v %s", vars[0].Cost, vars[0].Units)
	}

	credits := rowsOf[models.CapacityCredit](instances, models.TableCapacityCredit)
	if len(credits) != 3 {
		t.Fatalf("capacity credit rows = %d, want 3", len(credits))
	}
	last := credits[len(credits)-1]
	if last.Vintage != 2030 || last.Period != 2030 || last.Credit != 0.15 {
		t.Errorf("last credit = %+v", last)
	}

	loans := rowsOf[models.LifetimeLoanTech](instances, models.TableLifetimeLoanTech)
	if len(loans) != 1 || loans[0].Loan != 20 || loans[0].Tech != "Wind" {
		t.Errorf("loan rows = %+v", loans)
	}
}

func TestGeneration_DiscountRate(t *testing.T) {
	sc := testScenario([]string{"R1", "R2", "R3"}, []int{2025, 2030})
	sc.Generators.New.Regional = map[string][]string{"global": {"NaturalGas_CC"}}
	sc.Generators.New.Overrides = scenario.Overrides{"R1": {"wacc": 0.08}}

	withWACC := generatorDoc + "wacc = 0.05\n"
	instances := New(sc, testEngine(), nil).Generation(mustDataset(t, withWACC))
	onlyErrors(t, instances)

	rates := map[string]float64{}
	for _, r := range rowsOf[models.DiscountRate](instances, models.TableDiscountRate) {
		rates[r.Region] = r.Rate
		if r.Tech != "NGCC" {
			t.Errorf("discount tech = %v, want NGCC", r.Tech)
		}
	}
	if rates["R1"] != 0.08 || rates["R2"] != 0.05 {
		t.Errorf("rates = %v, want R1 0.08 and R2 0.05", rates)
	}

	techs := rowsOf[models.Technology](instances, models.TableTechnologies)
	if len(techs) != 1 {
		t.Errorf("technologies = %d across three regions, want 1", len(techs))
	}

	instances = New(sc, testEngine(), nil).Generation(mustDataset(t, generatorDoc))
	onlyErrors(t, instances)
	for _, r := range rowsOf[models.DiscountRate](instances, models.TableDiscountRate) {
		if r.Region != "R1" {
			t.Errorf("discount row for %s without wacc", r.Region)
		}
	}

	skipped := 0
	for _, inst := range instances {
		for _, s := range inst.Rows.Skips() {
			if s.Table == models.TableDiscountRate && s.Reason == ReasonAbsent {
				skipped++
			}
		}
	}
	if skipped != 2 {
		t.Errorf("discount skips = %d, want 2", skipped)
	}
}

func TestGeneration_Errors(t *testing.T) {
	sc := testScenario([]string{"R1"}, []int{2025, 2040})

	tests := []struct {
		name      string
		tech      string
		doc       string
		wantField string
		wantErr   error
	}{
		{"series out of range", "NaturalGas_CC", generatorDoc, "heatrate", techspec.ErrIndexRange},
		{"missing field", "Bare", generatorDoc + "\n[Bare]\nfuel = \"x\"\n", "heatrate", resolve.ErrMissingField},
		{"unknown unit", "Odd", generatorDoc + "\n[Odd]\nfuel = \"x\"\nheatrate = 1\nlifetime = 10\ncapital_costs = 1\ncapacity_unit = \"hp\"\n", "capacity_unit", units.ErrUnknownConversion},
		{"unknown technology", "Missing", generatorDoc, "", ErrUnknownTechnology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc.Generators.New.Regional = map[string][]string{"R1": {tt.tech}}
			instances := New(sc, testEngine(), nil).Generation(mustDataset(t, tt.doc))
			if len(instances) != 1 {
				t.Fatalf("instances = %d, want 1", len(instances))
			}
			inst := instances[0]
			if inst.Rows != nil {
				t.Errorf("failed instance produced rows")
			}

			var techErr *TechnologyError
			if !errors.As(inst.Err, &techErr) {
				t.Fatalf("error = %v, want *TechnologyError", inst.Err)
			}
			if techErr.Field != tt.wantField || techErr.Region != "R1" || techErr.Family != FamilyGeneration {
				t.Errorf("error = %+v", techErr)
			}
			if !errors.Is(inst.Err, tt.wantErr) {
				t.Errorf("error = %v, want %v", inst.Err, tt.wantErr)
			}
		})
	}
}

func TestGeneration_UnknownCapacityToActivityUnits(t *testing.T) {
	sc := testScenario([]string{"R1"}, []int{2025})
	sc.Units.Activity = "MMBtu"
	sc.Generators.New.Regional = map[string][]string{"R1": {"NaturalGas_CC"}}

	ds := mustDataset(t, generatorDoc)
	entry, _ := ds.Entry("NaturalGas_CC")
	entry.Fields["activity_unit"] = techspec.Text("MMBtu")

	instances := New(sc, testEngine(), nil).Generation(ds)
	onlyErrors(t, instances)

	if n := len(rowsOf[models.CapacityToActivity](instances, models.TableCapacityToActivity)); n != 0 {
		t.Errorf("c2a rows = %d, want 0 for unknown activity unit", n)
	}
	found := false
	for _, s := range instances[0].Rows.Skips() {
		if s.Table == models.TableCapacityToActivity && s.Reason == ReasonUnknownUnit {
			found = true
		}
	}
	if !found {
		t.Error("c2a skip not recorded")
	}
}

func TestSets(t *testing.T) {
	rows := Sets(calendar.New())

	tests := map[string]int{
		models.TableCommodityLabels:  4,
		models.TableSectorLabels:     7,
		models.TableTechnologyLabels: 4,
		models.TableTimeOfDay:        24,
		models.TableTimeSeason:       365,
		models.TableSegFrac:          8760,
	}
	for table, want := range tests {
		if got := len(rows.Rows(table)); got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	seg := rows.Rows(models.TableSegFrac)[0].(models.SegFrac)
	if seg.Season != "01-01" || seg.TimeOfDay != "01" || !approx(seg.Fraction, 1.0/8760) {
		t.Errorf("first segfrac = %+v", seg)
	}
}

func TestTechnologyError(t *testing.T) {
	err := &TechnologyError{Family: FamilyStorage, Region: "R1", Tech: "Battery_2HR", Field: "variable_costs", Err: resolve.ErrMissingField}
	want := "storage technology Battery_2HR in region R1, field variable_costs: resolve: missing required field"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, resolve.ErrMissingField) {
		t.Error("errors.Is through TechnologyError failed")
	}
}
