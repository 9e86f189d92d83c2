package models

// Output table names.
const (
	TableTechnologies               = "technologies"
	TableTechReserve                = "tech_reserve"
	TableEfficiency                 = "Efficiency"
	TableCostInvest                 = "CostInvest"
	TableCostVariable               = "CostVariable"
	TableCostFixed                  = "CostFixed"
	TableCapacityCredit             = "CapacityCredit"
	TableDiscountRate               = "DiscountRate"
	TableCapacityToActivity         = "CapacityToActivity"
	TableLifetimeTech               = "LifetimeTech"
	TableLifetimeLoanTech           = "LifetimeLoanTech"
	TableStorageDuration            = "StorageDuration"
	TableEmissionActivity           = "EmissionActivity"
	TableDemand                     = "Demand"
	TableDemandSpecificDistribution = "DemandSpecificDistribution"
	TableCommodityLabels            = "commodity_labels"
	TableSectorLabels               = "sector_labels"
	TableTechnologyLabels           = "technology_labels"
	TableTimeOfDay                  = "time_of_day"
	TableTimeSeason                 = "time_season"
	TableSegFrac                    = "SegFrac"
)

// Row is one output tuple. Columns and Values are index-aligned and in the
// table's insert order.
type Row interface {
	Table() string
	Columns() []string
	Values() []interface{}
}

// Technology is a technology registry entry. UnlimCap is NULL for
// capacity-limited technologies.
type Technology struct {
	Tech     string `json:"tech" db:"tech"`
	Flag     string `json:"flag" db:"flag"`
	Sector   string `json:"sector" db:"sector"`
	Desc     string `json:"tech_desc" db:"tech_desc"`
	Category string `json:"tech_category" db:"tech_category"`
	UnlimCap *int   `json:"unlim_cap,omitempty" db:"unlim_cap"`
}

func (Technology) Table() string { return TableTechnologies }
func (Technology) Columns() []string {
	return []string{"tech", "flag", "sector", "tech_desc", "tech_category", "unlim_cap"}
}
func (r Technology) Values() []interface{} {
	return []interface{}{r.Tech, r.Flag, r.Sector, r.Desc, r.Category, r.UnlimCap}
}

type TechReserve struct {
	Tech  string  `json:"tech" db:"tech"`
	Notes *string `json:"notes,omitempty" db:"notes"`
}

func (TechReserve) Table() string { return TableTechReserve }
func (TechReserve) Columns() []string { return []string{"tech", "notes"} }
func (r TechReserve) Values() []interface{} { return []interface{}{r.Tech, r.Notes} }

type Efficiency struct {
	Region     string  `json:"regions" db:"regions"`
	InputComm  string  `json:"input_comm" db:"input_comm"`
	Tech       string  `json:"tech" db:"tech"`
	Vintage    int     `json:"vintage" db:"vintage"`
	OutputComm string  `json:"output_comm" db:"output_comm"`
	Efficiency float64 `json:"efficiency" db:"efficiency"`
	Notes      string  `json:"eff_notes" db:"eff_notes"`
}

func (Efficiency) Table() string { return TableEfficiency }
func (Efficiency) Columns() []string {
	return []string{"regions", "input_comm", "tech", "vintage", "output_comm", "efficiency", "eff_notes"}
}
func (r Efficiency) Values() []interface{} {
	return []interface{}{r.Region, r.InputComm, r.Tech, r.Vintage, r.OutputComm, r.Efficiency, r.Notes}
}

type CostInvest struct {
	Region  string  `json:"regions" db:"regions"`
	Tech    string  `json:"tech" db:"tech"`
	Vintage int     `json:"vintage" db:"vintage"`
	Cost    float64 `json:"cost_invest" db:"cost_invest"`
	Units   string  `json:"cost_invest_units" db:"cost_invest_units"`
	Notes   string  `json:"cost_invest_notes" db:"cost_invest_notes"`
}

func (CostInvest) Table() string { return TableCostInvest }
func (CostInvest) Columns() []string {
	return []string{"regions", "tech", "vintage", "cost_invest", "cost_invest_units", "cost_invest_notes"}
}
func (r CostInvest) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.Vintage, r.Cost, r.Units, r.Notes}
}

type CostVariable struct {
	Region  string  `json:"regions" db:"regions"`
	Period  int     `json:"periods" db:"periods"`
	Tech    string  `json:"tech" db:"tech"`
	Vintage int     `json:"vintage" db:"vintage"`
	Cost    float64 `json:"cost_variable" db:"cost_variable"`
	Units   string  `json:"cost_variable_units" db:"cost_variable_units"`
	Notes   string  `json:"cost_variable_notes" db:"cost_variable_notes"`
}

func (CostVariable) Table() string { return TableCostVariable }
func (CostVariable) Columns() []string {
	return []string{"regions", "periods", "tech", "vintage", "cost_variable", "cost_variable_units", "cost_variable_notes"}
}
func (r CostVariable) Values() []interface{} {
	return []interface{}{r.Region, r.Period, r.Tech, r.Vintage, r.Cost, r.Units, r.Notes}
}

type CostFixed struct {
	Region  string  `json:"regions" db:"regions"`
	Period  int     `json:"periods" db:"periods"`
	Tech    string  `json:"tech" db:"tech"`
	Vintage int     `json:"vintage" db:"vintage"`
	Cost    float64 `json:"cost_fixed" db:"cost_fixed"`
	Units   string  `json:"cost_fixed_units" db:"cost_fixed_units"`
	Notes   string  `json:"cost_fixed_notes" db:"cost_fixed_notes"`
}

func (CostFixed) Table() string { return TableCostFixed }
func (CostFixed) Columns() []string {
	return []string{"regions", "periods", "tech", "vintage", "cost_fixed", "cost_fixed_units", "cost_fixed_notes"}
}
func (r CostFixed) Values() []interface{} {
	return []interface{}{r.Region, r.Period, r.Tech, r.Vintage, r.Cost, r.Units, r.Notes}
}

type CapacityCredit struct {
	Region  string  `json:"regions" db:"regions"`
	Period  int     `json:"periods" db:"periods"`
	Tech    string  `json:"tech" db:"tech"`
	Vintage int     `json:"vintage" db:"vintage"`
	Credit  float64 `json:"cf_tech" db:"cf_tech"`
	Notes   string  `json:"cf_tech_notes" db:"cf_tech_notes"`
}

func (CapacityCredit) Table() string { return TableCapacityCredit }
func (CapacityCredit) Columns() []string {
	return []string{"regions", "periods", "tech", "vintage", "cf_tech", "cf_tech_notes"}
}
func (r CapacityCredit) Values() []interface{} {
	return []interface{}{r.Region, r.Period, r.Tech, r.Vintage, r.Credit, r.Notes}
}

type DiscountRate struct {
	Region  string  `json:"regions" db:"regions"`
	Tech    string  `json:"tech" db:"tech"`
	Vintage int     `json:"vintage" db:"vintage"`
	Rate    float64 `json:"tech_rate" db:"tech_rate"`
	Notes   string  `json:"tech_rate_notes" db:"tech_rate_notes"`
}

func (DiscountRate) Table() string { return TableDiscountRate }
func (DiscountRate) Columns() []string {
	return []string{"regions", "tech", "vintage", "tech_rate", "tech_rate_notes"}
}
func (r DiscountRate) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.Vintage, r.Rate, r.Notes}
}

type CapacityToActivity struct {
	Region string  `json:"regions" db:"regions"`
	Tech   string  `json:"tech" db:"tech"`
	C2A    float64 `json:"c2a" db:"c2a"`
	Notes  string  `json:"c2a_notes" db:"c2a_notes"`
}

func (CapacityToActivity) Table() string { return TableCapacityToActivity }
func (CapacityToActivity) Columns() []string { return []string{"regions", "tech", "c2a", "c2a_notes"} }
func (r CapacityToActivity) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.C2A, r.Notes}
}

type LifetimeTech struct {
	Region string `json:"regions" db:"regions"`
	Tech   string `json:"tech" db:"tech"`
	Life   int    `json:"life" db:"life"`
	Notes  string `json:"life_notes" db:"life_notes"`
}

func (LifetimeTech) Table() string { return TableLifetimeTech }
func (LifetimeTech) Columns() []string { return []string{"regions", "tech", "life", "life_notes"} }
func (r LifetimeTech) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.Life, r.Notes}
}

type LifetimeLoanTech struct {
	Region string `json:"regions" db:"regions"`
	Tech   string `json:"tech" db:"tech"`
	Loan   int    `json:"loan" db:"loan"`
	Notes  string `json:"loan_notes" db:"loan_notes"`
}

func (LifetimeLoanTech) Table() string { return TableLifetimeLoanTech }
func (LifetimeLoanTech) Columns() []string { return []string{"regions", "tech", "loan", "loan_notes"} }
func (r LifetimeLoanTech) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.Loan, r.Notes}
}

type StorageDuration struct {
	Region   string `json:"regions" db:"regions"`
	Tech     string `json:"tech" db:"tech"`
	Duration int    `json:"duration" db:"duration"`
	Notes    string `json:"duration_notes" db:"duration_notes"`
}

func (StorageDuration) Table() string { return TableStorageDuration }
func (StorageDuration) Columns() []string {
	return []string{"regions", "tech", "duration", "duration_notes"}
}
func (r StorageDuration) Values() []interface{} {
	return []interface{}{r.Region, r.Tech, r.Duration, r.Notes}
}

type EmissionActivity struct {
	Region     string  `json:"regions" db:"regions"`
	EmisComm   string  `json:"emis_comm" db:"emis_comm"`
	InputComm  string  `json:"input_comm" db:"input_comm"`
	Tech       string  `json:"tech" db:"tech"`
	Vintage    int     `json:"vintage" db:"vintage"`
	OutputComm string  `json:"output_comm" db:"output_comm"`
	Activity   float64 `json:"emis_act" db:"emis_act"`
	Units      string  `json:"emis_act_units" db:"emis_act_units"`
	Notes      string  `json:"emis_act_notes" db:"emis_act_notes"`
}

func (EmissionActivity) Table() string { return TableEmissionActivity }
func (EmissionActivity) Columns() []string {
	return []string{"regions", "emis_comm", "input_comm", "tech", "vintage", "output_comm", "emis_act", "emis_act_units", "emis_act_notes"}
}
func (r EmissionActivity) Values() []interface{} {
	return []interface{}{r.Region, r.EmisComm, r.InputComm, r.Tech, r.Vintage, r.OutputComm, r.Activity, r.Units, r.Notes}
}

type Demand struct {
	Region    string  `json:"regions" db:"regions"`
	Period    int     `json:"periods" db:"periods"`
	Commodity string  `json:"demand_comm" db:"demand_comm"`
	Demand    float64 `json:"demand" db:"demand"`
	Units     string  `json:"demand_units" db:"demand_units"`
	Notes     string  `json:"demand_notes" db:"demand_notes"`
}

func (Demand) Table() string { return TableDemand }
func (Demand) Columns() []string {
	return []string{"regions", "periods", "demand_comm", "demand", "demand_units", "demand_notes"}
}
func (r Demand) Values() []interface{} {
	return []interface{}{r.Region, r.Period, r.Commodity, r.Demand, r.Units, r.Notes}
}

type DemandSpecificDistribution struct {
	Region     string  `json:"regions" db:"regions"`
	Season     string  `json:"season_name" db:"season_name"`
	TimeOfDay  string  `json:"time_of_day_name" db:"time_of_day_name"`
	DemandName string  `json:"demand_name" db:"demand_name"`
	Fraction   float64 `json:"dds" db:"dds"`
	Notes      string  `json:"dds_notes" db:"dds_notes"`
}

func (DemandSpecificDistribution) Table() string { return TableDemandSpecificDistribution }
func (DemandSpecificDistribution) Columns() []string {
	return []string{"regions", "season_name", "time_of_day_name", "demand_name", "dds", "dds_notes"}
}
func (r DemandSpecificDistribution) Values() []interface{} {
	return []interface{}{r.Region, r.Season, r.TimeOfDay, r.DemandName, r.Fraction, r.Notes}
}

type CommodityLabel struct {
	Label string `json:"comm_labels" db:"comm_labels"`
	Desc  string `json:"comm_labels_desc" db:"comm_labels_desc"`
}

func (CommodityLabel) Table() string { return TableCommodityLabels }
func (CommodityLabel) Columns() []string { return []string{"comm_labels", "comm_labels_desc"} }
func (r CommodityLabel) Values() []interface{} {
	return []interface{}{r.Label, r.Desc}
}

type SectorLabel struct {
	Sector string `json:"sector" db:"sector"`
}

func (SectorLabel) Table() string { return TableSectorLabels }
func (SectorLabel) Columns() []string { return []string{"sector"} }
func (r SectorLabel) Values() []interface{} { return []interface{}{r.Sector} }

type TechnologyLabel struct {
	Label string `json:"tech_labels" db:"tech_labels"`
	Desc  string `json:"tech_labels_desc" db:"tech_labels_desc"`
}

func (TechnologyLabel) Table() string { return TableTechnologyLabels }
func (TechnologyLabel) Columns() []string { return []string{"tech_labels", "tech_labels_desc"} }
func (r TechnologyLabel) Values() []interface{} {
	return []interface{}{r.Label, r.Desc}
}

type TimeOfDay struct {
	Label string `json:"t_day" db:"t_day"`
}

func (TimeOfDay) Table() string { return TableTimeOfDay }
func (TimeOfDay) Columns() []string { return []string{"t_day"} }
func (r TimeOfDay) Values() []interface{} { return []interface{}{r.Label} }

type TimeSeason struct {
	Label string `json:"t_season" db:"t_season"`
}

func (TimeSeason) Table() string { return TableTimeSeason }
func (TimeSeason) Columns() []string { return []string{"t_season"} }
func (r TimeSeason) Values() []interface{} { return []interface{}{r.Label} }

type SegFrac struct {
	Season    string  `json:"season_name" db:"season_name"`
	TimeOfDay string  `json:"time_of_day_name" db:"time_of_day_name"`
	Fraction  float64 `json:"segfrac" db:"segfrac"`
}

func (SegFrac) Table() string { return TableSegFrac }
func (SegFrac) Columns() []string {
	return []string{"season_name", "time_of_day_name", "segfrac"}
}
func (r SegFrac) Values() []interface{} {
	return []interface{}{r.Season, r.TimeOfDay, r.Fraction}
}
