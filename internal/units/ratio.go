package units

// HoursPerYear is the operating hours assumed for a capacity-to-activity ratio.
const HoursPerYear = 8760

// powerToKW gives each recognized capacity unit in kW.
var powerToKW = map[string]float64{
	"kW": 1,
	"MW": 1e3,
	"GW": 1e6,
	"TW": 1e9,
}

// energyToKWh gives each recognized activity unit in kWh.
var energyToKWh = map[string]float64{
	"kWh": 1,
	"MWh": 1e3,
	"GWh": 1e6,
	"TWh": 1e9,
	"GJ":  277.78,
	"TJ":  277.78e3,
	"PJ":  277.78e6,
}

// CapacityToActivity returns the activity produced by one unit of capacity run
// for a full year at a 100% capacity factor. ok is false when either unit is
// not recognized.
func CapacityToActivity(capacityUnit, activityUnit string) (c2a float64, ok bool) {
	power, ok := powerToKW[capacityUnit]
	if !ok {
		return 0, false
	}
	energy, ok := energyToKWh[activityUnit]
	if !ok {
		return 0, false
	}
	return power * HoursPerYear / energy, true
}
