package builder

import (
	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
)

var commodityLabels = []models.CommodityLabel{
	{Label: "p", Desc: "physical"},
	{Label: "e", Desc: "emission"},
	{Label: "s", Desc: "source"},
	{Label: "d", Desc: "demand"},
}

var sectorLabels = []string{"storage", "generation", "imports", "transmission", "distribution", "accounting", "dummy"}

var technologyLabels = []models.TechnologyLabel{
	{Label: "r", Desc: "resource"},
	{Label: "p", Desc: "production"},
	{Label: "pb", Desc: "production (baseload)"},
	{Label: "ps", Desc: "production (storage)"},
}

// Sets returns the label and time-slice rows every model database carries,
// independent of the scenario.
func (b *Builder) Sets() *RowSet {
	return Sets(b.calendar)
}

// Sets builds the scenario-independent rows from a calendar.
func Sets(cal *calendar.Calendar) *RowSet {
	rows := NewRowSet()

	for _, l := range commodityLabels {
		rows.Add(l)
	}
	for _, s := range sectorLabels {
		rows.Add(models.SectorLabel{Sector: s})
	}
	for _, l := range technologyLabels {
		rows.Add(l)
	}
	for _, t := range cal.TimesOfDay() {
		rows.Add(models.TimeOfDay{Label: t})
	}
	for _, s := range cal.Seasons() {
		rows.Add(models.TimeSeason{Label: s})
	}

	frac := cal.SegmentFraction()
	for _, s := range cal.Slices() {
		rows.Add(models.SegFrac{Season: s.Season, TimeOfDay: s.TimeOfDay, Fraction: frac})
	}
	return rows
}
