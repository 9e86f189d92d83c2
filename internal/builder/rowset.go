package builder

import "energy-model-builder/internal/models"

// Skip records a derived fact that was deliberately not emitted.
type Skip struct {
	Table  string
	Reason string
}

// Skip reasons.
const (
	ReasonAbsent           = "absent"
	ReasonZeroVariableCost = "zero_variable_cost"
	ReasonUnknownUnit      = "unknown_unit"
	ReasonNotAFuel         = "not_a_fuel"
	ReasonOutsideFuelYears = "outside_fuel_years"
)

// RowSet groups rows by table, remembering the order tables were first seen.
type RowSet struct {
	tables []string
	rows   map[string][]models.Row
	skips  []Skip
}

// NewRowSet returns an empty RowSet.
func NewRowSet() *RowSet {
	return &RowSet{rows: make(map[string][]models.Row)}
}

// Add appends rows to their tables.
func (s *RowSet) Add(rows ...models.Row) {
	for _, row := range rows {
		table := row.Table()
		if _, ok := s.rows[table]; !ok {
			s.tables = append(s.tables, table)
		}
		s.rows[table] = append(s.rows[table], row)
	}
}

// Skip records an omitted fact.
func (s *RowSet) Skip(table, reason string) {
	s.skips = append(s.skips, Skip{Table: table, Reason: reason})
}

// Merge appends every row and skip of other.
func (s *RowSet) Merge(other *RowSet) {
	if other == nil {
		return
	}
	for _, table := range other.tables {
		s.Add(other.rows[table]...)
	}
	s.skips = append(s.skips, other.skips...)
}

// Tables lists tables in first-seen order.
func (s *RowSet) Tables() []string {
	out := make([]string, len(s.tables))
	copy(out, s.tables)
	return out
}

// Rows returns the rows of one table.
func (s *RowSet) Rows(table string) []models.Row {
	return s.rows[table]
}

// Skips returns the recorded omissions.
func (s *RowSet) Skips() []Skip {
	return s.skips
}

// Len is the total number of rows.
func (s *RowSet) Len() int {
	n := 0
	for _, rows := range s.rows {
		n += len(rows)
	}
	return n
}
