package dashboard

import "sort"

// PivotRow is a node of the hierarchical report. Group nodes carry the
// grouping value plus subtotals and IsTotal=true; leaf nodes carry the
// original flat row.
type PivotRow struct {
	Level    int                  `json:"level"`
	Values   map[string]CellValue `json:"values"`
	IsTotal  bool                 `json:"isTotal"`
	Children []PivotRow           `json:"children"`
}

// Measure is an aggregated output column of the report.
type Measure struct {
	FieldID   string
	Aggregate AggregateFunc
}

// Measures extracts the aggregated columns of a configuration, in order.
func Measures(config *DashboardConfig) []Measure {
	var measures []Measure
	for _, selected := range config.SelectedFields {
		if selected.Aggregate != nil {
			measures = append(measures, Measure{
				FieldID:   selected.FieldID,
				Aggregate: *selected.Aggregate,
			})
		}
	}
	return measures
}

// TreeBuilder reassembles flat aggregated rows into a pivot tree, one
// level per grouping column.
type TreeBuilder struct {
	groupingColumns []string
	measures        []Measure
}

func NewTreeBuilder(groupingColumns []string, measures []Measure) *TreeBuilder {
	return &TreeBuilder{groupingColumns: groupingColumns, measures: measures}
}

// Build groups rows level by level. Group keys sort lexicographically;
// without groupings the rows pass through flat.
func (t *TreeBuilder) Build(rows []RawRow) []PivotRow {
	if len(rows) == 0 {
		return []PivotRow{}
	}

	if len(t.groupingColumns) == 0 {
		result := make([]PivotRow, 0, len(rows))
		for _, row := range rows {
			result = append(result, PivotRow{
				Level:    0,
				Values:   row.Values,
				IsTotal:  false,
				Children: []PivotRow{},
			})
		}
		return result
	}

	return t.buildLevel(rows, 0)
}

func (t *TreeBuilder) buildLevel(rows []RawRow, level int) []PivotRow {
	if level >= len(t.groupingColumns) {
		result := make([]PivotRow, 0, len(rows))
		for _, row := range rows {
			result = append(result, PivotRow{
				Level:    level,
				Values:   row.Values,
				IsTotal:  false,
				Children: []PivotRow{},
			})
		}
		return result
	}

	groupingCol := t.groupingColumns[level]

	groups := make(map[string][]RawRow)
	for _, row := range rows {
		key := row.Values[groupingCol].String()
		groups[key] = append(groups[key], row)
	}

	groupKeys := make([]string, 0, len(groups))
	for key := range groups {
		groupKeys = append(groupKeys, key)
	}
	sort.Strings(groupKeys)

	result := make([]PivotRow, 0, len(groupKeys))
	for _, key := range groupKeys {
		groupRows := groups[key]

		groupValues := map[string]CellValue{
			groupingCol: groupRows[0].Values[groupingCol],
		}
		for _, measure := range t.measures {
			groupValues[measure.FieldID] = t.subtotal(groupRows, measure)
		}

		children := []PivotRow{}
		if level+1 < len(t.groupingColumns) {
			children = t.buildLevel(groupRows, level+1)
		}

		result = append(result, PivotRow{
			Level:    level,
			Values:   groupValues,
			IsTotal:  true,
			Children: children,
		})
	}

	return result
}

// subtotal rolls up a measure over a group. A singleton group carries its
// row's value verbatim: the deepest grouping level always holds one
// database row per key, and that group node is the only place the value
// can surface. Across multiple rows only additive aggregates may be
// re-summed; an Avg/Min/Max roll-up would be wrong, so those stay empty.
func (t *TreeBuilder) subtotal(rows []RawRow, measure Measure) CellValue {
	if len(rows) == 1 {
		if v, ok := rows[0].Values[measure.FieldID]; ok {
			return v
		}
		return NullCell()
	}
	if !measure.Aggregate.Additive() {
		return NullCell()
	}

	sum := 0.0
	count := 0
	for _, row := range rows {
		if v, ok := row.Values[measure.FieldID].Float64(); ok {
			sum += v
			count++
		}
	}

	if count == 0 {
		return NullCell()
	}
	return NumberCell(sum)
}

// GrandTotals rolls every measure up over the whole result set.
func (t *TreeBuilder) GrandTotals(rows []RawRow) map[string]CellValue {
	totals := make(map[string]CellValue, len(t.measures))
	for _, measure := range t.measures {
		totals[measure.FieldID] = t.subtotal(rows, measure)
	}
	return totals
}
