package dashboard

import (
	"testing"
)

func rawRow(values map[string]CellValue) RawRow {
	return RawRow{Values: values}
}

func TestTreeBuilder_FlatWithoutGroupings(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"amount": NumberCell(10)}),
		rawRow(map[string]CellValue{"amount": NumberCell(20)}),
	}

	tree := NewTreeBuilder(nil, []Measure{{FieldID: "amount", Aggregate: AggSum}})
	result := tree.Build(rows)

	if len(result) != 2 {
		t.Fatalf("expected 2 flat rows, got %d", len(result))
	}
	for _, row := range result {
		if row.IsTotal {
			t.Error("flat rows must not be totals")
		}
		if row.Level != 0 {
			t.Errorf("flat row level = %d, want 0", row.Level)
		}
	}
}

func TestTreeBuilder_EmptyInput(t *testing.T) {
	tree := NewTreeBuilder([]string{"region"}, nil)
	result := tree.Build(nil)

	if result == nil {
		t.Fatal("Build must return an empty slice, not nil")
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %d rows", len(result))
	}
}

func TestTreeBuilder_SingleLevel(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": TextCell("south"), "amount": NumberCell(30)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "amount": NumberCell(10)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "amount": NumberCell(20)}),
	}

	tree := NewTreeBuilder([]string{"region"}, []Measure{{FieldID: "amount", Aggregate: AggSum}})
	result := tree.Build(rows)

	if len(result) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result))
	}

	// Groups sort by key.
	north, south := result[0], result[1]
	if north.Values["region"].String() != "north" || south.Values["region"].String() != "south" {
		t.Fatalf("groups out of order: %s, %s",
			north.Values["region"].String(), south.Values["region"].String())
	}

	if !north.IsTotal {
		t.Error("group node must be a total row")
	}
	if v, _ := north.Values["amount"].Float64(); v != 30 {
		t.Errorf("north subtotal = %v, want 30", v)
	}
	if v, _ := south.Values["amount"].Float64(); v != 30 {
		t.Errorf("south subtotal = %v, want 30", v)
	}
}

func TestTreeBuilder_TwoLevels(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": TextCell("north"), "city": TextCell("a"), "amount": NumberCell(10)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "city": TextCell("b"), "amount": NumberCell(20)}),
		rawRow(map[string]CellValue{"region": TextCell("south"), "city": TextCell("c"), "amount": NumberCell(5)}),
	}

	tree := NewTreeBuilder([]string{"region", "city"}, []Measure{{FieldID: "amount", Aggregate: AggSum}})
	result := tree.Build(rows)

	if len(result) != 2 {
		t.Fatalf("expected 2 top-level groups, got %d", len(result))
	}

	north := result[0]
	if len(north.Children) != 2 {
		t.Fatalf("expected 2 city groups under north, got %d", len(north.Children))
	}
	if north.Children[0].Level != 1 {
		t.Errorf("child level = %d, want 1", north.Children[0].Level)
	}
	if v, _ := north.Values["amount"].Float64(); v != 30 {
		t.Errorf("north subtotal = %v, want 30", v)
	}
	if v, _ := north.Children[0].Values["amount"].Float64(); v != 10 {
		t.Errorf("city subtotal = %v, want 10", v)
	}
}

func TestTreeBuilder_NonAdditiveSubtotalIsNull(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": TextCell("north"), "avg_amount": NumberCell(10)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "avg_amount": NumberCell(30)}),
	}

	tree := NewTreeBuilder([]string{"region"}, []Measure{{FieldID: "avg_amount", Aggregate: AggAvg}})
	result := tree.Build(rows)

	if len(result) != 1 {
		t.Fatalf("expected 1 group, got %d", len(result))
	}
	if !result[0].Values["avg_amount"].IsNull() {
		t.Errorf("avg subtotal must be null, got %v", result[0].Values["avg_amount"])
	}
}

func TestTreeBuilder_SingletonGroupKeepsNonAdditiveValue(t *testing.T) {
	// GROUP BY yields one row per key at the deepest level; the averages
	// computed by the database must survive onto the group nodes.
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": TextCell("north"), "avg_amount": NumberCell(12.5)}),
		rawRow(map[string]CellValue{"region": TextCell("south"), "avg_amount": NumberCell(7.25)}),
	}

	tree := NewTreeBuilder([]string{"region"}, []Measure{{FieldID: "avg_amount", Aggregate: AggAvg}})
	result := tree.Build(rows)

	if len(result) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result))
	}
	if v, ok := result[0].Values["avg_amount"].Float64(); !ok || v != 12.5 {
		t.Errorf("north avg = %v, %v, want 12.5", v, ok)
	}
	if v, ok := result[1].Values["avg_amount"].Float64(); !ok || v != 7.25 {
		t.Errorf("south avg = %v, %v, want 7.25", v, ok)
	}
}

func TestTreeBuilder_SingletonInnerGroupKeepsNonAdditiveValue(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": TextCell("north"), "city": TextCell("a"), "min_amount": NumberCell(3)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "city": TextCell("b"), "min_amount": NumberCell(8)}),
	}

	tree := NewTreeBuilder([]string{"region", "city"}, []Measure{{FieldID: "min_amount", Aggregate: AggMin}})
	result := tree.Build(rows)

	north := result[0]
	// Two rows under north: the region roll-up stays null, the singleton
	// city groups keep their values.
	if !north.Values["min_amount"].IsNull() {
		t.Errorf("region min roll-up must be null, got %v", north.Values["min_amount"])
	}
	if len(north.Children) != 2 {
		t.Fatalf("expected 2 city groups, got %d", len(north.Children))
	}
	if v, _ := north.Children[0].Values["min_amount"].Float64(); v != 3 {
		t.Errorf("city a min = %v, want 3", v)
	}
	if v, _ := north.Children[1].Values["min_amount"].Float64(); v != 8 {
		t.Errorf("city b min = %v, want 8", v)
	}
}

func TestGrandTotals_SingleRowKeepsNonAdditiveValue(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"avg": NumberCell(4.5)}),
	}

	tree := NewTreeBuilder(nil, []Measure{{FieldID: "avg", Aggregate: AggAvg}})
	totals := tree.GrandTotals(rows)

	if v, ok := totals["avg"].Float64(); !ok || v != 4.5 {
		t.Errorf("avg total = %v, %v, want 4.5", v, ok)
	}
}

func TestTreeBuilder_NullGroupingValue(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"region": NullCell(), "amount": NumberCell(1)}),
		rawRow(map[string]CellValue{"region": TextCell("north"), "amount": NumberCell(2)}),
	}

	tree := NewTreeBuilder([]string{"region"}, []Measure{{FieldID: "amount", Aggregate: AggSum}})
	result := tree.Build(rows)

	// Null renders as "" and sorts first.
	if len(result) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result))
	}
	if !result[0].Values["region"].IsNull() {
		t.Errorf("first group should be the null key, got %v", result[0].Values["region"])
	}
}

func TestGrandTotals(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"amount": NumberCell(10), "cnt": NumberCell(2), "avg": NumberCell(5)}),
		rawRow(map[string]CellValue{"amount": NumberCell(15), "cnt": NumberCell(3), "avg": NumberCell(7)}),
	}

	tree := NewTreeBuilder(nil, []Measure{
		{FieldID: "amount", Aggregate: AggSum},
		{FieldID: "cnt", Aggregate: AggCount},
		{FieldID: "avg", Aggregate: AggAvg},
	})
	totals := tree.GrandTotals(rows)

	if v, _ := totals["amount"].Float64(); v != 25 {
		t.Errorf("amount total = %v, want 25", v)
	}
	if v, _ := totals["cnt"].Float64(); v != 5 {
		t.Errorf("cnt total = %v, want 5", v)
	}
	if !totals["avg"].IsNull() {
		t.Errorf("avg total must be null, got %v", totals["avg"])
	}
}

func TestGrandTotals_AllNullValues(t *testing.T) {
	rows := []RawRow{
		rawRow(map[string]CellValue{"amount": NullCell()}),
	}

	tree := NewTreeBuilder(nil, []Measure{{FieldID: "amount", Aggregate: AggSum}})
	totals := tree.GrandTotals(rows)

	if !totals["amount"].IsNull() {
		t.Errorf("total over null cells must be null, got %v", totals["amount"])
	}
}
