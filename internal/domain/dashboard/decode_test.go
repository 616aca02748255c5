package dashboard

import (
	"encoding/json"
	"testing"
)

// fakeRow backs the Row interface with plain maps.
type fakeRow struct {
	texts  map[string]string
	ints   map[string]int64
	floats map[string]float64
}

func (r fakeRow) Text(column string) (string, bool) {
	v, ok := r.texts[column]
	return v, ok
}

func (r fakeRow) Int(column string) (int64, bool) {
	v, ok := r.ints[column]
	return v, ok
}

func (r fakeRow) Float(column string) (float64, bool) {
	v, ok := r.floats[column]
	return v, ok
}

func TestCellValueJSON(t *testing.T) {
	tests := []struct {
		name string
		cell CellValue
		want string
	}{
		{"Null", NullCell(), "null"},
		{"Text", TextCell("north"), `"north"`},
		{"Integer", IntegerCell(42), "42"},
		{"Number", NumberCell(2.5), "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.cell)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("JSON mismatch\nwant: %s\ngot:  %s", tt.want, data)
			}

			var back CellValue
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if back != tt.cell {
				t.Errorf("round trip mismatch\nwant: %+v\ngot:  %+v", tt.cell, back)
			}
		})
	}
}

func TestCellValueUnmarshal_WholeNumberIsInteger(t *testing.T) {
	var cell CellValue
	if err := json.Unmarshal([]byte("7"), &cell); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cell.Kind != CellInteger || cell.Int != 7 {
		t.Errorf("expected integer 7, got %+v", cell)
	}
}

func TestCellValueString(t *testing.T) {
	if got := NullCell().String(); got != "" {
		t.Errorf("null renders as %q, want empty", got)
	}
	if got := NumberCell(1.50).String(); got != "1.5" {
		t.Errorf("number renders as %q, want 1.5", got)
	}
	if got := IntegerCell(-3).String(); got != "-3" {
		t.Errorf("integer renders as %q, want -3", got)
	}
}

func TestDecodeRow(t *testing.T) {
	schema := testSchema()
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date", "organization", "count"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	row := fakeRow{
		texts: map[string]string{
			"date":                 "2024-01-10",
			"organization_display": "ООО Ромашка",
			"organization":         "raw-uuid",
		},
		ints:   map[string]int64{"count": 5},
		floats: map[string]float64{"amount": 123.45},
	}

	decoded := DecodeRow(schema, config, row)

	if got := decoded.Values["date"]; got != TextCell("2024-01-10") {
		t.Errorf("date = %+v", got)
	}
	// Lookup fields prefer the joined display name over the raw key.
	if got := decoded.Values["organization"]; got != TextCell("ООО Ромашка") {
		t.Errorf("organization = %+v", got)
	}
	if got := decoded.Values["count"]; got != IntegerCell(5) {
		t.Errorf("count = %+v", got)
	}
	if got := decoded.Values["amount"]; got != NumberCell(123.45) {
		t.Errorf("amount = %+v", got)
	}
}

func TestDecodeRow_DisplayFallback(t *testing.T) {
	schema := testSchema()
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"organization"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	row := fakeRow{
		texts:  map[string]string{"organization": "raw-uuid"},
		floats: map[string]float64{"amount": 1},
	}

	decoded := DecodeRow(schema, config, row)
	if got := decoded.Values["organization"]; got != TextCell("raw-uuid") {
		t.Errorf("expected raw value fallback, got %+v", got)
	}
}

func TestDecodeRow_MissingValuesAreNull(t *testing.T) {
	schema := testSchema()
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"region"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	decoded := DecodeRow(schema, config, fakeRow{})
	if !decoded.Values["region"].IsNull() {
		t.Errorf("region = %+v, want null", decoded.Values["region"])
	}
	if !decoded.Values["amount"].IsNull() {
		t.Errorf("amount = %+v, want null", decoded.Values["amount"])
	}
}

func TestBuildColumnHeaders(t *testing.T) {
	schema := testSchema()
	config := &DashboardConfig{
		DataSource: "test_table",
		Groupings:  []string{"region"},
		SelectedFields: []SelectedField{
			sumOf("amount"),
			{FieldID: "count", Aggregate: aggPtr(AggCount)},
			{FieldID: "region"}, // no aggregate, no header
		},
	}

	columns, err := BuildColumnHeaders(schema, config)
	if err != nil {
		t.Fatalf("BuildColumnHeaders failed: %v", err)
	}

	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}
	if columns[0].Kind != ColumnGrouping || columns[0].Name != "Регион" {
		t.Errorf("unexpected grouping column: %+v", columns[0])
	}
	if columns[1].Name != "Сумма (Сумма)" {
		t.Errorf("unexpected aggregated header: %s", columns[1].Name)
	}
	if columns[2].Name != "Счётчик (Кол-во)" {
		t.Errorf("unexpected aggregated header: %s", columns[2].Name)
	}
}

func aggPtr(a AggregateFunc) *AggregateFunc {
	return &a
}
