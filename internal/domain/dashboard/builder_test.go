package dashboard

import (
	"strings"
	"testing"
	"time"

	"marketops/internal/core/apperror"
)

func testSchema() *DataSourceSchema {
	return &DataSourceSchema{
		ID:   "test_table",
		Name: "Test",
		Fields: []FieldDef{
			{ID: "date", Name: "Дата", Type: FieldDate, CanGroup: true, DBColumn: "date"},
			{ID: "region", Name: "Регион", Type: FieldText, CanGroup: true, DBColumn: "region"},
			{
				ID: "organization", Name: "Организация", Type: FieldText, CanGroup: true,
				DBColumn: "organization_ref", RefTable: "cat_organizations", RefDisplayColumn: "description",
			},
			{
				ID: "manager", Name: "Менеджер", Type: FieldText, CanGroup: true,
				DBColumn: "manager_ref", RefTable: "cat_organizations", RefDisplayColumn: "description",
			},
			{ID: "count", Name: "Счётчик", Type: FieldInteger, CanAggregate: true, DBColumn: "count"},
			{ID: "amount", Name: "Сумма", Type: FieldNumeric, CanAggregate: true, DBColumn: "amount"},
		},
	}
}

func sumOf(fieldID string) SelectedField {
	agg := AggSum
	return SelectedField{FieldID: fieldID, Aggregate: &agg}
}

func TestBuild_GroupedAggregation(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "SELECT test_table.date, SUM(test_table.amount) AS amount" +
		" FROM test_table GROUP BY test_table.date ORDER BY test_table.date"
	if result.SQL != want {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", want, result.SQL)
	}
	if len(result.Params) != 0 {
		t.Errorf("expected no params, got %d", len(result.Params))
	}
}

func TestBuild_ReferenceGrouping(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"organization"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "SELECT test_table.organization_ref, cat_organizations.description AS organization_display," +
		" SUM(test_table.amount) AS amount" +
		" FROM test_table" +
		" LEFT JOIN cat_organizations ON test_table.organization_ref = cat_organizations.id" +
		" GROUP BY test_table.organization_ref, cat_organizations.description" +
		" ORDER BY cat_organizations.description"
	if result.SQL != want {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", want, result.SQL)
	}
}

func TestBuild_JoinDeduplication(t *testing.T) {
	// organization and manager point at the same lookup table through
	// different columns: both joins must survive, each exactly once.
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"organization", "manager"},
		DisplayFields:  []string{"organization"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	orgJoin := "LEFT JOIN cat_organizations ON test_table.organization_ref = cat_organizations.id"
	mgrJoin := "LEFT JOIN cat_organizations ON test_table.manager_ref = cat_organizations.id"
	if strings.Count(result.SQL, orgJoin) != 1 {
		t.Errorf("organization join should appear exactly once:\n%s", result.SQL)
	}
	if strings.Count(result.SQL, mgrJoin) != 1 {
		t.Errorf("manager join should appear exactly once:\n%s", result.SQL)
	}
}

func TestBuild_TableAlias(t *testing.T) {
	schema := testSchema()
	schema.TableName = "reg_test_v2"

	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	result, err := NewQueryBuilder(schema, config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.Contains(result.SQL, "FROM reg_test_v2 AS test_table") {
		t.Errorf("expected aliased FROM clause, got:\n%s", result.SQL)
	}
}

func TestBuild_EmptyProjection(t *testing.T) {
	config := &DashboardConfig{DataSource: "test_table"}

	_, err := NewQueryBuilder(testSchema(), config).Build()
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperror.CodeEmptyProjection {
		t.Errorf("expected %s, got %s", apperror.CodeEmptyProjection, appErr.Code)
	}
	if appErr.Message != "No columns selected" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestBuild_UnknownField(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"nope"},
		SelectedFields: []SelectedField{sumOf("amount")},
	}

	_, err := NewQueryBuilder(testSchema(), config).Build()
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperror.CodeUnknownField {
		t.Errorf("expected %s, got %s", apperror.CodeUnknownField, appErr.Code)
	}
}

func TestBuild_EnabledFieldsSubset(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date", "region"},
		SelectedFields: []SelectedField{sumOf("amount")},
		EnabledFields:  []string{"date", "amount"},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if strings.Contains(result.SQL, "region") {
		t.Errorf("disabled field leaked into SQL:\n%s", result.SQL)
	}
}

func TestBuildWhere_LegacyDateRange(t *testing.T) {
	from, to := "2024-01-01", "2024-01-31"
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
		Filters:        DashboardFilters{DateFrom: &from, DateTo: &to},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.Contains(result.SQL, "WHERE test_table.date >= ? AND test_table.date <= ?") {
		t.Errorf("unexpected WHERE clause:\n%s", result.SQL)
	}
	if len(result.Params) != 2 || result.Params[0].Text != from || result.Params[1].Text != to {
		t.Errorf("unexpected params: %+v", result.Params)
	}
}

func TestBuildWhere_DimensionsSorted(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
		Filters: DashboardFilters{
			Dimensions: map[string][]string{
				"region":       {"north", "south"},
				"organization": {"a1"},
			},
		},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// organization sorts before region regardless of map order.
	want := "WHERE test_table.organization_ref IN (?) AND test_table.region IN (?, ?)"
	if !strings.Contains(result.SQL, want) {
		t.Errorf("unexpected WHERE clause:\n%s", result.SQL)
	}
	if len(result.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(result.Params))
	}
	if result.Params[0].Text != "a1" || result.Params[1].Text != "north" || result.Params[2].Text != "south" {
		t.Errorf("params out of order: %+v", result.Params)
	}
}

func TestBuildWhere_FieldFilters(t *testing.T) {
	value2 := "200"

	tests := []struct {
		name       string
		filter     FieldFilter
		wantSQL    string
		wantParams []QueryParam
	}{
		{
			name:       "Equals",
			filter:     FieldFilter{FieldID: "region", Operator: FilterEq, Value: "north"},
			wantSQL:    "test_table.region = ?",
			wantParams: []QueryParam{TextParam("north")},
		},
		{
			name:       "IsNull",
			filter:     FieldFilter{FieldID: "region", Operator: FilterIsNull},
			wantSQL:    "test_table.region IS NULL",
			wantParams: nil,
		},
		{
			name:       "Between",
			filter:     FieldFilter{FieldID: "amount", Operator: FilterBetween, Value: "100", Value2: &value2},
			wantSQL:    "test_table.amount BETWEEN ? AND ?",
			wantParams: []QueryParam{NumericParam(100), NumericParam(200)},
		},
		{
			name:       "InSplitsCommas",
			filter:     FieldFilter{FieldID: "count", Operator: FilterIn, Value: "1, 2,3"},
			wantSQL:    "test_table.count IN (?, ?, ?)",
			wantParams: []QueryParam{IntegerParam(1), IntegerParam(2), IntegerParam(3)},
		},
		{
			name:       "LikeWrapsPattern",
			filter:     FieldFilter{FieldID: "region", Operator: FilterLike, Value: "nor"},
			wantSQL:    "test_table.region LIKE ?",
			wantParams: []QueryParam{TextParam("%nor%")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &DashboardConfig{
				DataSource:     "test_table",
				Groupings:      []string{"date"},
				SelectedFields: []SelectedField{sumOf("amount")},
				Filters:        DashboardFilters{FieldFilters: []FieldFilter{tt.filter}},
			}

			result, err := NewQueryBuilder(testSchema(), config).Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if !strings.Contains(result.SQL, "WHERE "+tt.wantSQL) {
				t.Errorf("WHERE mismatch\nwant: %s\ngot:  %s", tt.wantSQL, result.SQL)
			}
			if len(result.Params) != len(tt.wantParams) {
				t.Fatalf("params count mismatch\nwant: %d\ngot:  %d", len(tt.wantParams), len(result.Params))
			}
			for i, p := range tt.wantParams {
				if result.Params[i] != p {
					t.Errorf("param %d mismatch\nwant: %+v\ngot:  %+v", i, p, result.Params[i])
				}
			}
		})
	}
}

func TestBuildWhere_BetweenRequiresSecondValue(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
		Filters: DashboardFilters{
			FieldFilters: []FieldFilter{{FieldID: "amount", Operator: FilterBetween, Value: "100"}},
		},
	}

	_, err := NewQueryBuilder(testSchema(), config).Build()
	if err == nil || !strings.Contains(err.Error(), "BETWEEN operator requires two values") {
		t.Errorf("expected BETWEEN validation error, got %v", err)
	}
}

func TestBuildWhere_Conditions(t *testing.T) {
	from, to := "2024-01-01", "2024-01-31"

	tests := []struct {
		name       string
		def        ConditionDef
		fieldID    string
		wantSQL    string
		wantParams int
	}{
		{
			name:       "Comparison",
			def:        Comparison(OpGte, "100"),
			fieldID:    "amount",
			wantSQL:    "test_table.amount >= ?",
			wantParams: 1,
		},
		{
			name:       "RangeBothBounds",
			def:        Range(&from, &to),
			fieldID:    "date",
			wantSQL:    "test_table.date BETWEEN ? AND ?",
			wantParams: 2,
		},
		{
			name:       "RangeLowerOnly",
			def:        Range(&from, nil),
			fieldID:    "date",
			wantSQL:    "test_table.date >= ?",
			wantParams: 1,
		},
		{
			name:       "NullabilityNotNull",
			def:        Nullability(false),
			fieldID:    "region",
			wantSQL:    "test_table.region IS NOT NULL",
			wantParams: 0,
		},
		{
			name:       "Contains",
			def:        Contains("чка"),
			fieldID:    "region",
			wantSQL:    "test_table.region LIKE ?",
			wantParams: 1,
		},
		{
			name:       "InListNegated",
			def:        InListValues([]string{"a", "b"}, true),
			fieldID:    "region",
			wantSQL:    "test_table.region NOT IN (?, ?)",
			wantParams: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &DashboardConfig{
				DataSource:     "test_table",
				Groupings:      []string{"date"},
				SelectedFields: []SelectedField{sumOf("amount")},
				Filters: DashboardFilters{
					Conditions: []FilterCondition{
						{ID: "c1", FieldID: tt.fieldID, Def: tt.def, Active: true},
					},
				},
			}

			result, err := NewQueryBuilder(testSchema(), config).Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if !strings.Contains(result.SQL, "WHERE "+tt.wantSQL) {
				t.Errorf("WHERE mismatch\nwant: %s\ngot:  %s", tt.wantSQL, result.SQL)
			}
			if len(result.Params) != tt.wantParams {
				t.Errorf("params count mismatch\nwant: %d\ngot:  %d", tt.wantParams, len(result.Params))
			}
		})
	}
}

func TestBuildWhere_InactiveConditionSkipped(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
		Filters: DashboardFilters{
			Conditions: []FilterCondition{
				{ID: "c1", FieldID: "region", Def: Contains("x"), Active: false},
			},
		},
	}

	result, err := NewQueryBuilder(testSchema(), config).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if strings.Contains(result.SQL, "WHERE") {
		t.Errorf("inactive condition generated a WHERE clause:\n%s", result.SQL)
	}
}

func TestBuildWhere_DatePeriodPreset(t *testing.T) {
	config := &DashboardConfig{
		DataSource:     "test_table",
		Groupings:      []string{"date"},
		SelectedFields: []SelectedField{sumOf("amount")},
		Filters: DashboardFilters{
			Conditions: []FilterCondition{
				{ID: "c1", FieldID: "date", Def: DatePeriodPreset(PresetLast7Days), Active: true},
			},
		},
	}

	builder := NewQueryBuilder(testSchema(), config)
	builder.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	result, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.Contains(result.SQL, "test_table.date BETWEEN ? AND ?") {
		t.Errorf("unexpected SQL:\n%s", result.SQL)
	}
	if len(result.Params) != 2 || result.Params[0].Text != "2024-01-04" || result.Params[1].Text != "2024-01-10" {
		t.Errorf("unexpected params: %+v", result.Params)
	}
}

func TestBuildWhere_ConditionErrors(t *testing.T) {
	tests := []struct {
		name    string
		def     ConditionDef
		fieldID string
		wantMsg string
	}{
		{"RangeNoBounds", Range(nil, nil), "amount", "Range condition requires at least one bound"},
		{"DatePeriodNoDates", DatePeriodRange(nil, nil), "date", "Date period condition requires at least one date"},
		{"InListEmpty", InListValues(nil, false), "region", "InList condition requires at least one value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &DashboardConfig{
				DataSource:     "test_table",
				Groupings:      []string{"date"},
				SelectedFields: []SelectedField{sumOf("amount")},
				Filters: DashboardFilters{
					Conditions: []FilterCondition{
						{ID: "c1", FieldID: tt.fieldID, Def: tt.def, Active: true},
					},
				},
			}

			_, err := NewQueryBuilder(testSchema(), config).Build()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q error, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestTypedParam(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		fieldType FieldType
		want      QueryParam
		wantErr   string
	}{
		{name: "Text", value: "abc", fieldType: FieldText, want: TextParam("abc")},
		{name: "Integer", value: "42", fieldType: FieldInteger, want: IntegerParam(42)},
		{name: "Numeric", value: "3.14", fieldType: FieldNumeric, want: NumericParam(3.14)},
		{name: "DateAsText", value: "2024-01-01", fieldType: FieldDate, want: TextParam("2024-01-01")},
		{name: "BadInteger", value: "abc", fieldType: FieldInteger, wantErr: "Invalid integer value: abc"},
		{name: "BadNumeric", value: "x", fieldType: FieldNumeric, wantErr: "Invalid numeric value: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := typedParam(tt.value, tt.fieldType)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected %q error, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("typedParam failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("param mismatch\nwant: %+v\ngot:  %+v", tt.want, got)
			}
		})
	}
}

func TestPreviewSQL(t *testing.T) {
	result := &QueryResult{
		SQL: "SELECT x FROM t WHERE a = ? AND b = ? AND c = ?",
		Params: []QueryParam{
			TextParam("it's"),
			IntegerParam(7),
			NumericParam(2.5),
		},
	}

	want := "SELECT x FROM t WHERE a = 'it''s' AND b = 7 AND c = 2.5"
	if got := result.PreviewSQL(); got != want {
		t.Errorf("preview mismatch\nwant: %s\ngot:  %s", want, got)
	}
}

func TestPreviewSQL_QuestionMarkInValue(t *testing.T) {
	result := &QueryResult{
		SQL: "SELECT x FROM t WHERE a LIKE ? AND b = ?",
		Params: []QueryParam{
			TextParam("%why?%"),
			IntegerParam(1),
		},
	}

	// The ? inside the first literal must not swallow the second param.
	want := "SELECT x FROM t WHERE a LIKE '%why?%' AND b = 1"
	if got := result.PreviewSQL(); got != want {
		t.Errorf("preview mismatch\nwant: %s\ngot:  %s", want, got)
	}
}
