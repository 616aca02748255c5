package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketops/internal/core/apperror"
)

// ParamKind discriminates the typed query parameter variants.
type ParamKind string

const (
	ParamText    ParamKind = "text"
	ParamInteger ParamKind = "integer"
	ParamNumeric ParamKind = "numeric"
)

// QueryParam is a typed positional SQL parameter. The param order matches
// the order of ? placeholders in the generated SQL.
type QueryParam struct {
	Kind ParamKind
	Text string
	Int  int64
	Num  float64
}

func TextParam(v string) QueryParam { return QueryParam{Kind: ParamText, Text: v} }

func IntegerParam(v int64) QueryParam { return QueryParam{Kind: ParamInteger, Int: v} }

func NumericParam(v float64) QueryParam { return QueryParam{Kind: ParamNumeric, Num: v} }

// Value returns the parameter as a driver-compatible value.
func (p QueryParam) Value() any {
	switch p.Kind {
	case ParamInteger:
		return p.Int
	case ParamNumeric:
		return p.Num
	default:
		return p.Text
	}
}

// Preview renders the parameter as an inline SQL literal for query previews.
// Never use the result for execution, only for display.
func (p QueryParam) Preview() string {
	switch p.Kind {
	case ParamInteger:
		return strconv.FormatInt(p.Int, 10)
	case ParamNumeric:
		return strconv.FormatFloat(p.Num, 'f', -1, 64)
	default:
		return "'" + strings.ReplaceAll(p.Text, "'", "''") + "'"
	}
}

// QueryResult is the generated SQL with its ordered parameters.
type QueryResult struct {
	SQL    string
	Params []QueryParam
}

// PreviewSQL substitutes parameters into the SQL as literals for display.
// The scan advances past each substituted literal so that a ? inside a
// parameter value is never mistaken for the next placeholder.
func (r *QueryResult) PreviewSQL() string {
	var sb strings.Builder
	sql := r.SQL
	for _, p := range r.Params {
		idx := strings.IndexByte(sql, '?')
		if idx < 0 {
			break
		}
		sb.WriteString(sql[:idx])
		sb.WriteString(p.Preview())
		sql = sql[idx+1:]
	}
	sb.WriteString(sql)
	return sb.String()
}

// QueryBuilder generates a single aggregation query from a data source
// schema and a dashboard configuration. Placeholders are emitted as ?;
// the storage layer rebinds them to the target dialect.
type QueryBuilder struct {
	schema *DataSourceSchema
	config *DashboardConfig
	now    time.Time
}

// NewQueryBuilder creates a builder anchored to the current local date
// for relative period resolution.
func NewQueryBuilder(schema *DataSourceSchema, config *DashboardConfig) *QueryBuilder {
	return &QueryBuilder{schema: schema, config: config, now: time.Now()}
}

// Build assembles the full SQL statement and its parameters.
func (b *QueryBuilder) Build() (*QueryResult, error) {
	selectClause, err := b.buildSelect()
	if err != nil {
		return nil, err
	}

	joinClause, err := b.buildJoins()
	if err != nil {
		return nil, err
	}

	whereClause, params, err := b.buildWhere()
	if err != nil {
		return nil, err
	}

	groupByClause, err := b.buildGroupBy()
	if err != nil {
		return nil, err
	}

	orderByClause, err := b.buildOrderBy()
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(selectClause)
	sb.WriteString(" FROM ")
	sb.WriteString(b.buildFrom())

	if joinClause != "" {
		sb.WriteString(" ")
		sb.WriteString(joinClause)
	}
	if whereClause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(whereClause)
	}
	if groupByClause != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(groupByClause)
	}
	if orderByClause != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderByClause)
	}

	return &QueryResult{SQL: sb.String(), Params: params}, nil
}

func (b *QueryBuilder) buildSelect() (string, error) {
	var columns []string
	mainTable := b.schema.ID

	// Grouping columns. Ref fields select both the key and the display name.
	for _, groupingID := range b.config.Groupings {
		if !b.config.FieldEnabled(groupingID) {
			continue
		}
		field, err := b.findField(groupingID)
		if err != nil {
			return "", err
		}

		columns = append(columns, mainTable+"."+field.DBColumn)
		if field.RefTable != "" && field.RefDisplayColumn != "" {
			columns = append(columns, fmt.Sprintf("%s.%s AS %s_display",
				field.RefTable, field.RefDisplayColumn, field.ID))
		}
	}

	// Display fields not already covered by groupings.
	for _, displayID := range b.config.DisplayFields {
		if !b.config.FieldEnabled(displayID) || b.config.IsGrouping(displayID) {
			continue
		}
		field, err := b.findField(displayID)
		if err != nil {
			return "", err
		}

		if field.RefTable != "" {
			columns = append(columns, mainTable+"."+field.DBColumn)
			if field.RefDisplayColumn != "" {
				columns = append(columns, fmt.Sprintf("%s.%s AS %s_display",
					field.RefTable, field.RefDisplayColumn, field.ID))
			}
		} else {
			columns = append(columns, fmt.Sprintf("%s.%s AS %s",
				mainTable, field.DBColumn, displayID))
		}
	}

	// Selected measures.
	for _, selected := range b.config.SelectedFields {
		if !b.config.FieldEnabled(selected.FieldID) {
			continue
		}
		field, err := b.findField(selected.FieldID)
		if err != nil {
			return "", err
		}

		if selected.Aggregate != nil {
			columns = append(columns, fmt.Sprintf("%s(%s.%s) AS %s",
				selected.Aggregate.SQL(), mainTable, field.DBColumn, field.ID))
		} else if !b.config.IsGrouping(selected.FieldID) {
			columns = append(columns, fmt.Sprintf("%s.%s AS %s",
				mainTable, field.DBColumn, field.ID))
		}
	}

	if len(columns) == 0 {
		return "", apperror.NewEmptyProjection()
	}
	return strings.Join(columns, ", "), nil
}

func (b *QueryBuilder) buildFrom() string {
	table := b.schema.Table()
	if table != b.schema.ID {
		return table + " AS " + b.schema.ID
	}
	return b.schema.ID
}

func (b *QueryBuilder) buildJoins() (string, error) {
	var joins []string
	seen := make(map[string]bool)
	mainTable := b.schema.ID

	addJoin := func(field *FieldDef) {
		if field.RefTable == "" {
			return
		}
		join := fmt.Sprintf("LEFT JOIN %s ON %s.%s = %s.id",
			field.RefTable, mainTable, field.DBColumn, field.RefTable)
		if !seen[join] {
			seen[join] = true
			joins = append(joins, join)
		}
	}

	for _, groupingID := range b.config.Groupings {
		if !b.config.FieldEnabled(groupingID) {
			continue
		}
		field, err := b.findField(groupingID)
		if err != nil {
			return "", err
		}
		addJoin(field)
	}

	for _, displayID := range b.config.DisplayFields {
		if !b.config.FieldEnabled(displayID) {
			continue
		}
		field, err := b.findField(displayID)
		if err != nil {
			return "", err
		}
		addJoin(field)
	}

	return strings.Join(joins, " "), nil
}

func (b *QueryBuilder) buildWhere() (string, []QueryParam, error) {
	var conditions []string
	var params []QueryParam
	mainTable := b.schema.ID

	// Legacy report period bounds against the schema's date field.
	if b.config.Filters.DateFrom != nil {
		dateField, err := b.dateField()
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, fmt.Sprintf("%s.%s >= ?", mainTable, dateField.DBColumn))
		params = append(params, TextParam(*b.config.Filters.DateFrom))
	}
	if b.config.Filters.DateTo != nil {
		dateField, err := b.dateField()
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, fmt.Sprintf("%s.%s <= ?", mainTable, dateField.DBColumn))
		params = append(params, TextParam(*b.config.Filters.DateTo))
	}

	// Legacy dimension filters. Map iteration order is randomized, so the
	// keys are sorted to keep generated SQL deterministic.
	dimensionIDs := make([]string, 0, len(b.config.Filters.Dimensions))
	for fieldID := range b.config.Filters.Dimensions {
		dimensionIDs = append(dimensionIDs, fieldID)
	}
	sort.Strings(dimensionIDs)

	for _, fieldID := range dimensionIDs {
		values := b.config.Filters.Dimensions[fieldID]
		if len(values) == 0 {
			continue
		}
		field, err := b.findField(fieldID)
		if err != nil {
			return "", nil, err
		}

		conditions = append(conditions, fmt.Sprintf("%s.%s IN (%s)",
			mainTable, field.DBColumn, placeholders(len(values))))
		for _, value := range values {
			param, err := typedParam(value, field.Type)
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
	}

	// Legacy per-field operator filters.
	for _, filter := range b.config.Filters.FieldFilters {
		field, err := b.findField(filter.FieldID)
		if err != nil {
			return "", nil, err
		}
		columnRef := mainTable + "." + field.DBColumn

		switch filter.Operator {
		case FilterIsNull:
			conditions = append(conditions, columnRef+" IS NULL")

		case FilterBetween:
			if filter.Value2 == nil {
				return "", nil, apperror.NewValidation("BETWEEN operator requires two values")
			}
			conditions = append(conditions, columnRef+" BETWEEN ? AND ?")
			for _, value := range []string{filter.Value, *filter.Value2} {
				param, err := typedParam(value, field.Type)
				if err != nil {
					return "", nil, err
				}
				params = append(params, param)
			}

		case FilterIn:
			values := strings.Split(filter.Value, ",")
			conditions = append(conditions, fmt.Sprintf("%s IN (%s)",
				columnRef, placeholders(len(values))))
			for _, value := range values {
				param, err := typedParam(strings.TrimSpace(value), field.Type)
				if err != nil {
					return "", nil, err
				}
				params = append(params, param)
			}

		case FilterLike:
			conditions = append(conditions, columnRef+" LIKE ?")
			params = append(params, TextParam("%"+filter.Value+"%"))

		default:
			conditions = append(conditions, fmt.Sprintf("%s %s ?", columnRef, filter.Operator.SQL()))
			param, err := typedParam(filter.Value, field.Type)
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
	}

	// Structured filter conditions.
	for _, condition := range b.config.Filters.Conditions {
		if !condition.Active {
			continue
		}
		sql, condParams, err := b.conditionSQL(&condition, mainTable)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, sql)
		params = append(params, condParams...)
	}

	return strings.Join(conditions, " AND "), params, nil
}

func (b *QueryBuilder) buildGroupBy() (string, error) {
	if len(b.config.Groupings) == 0 && len(b.config.DisplayFields) == 0 {
		return "", nil
	}

	var columns []string
	mainTable := b.schema.ID

	appendGroup := func(field *FieldDef) {
		columns = append(columns, mainTable+"."+field.DBColumn)
		if field.RefTable != "" && field.RefDisplayColumn != "" {
			columns = append(columns, field.RefTable+"."+field.RefDisplayColumn)
		}
	}

	for _, groupingID := range b.config.Groupings {
		if !b.config.FieldEnabled(groupingID) {
			continue
		}
		field, err := b.findField(groupingID)
		if err != nil {
			return "", err
		}
		appendGroup(field)
	}

	// Display fields are not aggregated, so they must participate in grouping.
	for _, displayID := range b.config.DisplayFields {
		if !b.config.FieldEnabled(displayID) || b.config.IsGrouping(displayID) {
			continue
		}
		field, err := b.findField(displayID)
		if err != nil {
			return "", err
		}
		appendGroup(field)
	}

	return strings.Join(columns, ", "), nil
}

func (b *QueryBuilder) buildOrderBy() (string, error) {
	if len(b.config.Groupings) == 0 {
		return "", nil
	}

	var columns []string
	mainTable := b.schema.ID

	for _, groupingID := range b.config.Groupings {
		if !b.config.FieldEnabled(groupingID) {
			continue
		}
		field, err := b.findField(groupingID)
		if err != nil {
			return "", err
		}

		// Ref fields sort by their display name, not the key.
		if field.RefTable != "" && field.RefDisplayColumn != "" {
			columns = append(columns, field.RefTable+"."+field.RefDisplayColumn)
		} else {
			columns = append(columns, mainTable+"."+field.DBColumn)
		}
	}

	return strings.Join(columns, ", "), nil
}

// conditionSQL renders one structured condition as a SQL fragment with its
// parameters.
func (b *QueryBuilder) conditionSQL(condition *FilterCondition, tableAlias string) (string, []QueryParam, error) {
	field, err := b.findField(condition.FieldID)
	if err != nil {
		return "", nil, err
	}
	columnRef := tableAlias + "." + field.DBColumn

	var params []QueryParam
	def := condition.Def

	switch def.Kind {
	case CondComparison:
		param, err := typedParam(def.Value, field.Type)
		if err != nil {
			return "", nil, err
		}
		params = append(params, param)
		return fmt.Sprintf("%s %s ?", columnRef, def.Operator.SQL()), params, nil

	case CondRange:
		switch {
		case def.From != nil && def.To != nil:
			for _, value := range []string{*def.From, *def.To} {
				param, err := typedParam(value, field.Type)
				if err != nil {
					return "", nil, err
				}
				params = append(params, param)
			}
			return columnRef + " BETWEEN ? AND ?", params, nil
		case def.From != nil:
			param, err := typedParam(*def.From, field.Type)
			if err != nil {
				return "", nil, err
			}
			return columnRef + " >= ?", append(params, param), nil
		case def.To != nil:
			param, err := typedParam(*def.To, field.Type)
			if err != nil {
				return "", nil, err
			}
			return columnRef + " <= ?", append(params, param), nil
		default:
			return "", nil, apperror.NewValidation("Range condition requires at least one bound")
		}

	case CondDatePeriod:
		from, to := def.From, def.To
		if def.Preset != nil {
			resolvedFrom, resolvedTo, err := ResolveDatePreset(*def.Preset, b.now)
			if err != nil {
				return "", nil, apperror.NewValidation(err.Error())
			}
			from, to = &resolvedFrom, &resolvedTo
		}

		switch {
		case from != nil && to != nil:
			params = append(params, TextParam(*from), TextParam(*to))
			return columnRef + " BETWEEN ? AND ?", params, nil
		case from != nil:
			return columnRef + " >= ?", append(params, TextParam(*from)), nil
		case to != nil:
			return columnRef + " <= ?", append(params, TextParam(*to)), nil
		default:
			return "", nil, apperror.NewValidation("Date period condition requires at least one date")
		}

	case CondNullability:
		if def.IsNull {
			return columnRef + " IS NULL", nil, nil
		}
		return columnRef + " IS NOT NULL", nil, nil

	case CondContains:
		params = append(params, TextParam("%"+def.Pattern+"%"))
		return columnRef + " LIKE ?", params, nil

	case CondInList:
		if len(def.Values) == 0 {
			return "", nil, apperror.NewValidation("InList condition requires at least one value")
		}
		for _, value := range def.Values {
			param, err := typedParam(value, field.Type)
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
		op := "IN"
		if def.Negated {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", columnRef, op, placeholders(len(def.Values))), params, nil
	}

	return "", nil, apperror.NewValidation(fmt.Sprintf("Unknown condition kind: %s", def.Kind))
}

// dateField resolves the schema field targeted by the legacy date range
// filter. An explicit DateFieldID wins; otherwise the schema must expose
// a date field and the first one is used.
func (b *QueryBuilder) dateField() (*FieldDef, error) {
	if id := b.config.Filters.DateFieldID; id != "" {
		field, ok := b.schema.Field(id)
		if !ok {
			return nil, apperror.NewUnknownField(b.schema.ID, id)
		}
		if field.Type != FieldDate {
			return nil, apperror.NewValidation(fmt.Sprintf("Field %s is not a date field", id))
		}
		return field, nil
	}

	dateFields := b.schema.DateFields()
	if len(dateFields) == 0 {
		return nil, apperror.NewValidation("No date field found in schema")
	}
	return dateFields[0], nil
}

func (b *QueryBuilder) findField(fieldID string) (*FieldDef, error) {
	field, ok := b.schema.Field(fieldID)
	if !ok {
		return nil, apperror.NewUnknownField(b.schema.ID, fieldID)
	}
	return field, nil
}

// typedParam parses a filter value according to the field type. Text-typed
// fields pass through unparsed.
func typedParam(value string, fieldType FieldType) (QueryParam, error) {
	switch fieldType {
	case FieldInteger:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return QueryParam{}, apperror.NewValidation(fmt.Sprintf("Invalid integer value: %s", value))
		}
		return IntegerParam(intVal), nil
	case FieldNumeric:
		numVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return QueryParam{}, apperror.NewValidation(fmt.Sprintf("Invalid numeric value: %s", value))
		}
		return NumericParam(numVal), nil
	default:
		return TextParam(value), nil
	}
}

func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}
