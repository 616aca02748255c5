// Package dashboard implements the universal dashboard reporting engine:
// a schema-driven SQL query builder plus a pivot layer that reassembles
// flat aggregated rows into a hierarchical report.
package dashboard

// FieldType defines the value type of a reportable field.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldDate    FieldType = "date"
	FieldInteger FieldType = "integer"
	FieldNumeric FieldType = "numeric"
)

// FieldDef describes a single field of a data source.
//
// A field with RefTable and RefDisplayColumn is rendered through a lookup
// join: the base column holds the foreign key, the display column holds the
// human-readable label. A field with RefTable but no RefDisplayColumn is a
// join-only dimension: its value comes from the joined table directly and no
// display pseudo-column is generated.
type FieldDef struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	CanGroup     bool      `json:"canGroup"`
	CanAggregate bool      `json:"canAggregate"`
	DBColumn     string    `json:"dbColumn"`

	// Reference lookup (optional)
	RefTable         string `json:"refTable,omitempty"`
	RefDisplayColumn string `json:"refDisplayColumn,omitempty"`
}

// DataSourceSchema describes one reportable data source.
// Field order defines the deterministic order of generated SQL columns.
// Schemas are registered once at startup and never mutated.
type DataSourceSchema struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Fields []FieldDef `json:"fields"`

	// TableName is the backing table or view. Empty means the schema id
	// doubles as the table name.
	TableName string `json:"tableName,omitempty"`
}

// Table returns the backing table name.
func (s *DataSourceSchema) Table() string {
	if s.TableName != "" {
		return s.TableName
	}
	return s.ID
}

// Field returns the field definition by id.
func (s *DataSourceSchema) Field(id string) (*FieldDef, bool) {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// DateFields returns all Date-typed fields of the schema.
func (s *DataSourceSchema) DateFields() []*FieldDef {
	var result []*FieldDef
	for i := range s.Fields {
		if s.Fields[i].Type == FieldDate {
			result = append(result, &s.Fields[i])
		}
	}
	return result
}

// AggregateFunc is an aggregation applied to a measure field.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "sum"
	AggCount AggregateFunc = "count"
	AggAvg   AggregateFunc = "avg"
	AggMin   AggregateFunc = "min"
	AggMax   AggregateFunc = "max"
)

// SQL returns the SQL function name.
func (a AggregateFunc) SQL() string {
	switch a {
	case AggSum:
		return "SUM"
	case AggCount:
		return "COUNT"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	}
	return ""
}

// Label returns the localized display name used in column headers.
func (a AggregateFunc) Label() string {
	switch a {
	case AggSum:
		return "Сумма"
	case AggCount:
		return "Кол-во"
	case AggAvg:
		return "Среднее"
	case AggMin:
		return "Мин"
	case AggMax:
		return "Макс"
	}
	return string(a)
}

// Additive reports whether subtotals for this aggregate may be derived by
// re-summing already-aggregated child values. True only for Sum and Count;
// Avg/Min/Max subtotals are not mathematically sound without raw facts.
func (a AggregateFunc) Additive() bool {
	return a == AggSum || a == AggCount
}

// ComparisonOp is a scalar comparison operator used in filter conditions.
type ComparisonOp string

const (
	OpEq  ComparisonOp = "eq"
	OpNeq ComparisonOp = "neq"
	OpLt  ComparisonOp = "lt"
	OpGt  ComparisonOp = "gt"
	OpLte ComparisonOp = "lte"
	OpGte ComparisonOp = "gte"
)

// SQL returns the SQL operator, or empty string for an unknown operator.
func (op ComparisonOp) SQL() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	}
	return ""
}

// Symbol returns the display symbol for condition rendering.
func (op ComparisonOp) Symbol() string {
	switch op {
	case OpNeq:
		return "≠"
	case OpLte:
		return "≤"
	case OpGte:
		return "≥"
	default:
		return op.SQL()
	}
}

// FilterOperator is the legacy single-operator filter model.
type FilterOperator string

const (
	FilterEq      FilterOperator = "eq"
	FilterNeq     FilterOperator = "neq"
	FilterLt      FilterOperator = "lt"
	FilterGt      FilterOperator = "gt"
	FilterLte     FilterOperator = "lte"
	FilterGte     FilterOperator = "gte"
	FilterLike    FilterOperator = "like"
	FilterIn      FilterOperator = "in"
	FilterBetween FilterOperator = "between"
	FilterIsNull  FilterOperator = "is_null"
)

// SQL returns the SQL operator for simple comparison operators.
func (op FilterOperator) SQL() string {
	switch op {
	case FilterEq:
		return "="
	case FilterNeq:
		return "<>"
	case FilterLt:
		return "<"
	case FilterGt:
		return ">"
	case FilterLte:
		return "<="
	case FilterGte:
		return ">="
	case FilterLike:
		return "LIKE"
	}
	return ""
}

// SchemaSource tells where a registered schema came from.
type SchemaSource string

const (
	// SourceCustom - schema defined in code for a dedicated data source.
	SourceCustom SchemaSource = "custom"
	// SourceAuto - schema derived from entity metadata.
	SourceAuto SchemaSource = "auto"
)

// SchemaInfo is a registry listing entry.
type SchemaInfo struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Source    SchemaSource `json:"source"`
	TableName string       `json:"tableName"`
}
