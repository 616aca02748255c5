package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"

	"marketops/internal/core/apperror"
)

// CellKind discriminates cell value variants.
type CellKind int

const (
	CellNull CellKind = iota
	CellText
	CellInteger
	CellNumber
)

// CellValue is a single report cell. It serializes untagged: text as a
// JSON string, integer and number as JSON numbers, null as JSON null.
type CellValue struct {
	Kind CellKind
	Text string
	Int  int64
	Num  float64
}

func NullCell() CellValue { return CellValue{Kind: CellNull} }

func TextCell(v string) CellValue { return CellValue{Kind: CellText, Text: v} }

func IntegerCell(v int64) CellValue { return CellValue{Kind: CellInteger, Int: v} }

func NumberCell(v float64) CellValue { return CellValue{Kind: CellNumber, Num: v} }

// IsNull reports whether the cell holds no value.
func (c CellValue) IsNull() bool { return c.Kind == CellNull }

// String renders the cell for grouping keys and display.
// Null renders as the empty string.
func (c CellValue) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellInteger:
		return strconv.FormatInt(c.Int, 10)
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float64 returns the numeric value of the cell, if it has one.
func (c CellValue) Float64() (float64, bool) {
	switch c.Kind {
	case CellInteger:
		return float64(c.Int), true
	case CellNumber:
		return c.Num, true
	default:
		return 0, false
	}
}

// MarshalJSON implements the untagged representation.
func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(c.Text)
	case CellInteger:
		return json.Marshal(c.Int)
	case CellNumber:
		return json.Marshal(c.Num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the untagged representation. Whole JSON numbers
// decode as integers, fractional ones as floats.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NullCell()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextCell(s)
		return nil
	}
	if intVal, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*c = IntegerCell(intVal)
		return nil
	}
	var numVal float64
	if err := json.Unmarshal(data, &numVal); err != nil {
		return fmt.Errorf("invalid cell value %s: %w", data, err)
	}
	*c = NumberCell(numVal)
	return nil
}

// RawRow is a flat result row keyed by field id, the pivot builder's input.
type RawRow struct {
	Values map[string]CellValue
}

// Row is one row of an executed query, read by column name. The second
// return is false when the column is NULL, absent or of another type.
type Row interface {
	Text(column string) (string, bool)
	Int(column string) (int64, bool)
	Float(column string) (float64, bool)
}

// DecodeRow reads one query row into a RawRow following the schema's field
// types. Reference fields with a display column prefer the *_display
// pseudo-column and fall back to the raw value. Aggregated measures always
// decode as floats.
func DecodeRow(schema *DataSourceSchema, config *DashboardConfig, row Row) RawRow {
	values := make(map[string]CellValue)

	for _, groupingID := range config.Groupings {
		field, ok := schema.Field(groupingID)
		if !ok {
			values[groupingID] = NullCell()
			continue
		}
		values[groupingID] = decodeGroupingCell(field, row)
	}

	for _, selected := range config.SelectedFields {
		if selected.Aggregate == nil {
			continue
		}
		if v, ok := row.Float(selected.FieldID); ok {
			values[selected.FieldID] = NumberCell(v)
		} else {
			values[selected.FieldID] = NullCell()
		}
	}

	return RawRow{Values: values}
}

func decodeGroupingCell(field *FieldDef, row Row) CellValue {
	switch field.Type {
	case FieldInteger:
		if v, ok := row.Int(field.ID); ok {
			return IntegerCell(v)
		}
		return NullCell()
	case FieldNumeric:
		if v, ok := row.Float(field.ID); ok {
			return NumberCell(v)
		}
		return NullCell()
	default:
		// Text and date dimensions. Lookup fields read the joined
		// display name first.
		if field.RefTable != "" && field.RefDisplayColumn != "" {
			if v, ok := row.Text(field.ID + "_display"); ok {
				return TextCell(v)
			}
		}
		if v, ok := row.Text(field.ID); ok {
			return TextCell(v)
		}
		return NullCell()
	}
}

// BuildColumnHeaders describes the columns of the pivoted result: one per
// grouping followed by one per aggregated measure.
func BuildColumnHeaders(schema *DataSourceSchema, config *DashboardConfig) ([]ColumnHeader, error) {
	var columns []ColumnHeader

	for _, groupingID := range config.Groupings {
		field, ok := schema.Field(groupingID)
		if !ok {
			return nil, apperror.NewUnknownField(schema.ID, groupingID)
		}
		columns = append(columns, ColumnHeader{
			ID:   field.ID,
			Name: field.Name,
			Kind: ColumnGrouping,
		})
	}

	for _, selected := range config.SelectedFields {
		if selected.Aggregate == nil {
			continue
		}
		field, ok := schema.Field(selected.FieldID)
		if !ok {
			return nil, apperror.NewUnknownField(schema.ID, selected.FieldID)
		}
		columns = append(columns, ColumnHeader{
			ID:   field.ID,
			Name: fmt.Sprintf("%s (%s)", field.Name, selected.Aggregate.Label()),
			Kind: ColumnAggregated,
		})
	}

	return columns, nil
}
