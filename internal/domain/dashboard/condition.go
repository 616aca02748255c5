package dashboard

import (
	"fmt"
	"strings"
)

// ConditionKind discriminates the ConditionDef union.
type ConditionKind string

const (
	CondComparison  ConditionKind = "comparison"
	CondRange       ConditionKind = "range"
	CondDatePeriod  ConditionKind = "date_period"
	CondNullability ConditionKind = "nullability"
	CondContains    ConditionKind = "contains"
	CondInList      ConditionKind = "in_list"
)

// ConditionDef is a closed tagged union describing one filter shape.
// Exactly one variant is meaningful at a time, selected by Kind; the
// remaining fields are ignored.
type ConditionDef struct {
	Kind ConditionKind `json:"kind"`

	// comparison
	Operator ComparisonOp `json:"operator,omitempty"`
	Value    string       `json:"value,omitempty"`

	// range and date_period bounds (inclusive)
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`

	// date_period named preset, overrides From/To when present
	Preset *DatePreset `json:"preset,omitempty"`

	// nullability
	IsNull bool `json:"isNull,omitempty"`

	// contains
	Pattern string `json:"pattern,omitempty"`

	// in_list
	Values  []string `json:"values,omitempty"`
	Negated bool     `json:"negated,omitempty"`
}

// Comparison builds a comparison condition.
func Comparison(op ComparisonOp, value string) ConditionDef {
	return ConditionDef{Kind: CondComparison, Operator: op, Value: value}
}

// Range builds a range condition; either bound may be nil.
func Range(from, to *string) ConditionDef {
	return ConditionDef{Kind: CondRange, From: from, To: to}
}

// DatePeriodPreset builds a date period condition from a named preset.
func DatePeriodPreset(preset DatePreset) ConditionDef {
	return ConditionDef{Kind: CondDatePeriod, Preset: &preset}
}

// DatePeriodRange builds a date period condition from explicit bounds.
func DatePeriodRange(from, to *string) ConditionDef {
	return ConditionDef{Kind: CondDatePeriod, From: from, To: to}
}

// Nullability builds an IS NULL / IS NOT NULL condition.
func Nullability(isNull bool) ConditionDef {
	return ConditionDef{Kind: CondNullability, IsNull: isNull}
}

// Contains builds a substring match condition.
func Contains(pattern string) ConditionDef {
	return ConditionDef{Kind: CondContains, Pattern: pattern}
}

// InListValues builds an IN / NOT IN condition.
func InListValues(values []string, negated bool) ConditionDef {
	return ConditionDef{Kind: CondInList, Values: values, Negated: negated}
}

// DisplayText renders the condition for the saved-filter UI.
func (d ConditionDef) DisplayText(fieldName string) string {
	switch d.Kind {
	case CondComparison:
		return fmt.Sprintf("%s %s %s", fieldName, d.Operator.Symbol(), d.Value)
	case CondRange:
		return rangeText(fieldName, d.From, d.To, "любой диапазон")
	case CondDatePeriod:
		if d.Preset != nil {
			return fmt.Sprintf("%s: %s", fieldName, d.Preset.Label())
		}
		return rangeText(fieldName, d.From, d.To, "любой период")
	case CondNullability:
		if d.IsNull {
			return fmt.Sprintf("%s не заполнено", fieldName)
		}
		return fmt.Sprintf("%s заполнено", fieldName)
	case CondContains:
		return fmt.Sprintf("%s содержит %q", fieldName, d.Pattern)
	case CondInList:
		prefix := "в"
		if d.Negated {
			prefix = "не в"
		}
		if len(d.Values) <= 3 {
			return fmt.Sprintf("%s %s [%s]", fieldName, prefix, strings.Join(d.Values, ", "))
		}
		return fmt.Sprintf("%s %s списке (%d значений)", fieldName, prefix, len(d.Values))
	}
	return fieldName
}

func rangeText(fieldName string, from, to *string, empty string) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("%s: %s — %s", fieldName, *from, *to)
	case from != nil:
		return fmt.Sprintf("%s ≥ %s", fieldName, *from)
	case to != nil:
		return fmt.Sprintf("%s ≤ %s", fieldName, *to)
	}
	return fmt.Sprintf("%s: %s", fieldName, empty)
}

// FromFieldFilter converts a legacy FieldFilter into the condition model.
// Used when migrating saved configs to the current filter format.
func FromFieldFilter(f FieldFilter) ConditionDef {
	switch f.Operator {
	case FilterLike:
		return Contains(f.Value)
	case FilterIn:
		var values []string
		for _, v := range strings.Split(f.Value, ",") {
			values = append(values, strings.TrimSpace(v))
		}
		return InListValues(values, false)
	case FilterBetween:
		v := f.Value
		return Range(&v, f.Value2)
	case FilterIsNull:
		return Nullability(true)
	default:
		return Comparison(ComparisonOp(f.Operator), f.Value)
	}
}
