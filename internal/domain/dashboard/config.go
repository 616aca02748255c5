package dashboard

import (
	"time"

	"marketops/internal/core/id"
)

// DashboardConfig is a report definition selected by the user.
type DashboardConfig struct {
	// DataSource is the schema id, possibly a legacy alias.
	DataSource string `json:"dataSource"`

	// SelectedFields to display or aggregate.
	SelectedFields []SelectedField `json:"selectedFields"`

	// Groupings define the pivot hierarchy, order matters.
	Groupings []string `json:"groupings"`

	// DisplayFields are shown without grouping or aggregation.
	DisplayFields []string `json:"displayFields,omitempty"`

	// Filters to apply.
	Filters DashboardFilters `json:"filters"`

	// EnabledFields limits the config to a subset of fields.
	// Empty means every field is enabled (opt-out, not opt-in).
	EnabledFields []string `json:"enabledFields,omitempty"`
}

// FieldEnabled reports whether a field participates in the build.
func (c *DashboardConfig) FieldEnabled(fieldID string) bool {
	if len(c.EnabledFields) == 0 {
		return true
	}
	for _, id := range c.EnabledFields {
		if id == fieldID {
			return true
		}
	}
	return false
}

// IsGrouping reports whether the field id is listed in Groupings.
func (c *DashboardConfig) IsGrouping(fieldID string) bool {
	for _, g := range c.Groupings {
		if g == fieldID {
			return true
		}
	}
	return false
}

// AggregatedFields returns the selected fields that carry an aggregate,
// in selection order.
func (c *DashboardConfig) AggregatedFields() []SelectedField {
	var result []SelectedField
	for _, sf := range c.SelectedFields {
		if sf.Aggregate != nil {
			result = append(result, sf)
		}
	}
	return result
}

// SelectedField is a field chosen for output with optional aggregation.
type SelectedField struct {
	FieldID   string         `json:"fieldId"`
	Aggregate *AggregateFunc `json:"aggregate,omitempty"`
}

// FieldFilter is the legacy single-operator filter.
type FieldFilter struct {
	FieldID  string         `json:"fieldId"`
	Operator FilterOperator `json:"operator"`
	Value    string         `json:"value"`
	// Value2 is the upper bound for the between operator.
	Value2 *string `json:"value2,omitempty"`
}

// FilterCondition is the multi-shape filter model.
type FilterCondition struct {
	ID      string       `json:"id"`
	FieldID string       `json:"fieldId"`
	Def     ConditionDef `json:"definition"`
	// DisplayText is the human-readable rendering shown in the filter bar.
	DisplayText string `json:"displayText,omitempty"`
	// Active conditions are applied to the query; inactive ones are kept
	// in the config but skipped during the build.
	Active bool `json:"active"`
}

// DashboardFilters groups every filter shape supported by the engine.
// DateFrom/DateTo and Dimensions are the legacy formats kept for saved
// configs created before conditions existed.
type DashboardFilters struct {
	// DateFrom/DateTo (YYYY-MM-DD, inclusive) bind to the schema's Date
	// field. When the schema declares more than one Date field the config
	// must name the target via DateFieldID.
	DateFrom    *string `json:"dateFrom,omitempty"`
	DateTo      *string `json:"dateTo,omitempty"`
	DateFieldID string  `json:"dateFieldId,omitempty"`

	// Dimensions: field id -> allowed values (IN semantics).
	Dimensions map[string][]string `json:"dimensions,omitempty"`

	// FieldFilters is the legacy operator-based list.
	FieldFilters []FieldFilter `json:"fieldFilters,omitempty"`

	// Conditions is the current multi-shape filter list.
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// ColumnKind tells how a result column was produced.
type ColumnKind string

const (
	ColumnGrouping   ColumnKind = "grouping"
	ColumnAggregated ColumnKind = "aggregated"
)

// ColumnHeader describes one column of the pivot result.
type ColumnHeader struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// SavedConfig is a named, persisted report definition.
type SavedConfig struct {
	ID          id.ID           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	DataSource  string          `json:"dataSource"`
	Config      DashboardConfig `json:"config"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SavedConfigSummary is a listing entry without the config body.
type SavedConfigSummary struct {
	ID          id.ID     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DataSource  string    `json:"dataSource"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DistinctValue is one entry of a filter value picker.
type DistinctValue struct {
	// Value is the raw stored value (a foreign key for reference fields).
	Value string `json:"value"`
	// Display is the human-readable form, same as Value for plain fields.
	Display string `json:"display"`
}
