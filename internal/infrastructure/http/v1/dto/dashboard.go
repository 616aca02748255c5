package dto

import (
	"marketops/internal/domain/dashboard"
)

// SaveDashboardConfigRequest creates a named saved report.
type SaveDashboardConfigRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Config      dashboard.DashboardConfig `json:"config" binding:"required"`
}

// UpdateDashboardConfigRequest replaces a saved report.
type UpdateDashboardConfigRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Config      dashboard.DashboardConfig `json:"config" binding:"required"`
}

// SchemaListResponse lists registered data sources.
type SchemaListResponse struct {
	Schemas []dashboard.SchemaInfo `json:"schemas"`
	Total   int                    `json:"total"`
}

// SchemaResponse returns one schema with its source kind.
type SchemaResponse struct {
	Schema *dashboard.DataSourceSchema `json:"schema"`
	Source dashboard.SchemaSource      `json:"source"`
}

// DistinctValuesResponse lists filter picker entries.
type DistinctValuesResponse struct {
	Values []dashboard.DistinctValue `json:"values"`
	Total  int                       `json:"total"`
}

// SavedConfigListResponse lists saved report summaries.
type SavedConfigListResponse struct {
	Configs []dashboard.SavedConfigSummary `json:"configs"`
	Total   int                            `json:"total"`
}

// DatePresetInfo describes one relative period option.
type DatePresetInfo struct {
	ID    dashboard.DatePreset `json:"id"`
	Label string               `json:"label"`
}

// DatePresetListResponse lists the supported relative periods.
type DatePresetListResponse struct {
	Presets []DatePresetInfo `json:"presets"`
}
