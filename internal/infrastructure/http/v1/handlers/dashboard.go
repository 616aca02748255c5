package handlers

import (
	"github.com/gin-gonic/gin"

	"marketops/internal/core/apperror"
	"marketops/internal/core/id"
	"marketops/internal/domain/dashboard"
	"marketops/internal/infrastructure/http/v1/dto"
)

// DashboardHandler serves the ad-hoc reporting API.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Execute runs a report configuration.
// POST /api/v1/dashboard/execute
func (h *DashboardHandler) Execute(c *gin.Context) {
	var config dashboard.DashboardConfig
	if !h.BindJSON(c, &config) {
		return
	}

	result, err := h.service.Execute(c.Request.Context(), &config)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GenerateSQL previews the query for a configuration without running it.
// POST /api/v1/dashboard/generate-sql
func (h *DashboardHandler) GenerateSQL(c *gin.Context) {
	var config dashboard.DashboardConfig
	if !h.BindJSON(c, &config) {
		return
	}

	result, err := h.service.GenerateSQL(&config)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListSchemas lists every registered data source.
// GET /api/v1/dashboard/schemas
func (h *DashboardHandler) ListSchemas(c *gin.Context) {
	schemas := h.service.Registry().List()
	h.OK(c, dto.SchemaListResponse{Schemas: schemas, Total: len(schemas)})
}

// GetSchema returns one data source schema.
// GET /api/v1/dashboard/schemas/:id
func (h *DashboardHandler) GetSchema(c *gin.Context) {
	dataSource := c.Param("id")

	schema, source, ok := h.service.Registry().Schema(dataSource)
	if !ok {
		h.Error(c, apperror.NewUnknownDataSource(dataSource))
		return
	}
	h.OK(c, dto.SchemaResponse{Schema: schema, Source: source})
}

// DistinctValues lists stored values of a field for filter pickers.
// GET /api/v1/dashboard/schemas/:id/fields/:fieldId/values
func (h *DashboardHandler) DistinctValues(c *gin.Context) {
	dataSource := c.Param("id")
	fieldID := c.Param("fieldId")
	limit := h.ParseIntQuery(c, "limit", 0)

	values, err := h.service.DistinctValues(c.Request.Context(), dataSource, fieldID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.DistinctValuesResponse{Values: values, Total: len(values)})
}

// ValidateSchemas checks every registered schema against the database.
// POST /api/v1/dashboard/schemas/validate
func (h *DashboardHandler) ValidateSchemas(c *gin.Context) {
	result, err := h.service.ValidateSchemas(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListDatePresets lists the supported relative periods with labels.
// GET /api/v1/dashboard/date-presets
func (h *DashboardHandler) ListDatePresets(c *gin.Context) {
	presets := dashboard.AllDatePresets()
	infos := make([]dto.DatePresetInfo, 0, len(presets))
	for _, p := range presets {
		infos = append(infos, dto.DatePresetInfo{ID: p, Label: p.Label()})
	}
	h.OK(c, dto.DatePresetListResponse{Presets: infos})
}

// SaveConfig persists a new saved report.
// POST /api/v1/dashboard/configs
func (h *DashboardHandler) SaveConfig(c *gin.Context) {
	var req dto.SaveDashboardConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.service.SaveConfig(c.Request.Context(), req.Name, req.Description, req.Config)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, saved)
}

// ListConfigs lists saved reports, optionally scoped by data source.
// GET /api/v1/dashboard/configs?dataSource=...
func (h *DashboardHandler) ListConfigs(c *gin.Context) {
	configs, err := h.service.ListConfigs(c.Request.Context(), c.Query("dataSource"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SavedConfigListResponse{Configs: configs, Total: len(configs)})
}

// GetConfig loads one saved report.
// GET /api/v1/dashboard/configs/:id
func (h *DashboardHandler) GetConfig(c *gin.Context) {
	configID, ok := h.parseConfigID(c)
	if !ok {
		return
	}

	saved, err := h.service.GetConfig(c.Request.Context(), configID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, saved)
}

// UpdateConfig replaces a saved report.
// PUT /api/v1/dashboard/configs/:id
func (h *DashboardHandler) UpdateConfig(c *gin.Context) {
	configID, ok := h.parseConfigID(c)
	if !ok {
		return
	}

	var req dto.UpdateDashboardConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.service.UpdateConfig(c.Request.Context(), configID, req.Name, req.Description, req.Config)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, saved)
}

// DeleteConfig removes a saved report.
// DELETE /api/v1/dashboard/configs/:id
func (h *DashboardHandler) DeleteConfig(c *gin.Context) {
	configID, ok := h.parseConfigID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteConfig(c.Request.Context(), configID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *DashboardHandler) parseConfigID(c *gin.Context) (id.ID, bool) {
	configID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid config id").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return configID, true
}
