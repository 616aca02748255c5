package dashboard

import (
	"context"
	"fmt"
	"time"

	"marketops/internal/core/apperror"
	"marketops/internal/core/id"
)

// DefaultDistinctLimit caps filter picker result sets.
const DefaultDistinctLimit = 100

// ExecuteResponse is the pivoted report.
type ExecuteResponse struct {
	DataSource string               `json:"dataSource"`
	Columns    []ColumnHeader       `json:"columns"`
	Rows       []PivotRow           `json:"rows"`
	Totals     map[string]CellValue `json:"totals,omitempty"`
}

// GenerateSQLResponse is the query preview without execution.
type GenerateSQLResponse struct {
	DataSource string   `json:"dataSource"`
	SQL        string   `json:"sql"`
	Params     []string `json:"params"`
	Preview    string   `json:"preview"`
}

// Service orchestrates report generation: schema resolution, SQL building,
// execution, row decoding and pivoting.
type Service struct {
	registry *SchemaRegistry
	repo     Repository
	configs  ConfigStore
}

// NewService creates a new dashboard service.
func NewService(registry *SchemaRegistry, repo Repository, configs ConfigStore) *Service {
	return &Service{registry: registry, repo: repo, configs: configs}
}

// Registry exposes the schema registry for listing endpoints.
func (s *Service) Registry() *SchemaRegistry {
	return s.registry
}

// Execute runs a report configuration and returns the pivoted result.
func (s *Service) Execute(ctx context.Context, config *DashboardConfig) (*ExecuteResponse, error) {
	schema, err := s.registry.Executable(config.DataSource)
	if err != nil {
		return nil, err
	}

	query, err := NewQueryBuilder(schema, config).Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Query(ctx, query.SQL, query.Params)
	if err != nil {
		return nil, fmt.Errorf("execute dashboard query: %w", err)
	}

	rawRows := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		rawRows = append(rawRows, DecodeRow(schema, config, row))
	}

	columns, err := BuildColumnHeaders(schema, config)
	if err != nil {
		return nil, err
	}

	measures := Measures(config)
	groupings := append([]string(nil), config.Groupings...)
	tree := NewTreeBuilder(groupings, measures)

	return &ExecuteResponse{
		DataSource: config.DataSource,
		Columns:    columns,
		Rows:       tree.Build(rawRows),
		Totals:     tree.GrandTotals(rawRows),
	}, nil
}

// GenerateSQL builds the query for a configuration without running it.
func (s *Service) GenerateSQL(config *DashboardConfig) (*GenerateSQLResponse, error) {
	schema, err := s.registry.Executable(config.DataSource)
	if err != nil {
		return nil, err
	}

	query, err := NewQueryBuilder(schema, config).Build()
	if err != nil {
		return nil, err
	}

	params := make([]string, 0, len(query.Params))
	for _, p := range query.Params {
		params = append(params, p.Preview())
	}

	return &GenerateSQLResponse{
		DataSource: config.DataSource,
		SQL:        query.SQL,
		Params:     params,
		Preview:    query.PreviewSQL(),
	}, nil
}

// DistinctValues lists stored values of a field for filter pickers.
// A non-positive limit falls back to DefaultDistinctLimit.
func (s *Service) DistinctValues(ctx context.Context, dataSource, fieldID string, limit int) ([]DistinctValue, error) {
	schema, err := s.registry.Executable(dataSource)
	if err != nil {
		return nil, err
	}

	field, ok := schema.Field(fieldID)
	if !ok {
		return nil, apperror.NewUnknownField(schema.ID, fieldID)
	}

	if limit <= 0 {
		limit = DefaultDistinctLimit
	}

	values, err := s.repo.DistinctValues(ctx, schema, field, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("distinct values for %s.%s: %w", schema.ID, fieldID, err)
	}
	return values, nil
}

// ValidateSchemas checks every registered schema against the database.
func (s *Service) ValidateSchemas(ctx context.Context) (*ValidateSchemasResponse, error) {
	infos := s.registry.List()
	results := make([]SchemaValidationResult, 0, len(infos))
	validCount := 0

	for _, info := range infos {
		schema, source, ok := s.registry.Schema(info.ID)
		if !ok {
			continue
		}

		result := s.validateSchema(ctx, schema, source)
		if result.IsValid {
			validCount++
		}
		results = append(results, result)
	}

	return &ValidateSchemasResponse{
		Results:    results,
		TotalCount: len(results),
		ValidCount: validCount,
	}, nil
}

func (s *Service) validateSchema(ctx context.Context, schema *DataSourceSchema, source SchemaSource) SchemaValidationResult {
	started := time.Now()
	result := SchemaValidationResult{
		SchemaID:   schema.ID,
		SchemaName: schema.Name,
		Source:     source,
		Errors:     []string{},
		Warnings:   []string{},
	}

	tableExists, missingColumns, missingRefTables, rowCount, err := s.repo.CheckSchema(ctx, schema)
	switch {
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Validation query failed: %v", err))
	case !tableExists:
		result.Errors = append(result.Errors, fmt.Sprintf("Table %s does not exist", schema.Table()))
	default:
		for _, col := range missingColumns {
			result.Errors = append(result.Errors, fmt.Sprintf("Column %s not found in table %s", col, schema.Table()))
		}
		for _, ref := range missingRefTables {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Reference table %s does not exist", ref))
		}
		result.RowCount = rowCount
	}

	result.IsValid = len(result.Errors) == 0
	result.ExecutionTimeUs = time.Since(started).Microseconds()
	return result
}

// SaveConfig persists a new named report configuration.
func (s *Service) SaveConfig(ctx context.Context, name, description string, config DashboardConfig) (*SavedConfig, error) {
	if name == "" {
		return nil, apperror.NewValidation("Configuration name is required")
	}
	if !s.registry.Has(config.DataSource) {
		return nil, apperror.NewUnknownDataSource(config.DataSource)
	}

	now := time.Now().UTC()
	saved := &SavedConfig{
		ID:          id.New(),
		Name:        name,
		Description: description,
		DataSource:  config.DataSource,
		Config:      config,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.configs.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("save dashboard config: %w", err)
	}
	return saved, nil
}

// UpdateConfig replaces an existing saved configuration.
func (s *Service) UpdateConfig(ctx context.Context, configID id.ID, name, description string, config DashboardConfig) (*SavedConfig, error) {
	if name == "" {
		return nil, apperror.NewValidation("Configuration name is required")
	}

	existing, err := s.configs.Get(ctx, configID)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.DataSource = config.DataSource
	existing.Config = config
	existing.UpdatedAt = time.Now().UTC()

	if err := s.configs.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update dashboard config: %w", err)
	}
	return existing, nil
}

// GetConfig loads one saved configuration.
func (s *Service) GetConfig(ctx context.Context, configID id.ID) (*SavedConfig, error) {
	return s.configs.Get(ctx, configID)
}

// ListConfigs lists saved configurations, optionally scoped to one data
// source.
func (s *Service) ListConfigs(ctx context.Context, dataSource string) ([]SavedConfigSummary, error) {
	return s.configs.List(ctx, dataSource)
}

// DeleteConfig removes a saved configuration.
func (s *Service) DeleteConfig(ctx context.Context, configID id.ID) error {
	return s.configs.Delete(ctx, configID)
}
