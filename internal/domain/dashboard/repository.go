package dashboard

import (
	"context"

	"marketops/internal/core/id"
)

// QueryExecutor runs generated report SQL. Placeholders in the statement
// are ? in parameter order; implementations rebind to their dialect.
type QueryExecutor interface {
	Query(ctx context.Context, sql string, params []QueryParam) ([]Row, error)
}

// DistinctReader lists distinct stored values of a schema field for filter
// pickers. Reference fields resolve through their lookup table so the
// display name accompanies each raw value.
type DistinctReader interface {
	DistinctValues(ctx context.Context, schema *DataSourceSchema, field *FieldDef, limit uint64) ([]DistinctValue, error)
}

// SchemaChecker verifies a schema against the physical database.
type SchemaChecker interface {
	CheckSchema(ctx context.Context, schema *DataSourceSchema) (tableExists bool, missingColumns []string, missingRefTables []string, rowCount *int64, err error)
}

// ConfigStore persists saved report configurations.
type ConfigStore interface {
	Save(ctx context.Context, cfg *SavedConfig) error
	Update(ctx context.Context, cfg *SavedConfig) error
	Get(ctx context.Context, configID id.ID) (*SavedConfig, error)
	List(ctx context.Context, dataSource string) ([]SavedConfigSummary, error)
	Delete(ctx context.Context, configID id.ID) error
}

// Repository is the full storage surface the dashboard service depends on.
type Repository interface {
	QueryExecutor
	DistinctReader
	SchemaChecker
}
