package dashboard

import (
	"sort"

	"marketops/internal/core/apperror"
)

// SchemaRegistry stores data source schemas. Custom schemas are defined in
// code and executable; auto schemas are derived from entity metadata and
// only listable until a query mapping exists for them. Registration happens
// at startup, lookups after that are read-only.
type SchemaRegistry struct {
	custom  map[string]*DataSourceSchema
	auto    map[string]*DataSourceSchema
	aliases map[string]string
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		custom:  make(map[string]*DataSourceSchema),
		auto:    make(map[string]*DataSourceSchema),
		aliases: make(map[string]string),
	}
}

// RegisterCustom registers an executable schema.
func (r *SchemaRegistry) RegisterCustom(schema *DataSourceSchema) {
	r.custom[schema.ID] = schema
}

// RegisterAuto registers a metadata-derived schema. It shows up in listings
// but cannot be executed.
func (r *SchemaRegistry) RegisterAuto(schema *DataSourceSchema) {
	r.auto[schema.ID] = schema
}

// RegisterAlias maps a legacy data source id onto its canonical schema.
func (r *SchemaRegistry) RegisterAlias(alias, canonicalID string) {
	r.aliases[alias] = canonicalID
}

// Resolve maps a possibly-legacy data source id to its canonical id.
func (r *SchemaRegistry) Resolve(dataSource string) string {
	if canonical, ok := r.aliases[dataSource]; ok {
		return canonical
	}
	return dataSource
}

// Has reports whether the id (after alias resolution) names any registered
// schema, executable or not.
func (r *SchemaRegistry) Has(dataSource string) bool {
	id := r.Resolve(dataSource)
	_, custom := r.custom[id]
	_, auto := r.auto[id]
	return custom || auto
}

// Schema returns a registered schema with its source kind.
func (r *SchemaRegistry) Schema(dataSource string) (*DataSourceSchema, SchemaSource, bool) {
	id := r.Resolve(dataSource)
	if s, ok := r.custom[id]; ok {
		return s, SourceCustom, true
	}
	if s, ok := r.auto[id]; ok {
		return s, SourceAuto, true
	}
	return nil, "", false
}

// Executable resolves a data source id to a schema queries can run against.
// A known but metadata-only source is rejected distinctly from an unknown one.
func (r *SchemaRegistry) Executable(dataSource string) (*DataSourceSchema, error) {
	id := r.Resolve(dataSource)
	if s, ok := r.custom[id]; ok {
		return s, nil
	}
	if _, ok := r.auto[id]; ok {
		return nil, apperror.NewSourceNotRunnable(dataSource)
	}
	return nil, apperror.NewUnknownDataSource(dataSource)
}

// List returns all registered schemas sorted by id.
func (r *SchemaRegistry) List() []SchemaInfo {
	list := make([]SchemaInfo, 0, len(r.custom)+len(r.auto))
	for _, s := range r.custom {
		list = append(list, SchemaInfo{
			ID:        s.ID,
			Name:      s.Name,
			Source:    SourceCustom,
			TableName: s.Table(),
		})
	}
	for _, s := range r.auto {
		list = append(list, SchemaInfo{
			ID:        s.ID,
			Name:      s.Name,
			Source:    SourceAuto,
			TableName: s.Table(),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
