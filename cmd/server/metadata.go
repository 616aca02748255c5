package main

import (
	"marketops/internal/domain/sources"
	"marketops/internal/metadata"
)

// setupMetadataRegistry initializes and populates the metadata registry.
func setupMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()

	// Helper to register entity with localized label and table name
	register := func(entity interface{}, name string, typ metadata.EntityType, label, table string) {
		def := metadata.Inspect(entity, name, typ)
		def.Label = label
		def.TableName = table

		reg.Register(def)
	}

	// --- Catalogs ---
	register(sources.Organization{}, "Organization", metadata.TypeCatalog, "Организации", sources.TableOrganizations)
	register(sources.Marketplace{}, "Marketplace", metadata.TypeCatalog, "Маркетплейсы", sources.TableMarketplaces)
	register(sources.Connection{}, "Connection", metadata.TypeCatalog, "Подключения", sources.TableConnections)
	register(sources.Nomenclature{}, "Nomenclature", metadata.TypeCatalog, "Номенклатура", sources.TableNomenclature)

	return reg
}
