package sources

import (
	"marketops/internal/core/entity"
	"marketops/internal/core/id"
)

// Catalog entities referenced by the register tables. They carry no CRUD
// services; the API exposes them through joined display columns and the
// metadata registry.

// Organization is a legal entity selling on marketplaces.
type Organization struct {
	entity.Catalog

	// Description is the display name used in report joins
	Description string `db:"description" json:"description"`

	// INN is the tax identification number
	INN *string `db:"inn" json:"inn,omitempty"`
}

// NewOrganization creates a new Organization.
func NewOrganization(code, name string) *Organization {
	return &Organization{
		Catalog:     entity.NewCatalog(code, name),
		Description: name,
	}
}

// Marketplace is a trading platform (Wildberries, Ozon, Yandex Market).
type Marketplace struct {
	entity.Catalog

	// Description is the display name used in report joins
	Description string `db:"description" json:"description"`
}

// NewMarketplace creates a new Marketplace.
func NewMarketplace(code, name string) *Marketplace {
	return &Marketplace{
		Catalog:     entity.NewCatalog(code, name),
		Description: name,
	}
}

// Connection is a marketplace API account of an organization.
type Connection struct {
	entity.Catalog

	// Description is the display name used in report joins
	Description string `db:"description" json:"description"`

	// OrganizationID is the owning organization
	OrganizationID id.ID `db:"organization_id" json:"organizationId"`

	// MarketplaceID is the platform this connection talks to
	MarketplaceID id.ID `db:"marketplace_id" json:"marketplaceId"`
}

// NewConnection creates a new Connection.
func NewConnection(code, name string, orgID, mpID id.ID) *Connection {
	return &Connection{
		Catalog:        entity.NewCatalog(code, name),
		Description:    name,
		OrganizationID: orgID,
		MarketplaceID:  mpID,
	}
}

// Nomenclature is a sellable item.
type Nomenclature struct {
	entity.Catalog

	// Description is the display name used in report joins
	Description string `db:"description" json:"description"`

	// Article is the seller's SKU
	Article *string `db:"article" json:"article,omitempty"`

	// Brand is the product brand
	Brand *string `db:"brand" json:"brand,omitempty"`
}

// NewNomenclature creates a new Nomenclature.
func NewNomenclature(code, name string) *Nomenclature {
	return &Nomenclature{
		Catalog:     entity.NewCatalog(code, name),
		Description: name,
	}
}
