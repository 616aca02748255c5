package sources

import (
	"time"

	"marketops/internal/core/id"
	"marketops/internal/core/types"
)

// SalesRegisterEntry is one line of the marketplace sales register.
// The natural key is (Marketplace, DocumentNo, LineID).
type SalesRegisterEntry struct {
	ID              id.ID          `json:"id" db:"id"`
	Marketplace     string         `json:"marketplace" db:"marketplace"`
	DocumentNo      string         `json:"documentNo" db:"document_no"`
	LineID          int            `json:"lineId" db:"line_id"`
	SaleDate        time.Time      `json:"saleDate" db:"sale_date"`
	OrganizationRef id.ID          `json:"organizationRef" db:"organization_ref"`
	ConnectionRef   id.ID          `json:"connectionRef" db:"connection_ref"`
	NomenclatureRef *id.ID         `json:"nomenclatureRef,omitempty" db:"nomenclature_ref"`
	Qty             types.Quantity `json:"qty" db:"qty"`
	AmountLine      types.Money    `json:"amountLine" db:"amount_line"`
	Commission      types.Money    `json:"commissionAmount" db:"commission_amount"`
	Payout          types.Money    `json:"payoutAmount" db:"payout_amount"`
	SourceUpdatedAt *time.Time     `json:"sourceUpdatedAt,omitempty" db:"source_updated_at"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// WBFinanceLine is one row of the Wildberries realization report.
type WBFinanceLine struct {
	ID              id.ID          `json:"id" db:"id"`
	ReportDate      time.Time      `json:"reportDate" db:"report_date"`
	OrganizationRef id.ID          `json:"organizationRef" db:"organization_ref"`
	ConnectionRef   id.ID          `json:"connectionRef" db:"connection_ref"`
	NomenclatureRef *id.ID         `json:"nomenclatureRef,omitempty" db:"nomenclature_ref"`
	OperationType   string         `json:"operationType" db:"operation_type"`
	Subject         string         `json:"subject" db:"subject"`
	Brand           string         `json:"brand" db:"brand"`
	Qty             types.Quantity `json:"qty" db:"qty"`
	RetailAmount    types.Money    `json:"retailAmount" db:"retail_amount"`
	Commission      types.Money    `json:"commissionAmount" db:"commission_amount"`
	Payout          types.Money    `json:"payoutAmount" db:"payout_amount"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}
