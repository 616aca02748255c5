// Package sources defines the executable data source schemas of the
// reporting engine and registers them together with their legacy aliases.
package sources

import "marketops/internal/domain/dashboard"

// Canonical data source ids.
const (
	SourceSalesRegister = "mp_sales_register"
	SourceWBFinance     = "wb_finance_report"
)

// Backing tables.
const (
	TableSalesRegister = "mp_sales_register"
	TableWBFinance     = "wb_finance_report"
)

// Lookup tables shared by the data sources.
const (
	TableOrganizations = "cat_organizations"
	TableMarketplaces  = "cat_marketplaces"
	TableConnections   = "cat_connections"
	TableNomenclature  = "cat_nomenclature"
)

const refDisplayColumn = "description"

// SalesRegisterSchema describes the unified marketplace sales register:
// one row per sold document line across every connected marketplace.
func SalesRegisterSchema() *dashboard.DataSourceSchema {
	return &dashboard.DataSourceSchema{
		ID:        SourceSalesRegister,
		Name:      "Регистр продаж маркетплейсов",
		TableName: TableSalesRegister,
		Fields: []dashboard.FieldDef{
			{
				ID:       "sale_date",
				Name:     "Дата продажи",
				Type:     dashboard.FieldDate,
				CanGroup: true,
				DBColumn: "sale_date",
			},
			{
				ID:               "organization",
				Name:             "Организация",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "organization_ref",
				RefTable:         TableOrganizations,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:       "marketplace",
				Name:     "Маркетплейс",
				Type:     dashboard.FieldText,
				CanGroup: true,
				DBColumn: "marketplace",
			},
			{
				ID:               "connection",
				Name:             "Подключение",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "connection_ref",
				RefTable:         TableConnections,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:               "nomenclature",
				Name:             "Номенклатура",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "nomenclature_ref",
				RefTable:         TableNomenclature,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:       "document_no",
				Name:     "Номер документа",
				Type:     dashboard.FieldText,
				CanGroup: true,
				DBColumn: "document_no",
			},
			{
				ID:           "qty",
				Name:         "Количество",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "qty",
			},
			{
				ID:           "amount_line",
				Name:         "Сумма",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "amount_line",
			},
			{
				ID:           "commission_amount",
				Name:         "Комиссия",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "commission_amount",
			},
			{
				ID:           "payout_amount",
				Name:         "К перечислению",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "payout_amount",
			},
		},
	}
}

// WBFinanceSchema describes the Wildberries financial realization report.
func WBFinanceSchema() *dashboard.DataSourceSchema {
	return &dashboard.DataSourceSchema{
		ID:        SourceWBFinance,
		Name:      "Финансовый отчёт Wildberries",
		TableName: TableWBFinance,
		Fields: []dashboard.FieldDef{
			{
				ID:       "report_date",
				Name:     "Дата отчёта",
				Type:     dashboard.FieldDate,
				CanGroup: true,
				DBColumn: "report_date",
			},
			{
				ID:               "organization",
				Name:             "Организация",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "organization_ref",
				RefTable:         TableOrganizations,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:               "connection",
				Name:             "Подключение",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "connection_ref",
				RefTable:         TableConnections,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:               "nomenclature",
				Name:             "Номенклатура",
				Type:             dashboard.FieldText,
				CanGroup:         true,
				DBColumn:         "nomenclature_ref",
				RefTable:         TableNomenclature,
				RefDisplayColumn: refDisplayColumn,
			},
			{
				ID:       "operation_type",
				Name:     "Тип операции",
				Type:     dashboard.FieldText,
				CanGroup: true,
				DBColumn: "operation_type",
			},
			{
				ID:       "subject",
				Name:     "Предмет",
				Type:     dashboard.FieldText,
				CanGroup: true,
				DBColumn: "subject",
			},
			{
				ID:       "brand",
				Name:     "Бренд",
				Type:     dashboard.FieldText,
				CanGroup: true,
				DBColumn: "brand",
			},
			{
				ID:           "qty",
				Name:         "Количество",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "qty",
			},
			{
				ID:           "retail_amount",
				Name:         "Сумма продажи",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "retail_amount",
			},
			{
				ID:           "commission_amount",
				Name:         "Комиссия",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "commission_amount",
			},
			{
				ID:           "payout_amount",
				Name:         "К перечислению",
				Type:         dashboard.FieldNumeric,
				CanAggregate: true,
				DBColumn:     "payout_amount",
			},
		},
	}
}

// Register adds the executable schemas and their legacy aliases to the
// registry. Old saved configs still reference the pre-rename ids.
func Register(reg *dashboard.SchemaRegistry) {
	reg.RegisterCustom(SalesRegisterSchema())
	reg.RegisterCustom(WBFinanceSchema())

	reg.RegisterAlias("sales_register", SourceSalesRegister)
	reg.RegisterAlias("p900_sales_register", SourceSalesRegister)

	reg.RegisterAlias("wb_finance", SourceWBFinance)
	reg.RegisterAlias("p903_wb_finance_report", SourceWBFinance)
	reg.RegisterAlias("s001_wb_finance", SourceWBFinance)
}
