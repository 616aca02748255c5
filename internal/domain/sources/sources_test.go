package sources

import (
	"testing"

	"marketops/internal/domain/dashboard"
)

func TestRegister(t *testing.T) {
	reg := dashboard.NewSchemaRegistry()
	Register(reg)

	for _, id := range []string{SourceSalesRegister, SourceWBFinance} {
		schema, err := reg.Executable(id)
		if err != nil {
			t.Fatalf("Executable(%s): %v", id, err)
		}
		if schema.ID != id {
			t.Errorf("schema id = %q, want %q", schema.ID, id)
		}
	}
}

func TestRegister_LegacyAliases(t *testing.T) {
	reg := dashboard.NewSchemaRegistry()
	Register(reg)

	aliases := map[string]string{
		"sales_register":         SourceSalesRegister,
		"p900_sales_register":    SourceSalesRegister,
		"wb_finance":             SourceWBFinance,
		"p903_wb_finance_report": SourceWBFinance,
		"s001_wb_finance":        SourceWBFinance,
	}
	for alias, want := range aliases {
		schema, err := reg.Executable(alias)
		if err != nil {
			t.Errorf("Executable(%s): %v", alias, err)
			continue
		}
		if schema.ID != want {
			t.Errorf("alias %s resolved to %q, want %q", alias, schema.ID, want)
		}
	}
}

func TestSalesRegisterSchema(t *testing.T) {
	schema := SalesRegisterSchema()

	if schema.Table() != TableSalesRegister {
		t.Errorf("table = %q", schema.Table())
	}
	if got := schema.DateFields(); len(got) != 1 || got[0].ID != "sale_date" {
		t.Errorf("date fields = %v", got)
	}

	org, ok := schema.Field("organization")
	if !ok {
		t.Fatal("organization field missing")
	}
	if org.RefTable != TableOrganizations || org.RefDisplayColumn != "description" {
		t.Errorf("organization ref = %s.%s", org.RefTable, org.RefDisplayColumn)
	}
	if org.DBColumn != "organization_ref" {
		t.Errorf("organization column = %q", org.DBColumn)
	}

	for _, id := range []string{"qty", "amount_line", "commission_amount", "payout_amount"} {
		field, ok := schema.Field(id)
		if !ok || !field.CanAggregate {
			t.Errorf("field %s: missing or not aggregatable", id)
		}
	}
}

func TestWBFinanceSchema(t *testing.T) {
	schema := WBFinanceSchema()

	if schema.Table() != TableWBFinance {
		t.Errorf("table = %q", schema.Table())
	}
	for _, id := range []string{"operation_type", "subject", "brand"} {
		field, ok := schema.Field(id)
		if !ok || !field.CanGroup {
			t.Errorf("field %s: missing or not groupable", id)
		}
	}
}
