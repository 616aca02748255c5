// Package main provides a CLI tool for seeding the database with fixture data.
//
// It creates the reporting tables when they are missing and fills them with a
// small deterministic dataset for local development of the dashboard API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"marketops/internal/core/id"
	"marketops/internal/core/types"
	"marketops/internal/domain/sources"
	"marketops/internal/infrastructure/storage/postgres"
	"marketops/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create tables", "error", err)
	}
	log.Info("tables ready")

	refs, err := seedCatalogs(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	if err := seedSalesRegister(ctx, pool, log, refs); err != nil {
		log.Fatalw("failed to seed sales register", "error", err)
	}

	if err := seedWBFinance(ctx, pool, log, refs); err != nil {
		log.Fatalw("failed to seed WB finance report", "error", err)
	}

	log.Info("seeding completed successfully")
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS cat_organizations (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		inn TEXT,
		parent_id UUID,
		is_folder BOOLEAN NOT NULL DEFAULT FALSE,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		attributes JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS cat_marketplaces (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		parent_id UUID,
		is_folder BOOLEAN NOT NULL DEFAULT FALSE,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		attributes JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS cat_connections (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		organization_id UUID NOT NULL REFERENCES cat_organizations (id),
		marketplace_id UUID NOT NULL REFERENCES cat_marketplaces (id),
		parent_id UUID,
		is_folder BOOLEAN NOT NULL DEFAULT FALSE,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		attributes JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS cat_nomenclature (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		article TEXT,
		brand TEXT,
		parent_id UUID,
		is_folder BOOLEAN NOT NULL DEFAULT FALSE,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		attributes JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS mp_sales_register (
		id UUID PRIMARY KEY,
		marketplace TEXT NOT NULL,
		document_no TEXT NOT NULL,
		line_id INT NOT NULL,
		sale_date DATE NOT NULL,
		organization_ref UUID NOT NULL REFERENCES cat_organizations (id),
		connection_ref UUID NOT NULL REFERENCES cat_connections (id),
		nomenclature_ref UUID REFERENCES cat_nomenclature (id),
		qty NUMERIC(15,4) NOT NULL,
		amount_line NUMERIC(15,2) NOT NULL,
		commission_amount NUMERIC(15,2) NOT NULL,
		payout_amount NUMERIC(15,2) NOT NULL,
		source_updated_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (marketplace, document_no, line_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wb_finance_report (
		id UUID PRIMARY KEY,
		report_date DATE NOT NULL,
		organization_ref UUID NOT NULL REFERENCES cat_organizations (id),
		connection_ref UUID NOT NULL REFERENCES cat_connections (id),
		nomenclature_ref UUID REFERENCES cat_nomenclature (id),
		operation_type TEXT NOT NULL,
		subject TEXT NOT NULL,
		brand TEXT NOT NULL,
		qty NUMERIC(15,4) NOT NULL,
		retail_amount NUMERIC(15,2) NOT NULL,
		commission_amount NUMERIC(15,2) NOT NULL,
		payout_amount NUMERIC(15,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sys_dashboard_configs (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		data_source TEXT NOT NULL,
		config_json BYTEA,
		config_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}

// catalogRefs collects the IDs the register fixtures reference.
type catalogRefs struct {
	org          id.ID
	wbConn       id.ID
	ozonConn     id.ID
	nomenclature map[string]id.ID
}

func seedCatalogs(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (*catalogRefs, error) {
	refs := &catalogRefs{nomenclature: make(map[string]id.ID)}

	// Organization
	org := sources.NewOrganization("ORG-001", "ООО Ромашка")
	org.INN = strPtr("7700000001")
	orgID, err := upsertCatalogRow(ctx, pool, `
		INSERT INTO cat_organizations (id, code, name, description, inn)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`, "cat_organizations", org.Code,
		org.ID, org.Code, org.Name, org.Description, org.INN)
	if err != nil {
		return nil, err
	}
	refs.org = orgID

	// Marketplaces
	marketplaceIDs := make(map[string]id.ID)
	for _, m := range []*sources.Marketplace{
		sources.NewMarketplace("WB", "Wildberries"),
		sources.NewMarketplace("OZON", "Ozon"),
		sources.NewMarketplace("YM", "Яндекс Маркет"),
	} {
		mpID, err := upsertCatalogRow(ctx, pool, `
			INSERT INTO cat_marketplaces (id, code, name, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING
		`, "cat_marketplaces", m.Code,
			m.ID, m.Code, m.Name, m.Description)
		if err != nil {
			return nil, err
		}
		marketplaceIDs[m.Code] = mpID
	}

	// Connections
	for _, c := range []*sources.Connection{
		sources.NewConnection("CONN-WB-001", "Ромашка / Wildberries", orgID, marketplaceIDs["WB"]),
		sources.NewConnection("CONN-OZON-001", "Ромашка / Ozon", orgID, marketplaceIDs["OZON"]),
	} {
		connID, err := upsertCatalogRow(ctx, pool, `
			INSERT INTO cat_connections (id, code, name, description, organization_id, marketplace_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING
		`, "cat_connections", c.Code,
			c.ID, c.Code, c.Name, c.Description, c.OrganizationID, c.MarketplaceID)
		if err != nil {
			return nil, err
		}
		switch c.Code {
		case "CONN-WB-001":
			refs.wbConn = connID
		case "CONN-OZON-001":
			refs.ozonConn = connID
		}
	}

	// Nomenclature
	type itemSeed struct {
		code    string
		name    string
		article string
		brand   string
		barcode string
	}
	items := []itemSeed{
		{"NOM-001", "Футболка хлопковая", "TS-100", "BrandA", "4600000000017"},
		{"NOM-002", "Джинсы классические", "JN-200", "BrandA", "4600000000024"},
		{"NOM-003", "Кроссовки беговые", "SN-300", "BrandB", "4600000000031"},
		{"NOM-004", "Рюкзак городской", "BP-400", "BrandB", "4600000000048"},
	}
	for _, it := range items {
		n := sources.NewNomenclature(it.code, it.name)
		n.Article = strPtr(it.article)
		n.Brand = strPtr(it.brand)
		n.SetAttribute("barcode", it.barcode)
		itemID, err := upsertCatalogRow(ctx, pool, `
			INSERT INTO cat_nomenclature (id, code, name, description, article, brand, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (code) DO NOTHING
		`, "cat_nomenclature", n.Code,
			n.ID, n.Code, n.Name, n.Description, n.Article, n.Brand, n.Attributes)
		if err != nil {
			return nil, err
		}
		refs.nomenclature[it.code] = itemID
	}

	log.Infow("catalogs seeded",
		"organizations", 1,
		"marketplaces", len(marketplaceIDs),
		"nomenclature", len(items),
	)
	return refs, nil
}

// upsertCatalogRow inserts a catalog row and returns its ID, fetching the
// existing row's ID when the code is already taken.
func upsertCatalogRow(ctx context.Context, pool *postgres.Pool, insertSQL, table, code string, args ...any) (id.ID, error) {
	tag, err := pool.Exec(ctx, insertSQL, args...)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert into %s: %w", table, err)
	}

	rowID, ok := args[0].(id.ID)
	if !ok {
		return id.Nil(), fmt.Errorf("insert into %s: first arg must be id.ID", table)
	}
	if tag.RowsAffected() > 0 {
		return rowID, nil
	}

	err = pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE code = $1`, table), code,
	).Scan(&rowID)
	if err != nil {
		return id.Nil(), fmt.Errorf("fetch existing %s row: %w", table, err)
	}
	return rowID, nil
}

func seedSalesRegister(ctx context.Context, pool *postgres.Pool, log *logger.Logger, refs *catalogRefs) error {
	type saleSeed struct {
		marketplace string
		documentNo  string
		daysAgo     int
		item        string
		qty         float64
		amount      string
		commission  string
	}

	seeds := []saleSeed{
		{"Wildberries", "WB-0001", 1, "NOM-001", 2, "2400.00", "360.00"},
		{"Wildberries", "WB-0001", 1, "NOM-002", 1, "3500.00", "525.00"},
		{"Wildberries", "WB-0002", 3, "NOM-003", 1, "5200.00", "780.00"},
		{"Wildberries", "WB-0003", 8, "NOM-001", 3, "3600.00", "540.00"},
		{"Ozon", "OZ-0001", 2, "NOM-004", 1, "2900.00", "377.00"},
		{"Ozon", "OZ-0002", 5, "NOM-002", 2, "7000.00", "910.00"},
		{"Ozon", "OZ-0003", 12, "NOM-003", 1, "5200.00", "676.00"},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	lineNo := make(map[string]int)

	for _, s := range seeds {
		lineNo[s.documentNo]++

		entry := sources.SalesRegisterEntry{
			ID:              id.New(),
			Marketplace:     s.marketplace,
			DocumentNo:      s.documentNo,
			LineID:          lineNo[s.documentNo],
			SaleDate:        today.AddDate(0, 0, -s.daysAgo),
			OrganizationRef: refs.org,
			ConnectionRef:   refs.wbConn,
			Qty:             types.NewQuantityFromFloat64(s.qty),
			AmountLine:      types.MustMoney(s.amount),
			Commission:      types.MustMoney(s.commission),
		}
		if s.marketplace == "Ozon" {
			entry.ConnectionRef = refs.ozonConn
		}
		if itemID, ok := refs.nomenclature[s.item]; ok {
			entry.NomenclatureRef = &itemID
		}
		entry.Payout = entry.AmountLine.Sub(entry.Commission)

		_, err := pool.Exec(ctx, `
			INSERT INTO mp_sales_register (
				id, marketplace, document_no, line_id, sale_date,
				organization_ref, connection_ref, nomenclature_ref,
				qty, amount_line, commission_amount, payout_amount
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (marketplace, document_no, line_id) DO NOTHING
		`, entry.ID, entry.Marketplace, entry.DocumentNo, entry.LineID, entry.SaleDate,
			entry.OrganizationRef, entry.ConnectionRef, entry.NomenclatureRef,
			entry.Qty.Float64(), entry.AmountLine, entry.Commission, entry.Payout)
		if err != nil {
			return fmt.Errorf("insert sales register row: %w", err)
		}
	}

	log.Infow("sales register seeded", "rows", len(seeds))
	return nil
}

func seedWBFinance(ctx context.Context, pool *postgres.Pool, log *logger.Logger, refs *catalogRefs) error {
	type financeSeed struct {
		daysAgo       int
		item          string
		operationType string
		subject       string
		brand         string
		qty           float64
		retail        string
		commission    string
	}

	seeds := []financeSeed{
		{1, "NOM-001", "Продажа", "Футболки", "BrandA", 2, "2400.00", "360.00"},
		{2, "NOM-002", "Продажа", "Джинсы", "BrandA", 1, "3500.00", "525.00"},
		{4, "NOM-003", "Продажа", "Кроссовки", "BrandB", 1, "5200.00", "780.00"},
		{4, "NOM-001", "Возврат", "Футболки", "BrandA", -1, "-1200.00", "-180.00"},
		{9, "NOM-004", "Продажа", "Рюкзаки", "BrandB", 2, "5800.00", "754.00"},
	}

	// The report table has no natural key, so skip re-seeding a filled table.
	var existing int64
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM wb_finance_report`).Scan(&existing); err != nil {
		return fmt.Errorf("count finance report rows: %w", err)
	}
	if existing > 0 {
		log.Infow("WB finance report already seeded", "rows", existing)
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, s := range seeds {
		line := sources.WBFinanceLine{
			ID:              id.New(),
			ReportDate:      today.AddDate(0, 0, -s.daysAgo),
			OrganizationRef: refs.org,
			ConnectionRef:   refs.wbConn,
			OperationType:   s.operationType,
			Subject:         s.subject,
			Brand:           s.brand,
			Qty:             types.NewQuantityFromFloat64(s.qty),
			RetailAmount:    types.MustMoney(s.retail),
			Commission:      types.MustMoney(s.commission),
		}
		if itemID, ok := refs.nomenclature[s.item]; ok {
			line.NomenclatureRef = &itemID
		}
		line.Payout = line.RetailAmount.Sub(line.Commission)

		_, err := pool.Exec(ctx, `
			INSERT INTO wb_finance_report (
				id, report_date, organization_ref, connection_ref, nomenclature_ref,
				operation_type, subject, brand,
				qty, retail_amount, commission_amount, payout_amount
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, line.ID, line.ReportDate, line.OrganizationRef, line.ConnectionRef, line.NomenclatureRef,
			line.OperationType, line.Subject, line.Brand,
			line.Qty.Float64(), line.RetailAmount, line.Commission, line.Payout)
		if err != nil {
			return fmt.Errorf("insert finance report row: %w", err)
		}
	}

	log.Infow("WB finance report seeded", "rows", len(seeds))
	return nil
}

func strPtr(s string) *string {
	return &s
}
