package dashboard_repo

import (
	"context"
	"fmt"

	"marketops/internal/domain/dashboard"
)

// CheckSchema verifies a schema against the live database: backing table
// present, every declared column present, lookup tables reachable. The row
// count doubles as a smoke test that the table is actually queryable.
func (r *Repo) CheckSchema(ctx context.Context, schema *dashboard.DataSourceSchema) (bool, []string, []string, *int64, error) {
	table := schema.Table()

	exists, err := r.tableExists(ctx, table)
	if err != nil {
		return false, nil, nil, nil, err
	}
	if !exists {
		return false, nil, nil, nil, nil
	}

	columns, err := r.tableColumns(ctx, table)
	if err != nil {
		return true, nil, nil, nil, err
	}

	var missingColumns []string
	for _, field := range schema.Fields {
		if !columns[field.DBColumn] {
			missingColumns = append(missingColumns, field.DBColumn)
		}
	}

	var missingRefTables []string
	checkedRefs := make(map[string]bool)
	for _, field := range schema.Fields {
		if field.RefTable == "" || checkedRefs[field.RefTable] {
			continue
		}
		checkedRefs[field.RefTable] = true

		refExists, err := r.tableExists(ctx, field.RefTable)
		if err != nil {
			return true, missingColumns, nil, nil, err
		}
		if !refExists {
			missingRefTables = append(missingRefTables, field.RefTable)
		}
	}

	var rowCount *int64
	if len(missingColumns) == 0 {
		var count int64
		if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return true, missingColumns, missingRefTables, nil, fmt.Errorf("count rows in %s: %w", table, err)
		}
		rowCount = &count
	}

	return true, missingColumns, missingRefTables, rowCount, nil
}

func (r *Repo) tableExists(ctx context.Context, table string) (bool, error) {
	var reg *string
	if err := r.pool.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&reg); err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return reg != nil, nil
}

func (r *Repo) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = $1", table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
