package dashboard_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"marketops/internal/domain/dashboard"
)

const defaultRefDisplayColumn = "description"

type distinctRow struct {
	Value   *string `db:"value"`
	Display *string `db:"display"`
}

// DistinctValues lists stored values of a field. Reference fields join
// their lookup table so the raw key comes back together with its display
// name; plain fields return the value twice.
func (r *Repo) DistinctValues(ctx context.Context, schema *dashboard.DataSourceSchema, field *dashboard.FieldDef, limit uint64) ([]dashboard.DistinctValue, error) {
	mainTable := schema.ID
	from := schema.Table()
	if from != mainTable {
		from = from + " AS " + mainTable
	}

	valueCol := fmt.Sprintf("%s.%s", mainTable, field.DBColumn)

	qb := r.builder.Select().Distinct().From(from)
	if field.RefTable != "" {
		displayName := field.RefDisplayColumn
		if displayName == "" {
			displayName = defaultRefDisplayColumn
		}
		displayCol := fmt.Sprintf("%s.%s", field.RefTable, displayName)

		qb = qb.
			Columns(valueCol+"::text AS value", displayCol+" AS display").
			LeftJoin(fmt.Sprintf("%s ON %s = %s.id", field.RefTable, valueCol, field.RefTable)).
			Where(valueCol + " IS NOT NULL").
			OrderBy(displayCol)
	} else {
		qb = qb.
			Columns(valueCol+"::text AS value", valueCol+"::text AS display").
			Where(valueCol + " IS NOT NULL").
			OrderBy(valueCol)
	}
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	sqlText, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct query: %w", err)
	}

	var rows []distinctRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sqlText, args...); err != nil {
		return nil, fmt.Errorf("select distinct values: %w", err)
	}

	values := make([]dashboard.DistinctValue, 0, len(rows))
	for _, row := range rows {
		if row.Value == nil {
			continue
		}
		display := *row.Value
		if row.Display != nil {
			display = *row.Display
		}
		values = append(values, dashboard.DistinctValue{Value: *row.Value, Display: display})
	}
	return values, nil
}
