// Package dashboard_repo provides the PostgreSQL backend of the reporting
// engine: query execution, distinct value lookups, schema verification and
// saved configuration storage.
package dashboard_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"marketops/internal/domain/dashboard"
	"marketops/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("marketops/dashboard")

// Repo implements dashboard.Repository on a PostgreSQL pool.
type Repo struct {
	pool    *postgres.Pool
	builder squirrel.StatementBuilderType
}

// NewRepo creates a new dashboard repository.
func NewRepo(pool *postgres.Pool) *Repo {
	return &Repo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Query runs generated report SQL. The ? placeholders are rebound to the
// PostgreSQL $N format before execution; all rows are read up front since
// report result sets are bounded by their aggregation.
func (r *Repo) Query(ctx context.Context, sqlText string, params []dashboard.QueryParam) ([]dashboard.Row, error) {
	ctx, span := tracer.Start(ctx, "dashboard.query",
		trace.WithAttributes(
			attribute.Int("db.param_count", len(params)),
		))
	defer span.End()

	rebound, err := squirrel.Dollar.ReplacePlaceholders(sqlText)
	if err != nil {
		return nil, fmt.Errorf("rebind placeholders: %w", err)
	}

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value()
	}

	rows, err := r.pool.Query(ctx, rebound, args...)
	if err != nil {
		return nil, fmt.Errorf("run report query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var result []dashboard.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read report row: %w", err)
		}
		row := resultRow{values: make(map[string]any, len(columns))}
		for i, col := range columns {
			row.values[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.row_count", len(result)))
	return result, nil
}
