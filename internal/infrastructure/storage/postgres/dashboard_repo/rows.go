package dashboard_repo

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const dateLayout = "2006-01-02"

// resultRow adapts one pgx row, already detached from the connection, to
// the dashboard.Row reads. pgx decodes columns into driver types; the
// accessors below normalize them to the three value shapes the decoder
// needs.
type resultRow struct {
	values map[string]any
}

func (r resultRow) Text(column string) (string, bool) {
	switch v := r.values[column].(type) {
	case string:
		return v, true
	case time.Time:
		return v.Format(dateLayout), true
	case [16]byte:
		return uuid.UUID(v).String(), true
	default:
		return "", false
	}
}

func (r resultRow) Int(column string) (int64, bool) {
	switch v := r.values[column].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	default:
		return 0, false
	}
}

func (r resultRow) Float(column string) (float64, bool) {
	switch v := r.values[column].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return 0, false
		}
		return f.Float64, true
	default:
		return 0, false
	}
}
