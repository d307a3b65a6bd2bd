package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	qb "github.com/riskibarqy/mlbb-analytics/internal/platform/querybuilder"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt64(value int64) sql.NullInt64 {
	return sql.NullInt64{Int64: value, Valid: value != 0}
}

func nullBool(value *bool) sql.NullBool {
	if value == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *value, Valid: true}
}

func nullInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

// anyOf renders "column = ANY($n)", or nothing for an empty list.
func anyOf(column string, values []string) []qb.Condition {
	if len(values) == 0 {
		return nil
	}
	return []qb.Condition{qb.Any(column, pq.Array(values))}
}
