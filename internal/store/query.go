package store

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

const generationColumns = `id, user_id, platform, language, product_name, features,
	title, short_description, bullets_json, created_at`

// HistoryQuery defines optional filters for history listings.
type HistoryQuery struct {
	UserID   *string
	Platform *string
	Since    *time.Time
	Limit    int // default 10, max 100
	Offset   int
}

// dialect captures the SQL differences between the supported databases.
type dialect struct {
	placeholder func(n int) string
	timeArg     func(t time.Time) any
}

var (
	postgresDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		timeArg:     func(t time.Time) any { return t.UTC() },
	}
	sqliteDialect = dialect{
		placeholder: func(n int) string { return fmt.Sprintf("?%d", n) },
		timeArg:     func(t time.Time) any { return t.UnixMilli() },
	}
)

// NormalizeLimit clamps a requested page size to [1, 100], defaulting to 10.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// ToSQL builds the data and count queries for a history listing, newest
// first, with positional parameters for the given dialect.
func (q *HistoryQuery) ToSQL(d dialect) (dataSQL, countSQL string, args []any) {
	if q == nil {
		q = &HistoryQuery{}
	}

	var conditions []string
	paramIdx := 1

	if q.UserID != nil {
		conditions = append(conditions, "user_id = "+d.placeholder(paramIdx))
		args = append(args, *q.UserID)
		paramIdx++
	}

	if q.Platform != nil {
		conditions = append(conditions, "platform = "+d.placeholder(paramIdx))
		args = append(args, strings.ToLower(*q.Platform))
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, "created_at >= "+d.placeholder(paramIdx))
		args = append(args, d.timeArg(*q.Since))
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	dataSQL = fmt.Sprintf(
		"SELECT %s FROM generations%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d",
		generationColumns, whereClause, NormalizeLimit(q.Limit), max(q.Offset, 0),
	)
	countSQL = "SELECT COUNT(*) FROM generations" + whereClause

	return dataSQL, countSQL, args
}
