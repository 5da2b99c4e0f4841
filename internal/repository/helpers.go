package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
)

// parseNullableTime parses a nullable RFC3339 column. Returns the zero time
// when the value is NULL, empty or malformed.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableTime stores the zero time as SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// scanIDSet drains single-column rows into a set and closes them.
func scanIDSet(rows *sql.Rows) (domain.IDSet, error) {
	defer rows.Close()
	set := domain.NewIDSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		set.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return set, nil
}
