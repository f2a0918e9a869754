package db

import (
	"database/sql"
	"time"
)

// Execer is satisfied by both *sql.DB and *sql.Tx so repositories can
// run the same statement inside or outside a transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// TimeOrNil converts an optional timestamp for INSERT/UPDATE args.
func TimeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
