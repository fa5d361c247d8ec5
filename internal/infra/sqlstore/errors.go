package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

const pgForeignKeyViolation = "23503"

// isForeignKeyViolation recognises FK failures from both drivers.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}

// isExpected reports errors that say nothing about database health and so
// must not trip the circuit breaker. Context errors come from the caller
// (client gone or HTTP_TIMEOUT reached), not from the database.
func isExpected(err error) bool {
	var (
		notFound *domain.ErrNotFound
		business *domain.ErrBusinessRule
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &business) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrNoRows) ||
		isForeignKeyViolation(err)
}
