// Package sqlstore persists people, categories and transactions in a
// relational database (SQLite by default, PostgreSQL optionally) and computes
// the per-person and per-category reports in SQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/resilience"
)

var tracer = otel.Tracer("sqlstore")

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts "sqlite" or "postgres".
func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(driver)); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// dsn enables foreign keys on every SQLite connection; they are off by
// default there.
func (d Dialect) dsn(dsn string) string {
	if d == DialectPostgres {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Options configures Open.
type Options struct {
	Driver         string
	DSN            string
	MaxConcurrency int
	ConnectRetries int
	ConnectBackoff time.Duration
}

// Store implements the person, category, transaction and report ports.
type Store struct {
	db      *sql.DB
	dialect Dialect
	guard   *resilience.Guard
	logger  *zap.Logger
}

// Open connects to the database and waits until it answers a ping.
// Migrations are not applied; see RunMigrations.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, err
	}

	if err := ensureDir(dialect, opts.DSN); err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driverName(), dialect.dsn(opts.DSN))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1) // SQLite serialises writers anyway
	}

	retry := resilience.RetryPolicy{
		Attempts:   opts.ConnectRetries + 1,
		Backoff:    opts.ConnectBackoff,
		MaxBackoff: 30 * time.Second,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			logger.Warn("sqlstore: database not reachable",
				zap.String("driver", string(dialect)),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", wait),
				zap.Error(err),
			)
		},
	}
	err = resilience.Retry(ctx, retry, db.PingContext)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	logger.Info("sqlstore: connected", zap.String("driver", string(dialect)))
	return &Store{
		db:      db,
		dialect: dialect,
		guard:   resilience.NewGuard("database", opts.MaxConcurrency, breakerPolicy(logger)),
		logger:  logger,
	}, nil
}

func breakerPolicy(logger *zap.Logger) resilience.BreakerPolicy {
	return resilience.BreakerPolicy{
		Expected: isExpected,
		OnStateChange: func(name, from, to string) {
			logger.Warn("sqlstore: circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from),
				zap.String("to", to),
			)
		},
	}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks connectivity. It bypasses the circuit breaker so health
// checks observe the real database state.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Dialect returns the SQL flavour in use.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// run executes fn through the guard and converts an open breaker into
// *domain.ErrCircuitOpen.
func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.guard.Do(ctx, fn)
	if errors.Is(err, resilience.ErrUnavailable) {
		return &domain.ErrCircuitOpen{Service: "database"}
	}
	return err
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// exec runs a write and reports not-found when no row matched.
func (s *Store) exec(ctx context.Context, resource string, id fmt.Stringer, query string, args ...any) error {
	return s.run(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return &domain.ErrNotFound{Resource: resource, ID: id.String()}
		}
		return nil
	})
}

func unixMicro(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromUnixMicro(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// ensureDir creates the parent directory of a SQLite database file.
func ensureDir(d Dialect, dsn string) error {
	if d != DialectSQLite {
		return nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}
	}
	return nil
}
