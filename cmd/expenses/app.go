package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/config"
	"github.com/boddenberg/expense-control-go/internal/handler"
	"github.com/boddenberg/expense-control-go/internal/infra/cache"
	"github.com/boddenberg/expense-control-go/internal/infra/events"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/infra/sqlstore"
	"github.com/boddenberg/expense-control-go/internal/port"
	"github.com/boddenberg/expense-control-go/internal/service"
)

// app is the wired object graph shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	store    *sqlstore.Store
	services handler.Services

	closers []func() error
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	logger, err := observability.NewLogger(cfg.LogLevel, "expenses-api")
	if err != nil {
		return nil, zap.NewNop(), fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, logger, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger, nil
}

// migrate applies pending migrations for the configured database.
func migrate(cfg *config.Config, logger *zap.Logger) error {
	version, err := sqlstore.RunMigrations(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	logger.Info("database schema up to date",
		zap.String("driver", cfg.DBDriver),
		zap.Uint("version", version),
	)
	return nil
}

// newApp migrates the database, opens the store and wires the services.
// When withEvents is set and AMQP_URL is configured, writes are published.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, withEvents bool) (*app, error) {
	if err := migrate(cfg, logger); err != nil {
		return nil, err
	}

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:         cfg.DBDriver,
		DSN:            cfg.DSN(),
		MaxConcurrency: cfg.DBMaxConcurrency,
		ConnectRetries: cfg.DBConnectRetries,
		ConnectBackoff: cfg.DBConnectBackoff,
	}, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: observability.NewMetrics(), store: store}
	a.closers = append(a.closers, store.Close)

	reportCache := cache.New[any](cfg.CacheTTL)
	a.closers = append(a.closers, func() error { reportCache.Close(); return nil })

	var publisher port.EventPublisher
	if withEvents && cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = p
		a.closers = append(a.closers, p.Close)
	}

	notifier := service.NewChangeNotifier(reportCache, publisher, a.metrics, logger)
	a.services = handler.Services{
		People:       service.NewPersonService(store, notifier, a.metrics, logger),
		Categories:   service.NewCategoryService(store, notifier, a.metrics, logger),
		Transactions: service.NewTransactionService(store, store, store, notifier, a.metrics, logger),
		Reports:      service.NewReportService(store, reportCache, a.metrics, logger),
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
