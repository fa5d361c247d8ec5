package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
	"github.com/boddenberg/expense-control-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Services groups the application services the router dispatches to.
type Services struct {
	People       *service.PersonService
	Categories   *service.CategoryService
	Transactions *service.TransactionService
	Reports      *service.ReportService
}

// Options tunes the optional parts of the router.
type Options struct {
	// JWTSecret enables Bearer authentication on the resource routes when set.
	JWTSecret string
	// CORSAllowedOrigins defaults to "*".
	CORSAllowedOrigins []string
	// RequestTimeout bounds each request when positive.
	RequestTimeout time.Duration
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, health port.HealthChecker, metrics *observability.Metrics, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(health, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/metrics/summary", metricsSummaryHandler(metrics))

	// --- API ---
	r.Group(func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(JWTAuthMiddleware([]byte(opts.JWTSecret), logger))
		}

		// =============================================
		// People
		// =============================================
		r.Route("/person", func(r chi.Router) {
			r.Post("/", createPersonHandler(svc.People, logger))
			r.Get("/", listPeopleHandler(svc.People, logger))
			r.Get("/{id}", getPersonHandler(svc.People, logger))
			r.Put("/{id}", updatePersonHandler(svc.People, logger))
			r.Delete("/{id}", deletePersonHandler(svc.People, logger))
		})

		// =============================================
		// Categories
		// =============================================
		r.Route("/category", func(r chi.Router) {
			r.Post("/", createCategoryHandler(svc.Categories, logger))
			r.Get("/", listCategoriesHandler(svc.Categories, logger))
			r.Get("/{id}", getCategoryHandler(svc.Categories, logger))
			r.Put("/{id}", updateCategoryHandler(svc.Categories, logger))
			r.Delete("/{id}", deleteCategoryHandler(svc.Categories, logger))
		})

		// =============================================
		// Transactions & reports
		// Static report paths are matched before /{id}.
		// =============================================
		r.Route("/transaction", func(r chi.Router) {
			r.Get("/report-by-person", reportByPersonHandler(svc.Reports, logger))
			r.Get("/report-by-category", reportByCategoryHandler(svc.Reports, logger))

			r.Post("/", createTransactionHandler(svc.Transactions, logger))
			r.Get("/", listTransactionsHandler(svc.Transactions, logger))
			r.Get("/{id}", getTransactionHandler(svc.Transactions, logger))
			r.Put("/{id}", updateTransactionHandler(svc.Transactions, logger))
			r.Delete("/{id}", deleteTransactionHandler(svc.Transactions, logger))
		})
	})

	return r
}
