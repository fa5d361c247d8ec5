package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
)

var reportTracer = otel.Tracer("service/report")

// ReportService serves the aggregated reports, cached until the next write.
// A report computed concurrently with a write is returned but not cached.
type ReportService struct {
	query   port.ReportQuery
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewReportService(query port.ReportQuery, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	return &ReportService{query: query, cache: cache, metrics: metrics, logger: logger}
}

// ByPerson returns income, expense and balance for every person plus the
// grand totals.
func (s *ReportService) ByPerson(ctx context.Context) (*domain.PersonReportResponse, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ByPerson")
	defer span.End()
	defer observe(s.metrics, "report.person", time.Now())

	if cached, ok := s.cache.Get(reportByPersonKey); ok {
		if r, ok := cached.(domain.PersonReport); ok {
			s.metrics.CacheLookup("report", true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			resp := domain.NewPersonReportResponse(r)
			return &resp, nil
		}
	}
	s.metrics.CacheLookup("report", false)

	gen := s.cache.Generation()
	rows, err := s.query.TotalsByPerson(ctx)
	if err != nil {
		s.logger.Error("failed to compute person report", zap.Error(err))
		return nil, err
	}
	report := domain.NewPersonReport(rows)
	s.store(reportByPersonKey, report, gen)

	resp := domain.NewPersonReportResponse(report)
	return &resp, nil
}

// ByCategory returns income, expense and balance for every category plus
// the grand totals.
func (s *ReportService) ByCategory(ctx context.Context) (*domain.CategoryReportResponse, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ByCategory")
	defer span.End()
	defer observe(s.metrics, "report.category", time.Now())

	if cached, ok := s.cache.Get(reportByCategoryKey); ok {
		if r, ok := cached.(domain.CategoryReport); ok {
			s.metrics.CacheLookup("report", true)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			resp := domain.NewCategoryReportResponse(r)
			return &resp, nil
		}
	}
	s.metrics.CacheLookup("report", false)

	gen := s.cache.Generation()
	rows, err := s.query.TotalsByCategory(ctx)
	if err != nil {
		s.logger.Error("failed to compute category report", zap.Error(err))
		return nil, err
	}
	report := domain.NewCategoryReport(rows)
	s.store(reportByCategoryKey, report, gen)

	resp := domain.NewCategoryReportResponse(report)
	return &resp, nil
}

// store caches report unless a write invalidated the cache while it was
// being computed.
func (s *ReportService) store(key string, report any, gen uint64) {
	if !s.cache.SetIfGeneration(key, report, gen) {
		s.logger.Debug("report changed while computing, not cached", zap.String("key", key))
	}
}
