package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
)

// ============================================================
// Operational endpoints
// ============================================================

// healthzHandler pings the database and answers 503 while it is unhealthy.
func healthzHandler(db port.HealthChecker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		services := []domain.ServiceHealth{domain.CheckResult("expenses-api", now, 0, nil)}

		if db != nil {
			start := time.Now()
			err := db.Ping(r.Context())
			if err != nil {
				logger.Warn("health check failed", zap.String("dependency", "database"), zap.Error(err))
			}
			services = append(services, domain.CheckResult("database", start, time.Since(start), err))
		}

		health := domain.NewHealthStatus(services...)
		status := http.StatusOK
		if !health.Healthy() {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, health)
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Summary())
	}
}
