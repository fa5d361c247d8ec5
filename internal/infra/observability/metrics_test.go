package observability_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/expense-control-go/internal/infra/observability"
)

func TestMetricsSummary(t *testing.T) {
	m := observability.NewMetrics()
	for _, status := range []int{200, 201, 404, 500} {
		m.CountResponse(status)
	}
	m.CacheLookup("report", true)
	m.CacheLookup("report", false)
	m.CountWrite("person", "created")
	m.CountWrite("person", "deleted")
	m.CountWrite("transaction", "updated")

	s := m.Summary()
	assert.Equal(t, int64(4), s.RequestsTotal)
	assert.Equal(t, int64(1), s.ErrorsTotal)
	assert.InDelta(t, 0.25, s.ErrorRate, 1e-9)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(1), s.CacheMisses)
	assert.InDelta(t, 0.5, s.CacheHitRate, 1e-9)
	assert.Equal(t, map[string]int64{"person": 2, "category": 0, "transaction": 1}, s.WritesByEntity)
}

func TestMetricsSummary_Empty(t *testing.T) {
	s := observability.NewMetrics().Summary()
	assert.Zero(t, s.RequestsTotal)
	assert.Zero(t, s.ErrorRate)
	assert.Zero(t, s.CacheHitRate)
	assert.Len(t, s.WritesByEntity, 3)
}

func TestMetricsMiddleware_CountsErrors(t *testing.T) {
	m := observability.NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/fail", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/fail", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	s := m.Summary()
	assert.Equal(t, int64(3), s.RequestsTotal)
	assert.Equal(t, int64(1), s.ErrorsTotal)
}

func TestMetricsRegistry_Exposition(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveOperation("person.create", 3*time.Millisecond)
	m.CacheLookup("report", true)

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `expenses_operation_duration_seconds_count{operation="person.create"} 1`), body)
	assert.True(t, strings.Contains(body, `expenses_cache_lookups_total{cache="report",result="hit"} 1`), body)
}
