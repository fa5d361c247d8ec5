package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// Entities reported in the summary even before their first write.
var trackedEntities = []string{"person", "category", "transaction"}

// Metrics owns the service's Prometheus collectors.
type Metrics struct {
	// Registry backs GET /metrics. It is private to this instance so
	// several Metrics can coexist in one process.
	Registry *prometheus.Registry

	operations   *prometheus.HistogramVec
	httpLatency  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	writes       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		operations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expenses_operation_duration_seconds",
			Help:    "Duration of service operations.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expenses_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenses_http_requests_total",
			Help: "HTTP requests by status class (2xx, 4xx, 5xx...).",
		}, []string{"class"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenses_cache_lookups_total",
			Help: "Cache lookups by cache and result (hit or miss).",
		}, []string{"cache", "result"}),
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenses_writes_total",
			Help: "Successful writes by entity and operation.",
		}, []string{"entity", "op"}),
	}
}

// ObserveOperation records how long a service operation took.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	m.operations.WithLabelValues(operation).Observe(d.Seconds())
}

// CacheLookup counts one lookup in the named cache.
func (m *Metrics) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

// CountWrite counts a successful create, update or delete.
func (m *Metrics) CountWrite(entity, op string) {
	m.writes.WithLabelValues(entity, op).Inc()
}

// CountResponse counts a finished HTTP response by status class.
func (m *Metrics) CountResponse(status int) {
	m.httpRequests.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
}

// Middleware records latency per route pattern and counts responses.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpLatency.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		m.CountResponse(status)
	})
}

// Summary is the snapshot served by GET /metrics/summary. Only 5xx
// responses count as errors.
func (m *Metrics) Summary() *domain.MetricsSummary {
	total := sumCounters(m.httpRequests, nil)
	errs := sumCounters(m.httpRequests, func(l map[string]string) bool { return l["class"] == "5xx" })
	hits := sumCounters(m.cacheLookups, func(l map[string]string) bool { return l["result"] == "hit" })
	lookups := sumCounters(m.cacheLookups, nil)

	s := &domain.MetricsSummary{
		RequestsTotal:  int64(total),
		ErrorsTotal:    int64(errs),
		CacheHits:      int64(hits),
		CacheMisses:    int64(lookups - hits),
		WritesByEntity: make(map[string]int64, len(trackedEntities)),
	}
	if total > 0 {
		s.ErrorRate = errs / total
	}
	if lookups > 0 {
		s.CacheHitRate = hits / lookups
	}
	for _, entity := range trackedEntities {
		s.WritesByEntity[entity] = int64(sumCounters(m.writes, func(l map[string]string) bool { return l["entity"] == entity }))
	}
	return s
}

// sumCounters adds up the counter series of c whose labels satisfy keep
// (all series when keep is nil).
func sumCounters(c prometheus.Collector, keep func(labels map[string]string) bool) float64 {
	ch := make(chan prometheus.Metric)
	go func() {
		c.Collect(ch)
		close(ch)
	}()

	var total float64
	for metric := range ch {
		var pb dto.Metric
		if err := metric.Write(&pb); err != nil || pb.Counter == nil {
			continue
		}
		labels := make(map[string]string, len(pb.GetLabel()))
		for _, lp := range pb.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if keep == nil || keep(labels) {
			total += pb.GetCounter().GetValue()
		}
	}
	return total
}
