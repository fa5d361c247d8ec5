package domain

import "time"

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth is the outcome of one dependency check.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
	Error       string `json:"error,omitempty"`
}

// CheckResult records a check of name that finished at `at` after latency.
func CheckResult(name string, at time.Time, latency time.Duration, err error) ServiceHealth {
	s := ServiceHealth{
		Name:        name,
		Status:      StatusHealthy,
		LatencyMs:   latency.Milliseconds(),
		LastChecked: at.UTC().Format(time.RFC3339),
	}
	if err != nil {
		s.Status = StatusUnhealthy
		s.Error = err.Error()
	}
	return s
}

// NewHealthStatus is unhealthy as soon as one service is.
func NewHealthStatus(services ...ServiceHealth) HealthStatus {
	h := HealthStatus{Status: StatusHealthy, Services: services}
	if h.Services == nil {
		h.Services = []ServiceHealth{}
	}
	for _, s := range services {
		if s.Status != StatusHealthy {
			h.Status = StatusUnhealthy
			break
		}
	}
	return h
}

func (h HealthStatus) Healthy() bool { return h.Status == StatusHealthy }

// MetricsSummary is returned by GET /metrics/summary.
type MetricsSummary struct {
	RequestsTotal  int64            `json:"requestsTotal"`
	ErrorsTotal    int64            `json:"errorsTotal"`
	ErrorRate      float64          `json:"errorRate"`
	CacheHits      int64            `json:"cacheHits"`
	CacheMisses    int64            `json:"cacheMisses"`
	CacheHitRate   float64          `json:"cacheHitRate"`
	WritesByEntity map[string]int64 `json:"writesByEntity"`
}
