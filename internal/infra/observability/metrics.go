package observability

import (
	"time"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the dashboard API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	versionBumps    *prometheus.CounterVec
	onlineUsers     prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netigo_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netigo_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netigo_store_errors_total",
				Help: "Total errors from the ledger store.",
			},
			[]string{"op"},
		),
		versionBumps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netigo_version_bumps_total",
				Help: "Total change-counter bumps by mutation scope.",
			},
			[]string{"scope"},
		),
		onlineUsers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "netigo_online_users",
				Help: "Users currently marked online by the presence tracker.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

// IncrVersionBump increments the version bump counter for a scope.
func (m *Metrics) IncrVersionBump(scope string) {
	m.versionBumps.WithLabelValues(scope).Inc()
}

// SetOnlineUsers records the current presence count.
func (m *Metrics) SetOnlineUsers(n int) {
	m.onlineUsers.Set(float64(n))
}

// GetOpsSnapshot returns a snapshot of operational counters suitable for
// the GET /api/stats endpoint. It reads the registry directly so every
// label value is counted, whatever op or scope produced it.
func (m *Metrics) GetOpsSnapshot() *domain.OpsStats {
	families, err := m.Registry.Gather()
	if err != nil {
		return &domain.OpsStats{}
	}

	sums := make(map[string]float64, len(families))
	var errored float64
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				sums[mf.GetName()] += c.GetValue()
				if mf.GetName() == "netigo_requests_total" && labelValue(metric, "status") == "error" {
					errored += c.GetValue()
				}
			}
		}
	}

	total := sums["netigo_requests_total"]
	errorRate := float64(0)
	if total > 0 {
		errorRate = errored / total
	}

	return &domain.OpsStats{
		TotalRequests: int64(total),
		ErrorRate:     errorRate,
		StoreErrors:   int64(sums["netigo_store_errors_total"]),
		VersionBumps:  int64(sums["netigo_version_bumps_total"]),
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
