package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AllocationMetrics records outcomes of bundle draws and price quotes.
type AllocationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	quotes   *prometheus.CounterVec
}

// NewAllocationMetrics registers the allocation metrics on the provided registerer.
func NewAllocationMetrics(reg prometheus.Registerer) *AllocationMetrics {
	if reg == nil {
		return &AllocationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocation_duration_seconds",
		Help:    "Duration of allocation transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pack"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_success",
		Help: "Committed bundle allocations.",
	}, []string{"pack"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_failure",
		Help: "Failed bundle allocations by error code.",
	}, []string{"pack", "code"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_quotes_total",
		Help: "Price quotes served.",
	}, []string{"pack"})
	reg.MustRegister(duration, success, failure, quotes)
	return &AllocationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		quotes:   quotes,
	}
}

// ObserveDuration records how long an allocation transaction ran.
func (m *AllocationMetrics) ObserveDuration(pack string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(pack)).Observe(duration.Seconds())
}

// IncSuccess increments the committed-allocation counter.
func (m *AllocationMetrics) IncSuccess(pack string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(pack)).Inc()
}

// IncFailure increments the failed-allocation counter.
func (m *AllocationMetrics) IncFailure(pack, code string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(pack), normalizeLabel(code)).Inc()
}

// IncQuote increments the served-quote counter.
func (m *AllocationMetrics) IncQuote(pack string) {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.WithLabelValues(normalizeLabel(pack)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
