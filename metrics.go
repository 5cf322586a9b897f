package eventstream

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Suppression reasons recorded by Metrics.
const (
	reasonThrottle = "throttle"
	reasonBetween  = "between"
)

// Metrics holds the Prometheus collectors a Manager updates. A nil *Metrics
// records nothing.
type Metrics struct {
	RawEvents        *prometheus.CounterVec
	SceneEvents      *prometheus.CounterVec
	Invocations      *prometheus.CounterVec
	HandlerErrors    *prometheus.CounterVec
	Consumed         *prometheus.CounterVec
	Suppressed       *prometheus.CounterVec
	DispatchDuration prometheus.Histogram
}

// NewMetrics creates the collectors under namespace. Call Register to expose
// them.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RawEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "raw_total",
				Help:      "Total number of raw input events delivered",
			},
			[]string{"type"},
		),

		SceneEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "scene_total",
				Help:      "Total number of scene events translated from raw events",
			},
			[]string{"type"},
		),

		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "streams",
				Name:      "invocations_total",
				Help:      "Total number of handler invocations",
			},
			[]string{"stream"},
		),

		HandlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "streams",
				Name:      "errors_total",
				Help:      "Total number of errors returned by handlers",
			},
			[]string{"stream"},
		),

		Consumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "streams",
				Name:      "consumed_total",
				Help:      "Total number of scene events consumed by a stream",
			},
			[]string{"stream"},
		),

		Suppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "streams",
				Name:      "suppressed_total",
				Help:      "Total number of matching events withheld from a stream (reason=throttle|between)",
			},
			[]string{"stream", "reason"},
		),

		DispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Time spent translating and dispatching one raw event",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
		),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var errs []error
	for _, c := range []prometheus.Collector{
		m.RawEvents, m.SceneEvents, m.Invocations, m.HandlerErrors,
		m.Consumed, m.Suppressed, m.DispatchDuration,
	} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Metrics) recordRaw(t RawEventType) {
	if m != nil {
		m.RawEvents.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) recordScene(t EventType) {
	if m != nil {
		m.SceneEvents.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) recordInvocation(stream string, err error) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(stream).Inc()
	if err != nil {
		m.HandlerErrors.WithLabelValues(stream).Inc()
	}
}

func (m *Metrics) recordConsumed(stream string) {
	if m != nil {
		m.Consumed.WithLabelValues(stream).Inc()
	}
}

func (m *Metrics) recordSuppressed(stream, reason string) {
	if m != nil {
		m.Suppressed.WithLabelValues(stream, reason).Inc()
	}
}

func (m *Metrics) recordDuration(d time.Duration) {
	if m != nil {
		m.DispatchDuration.Observe(d.Seconds())
	}
}
