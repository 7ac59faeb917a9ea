package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	calcDuration     *prometheus.HistogramVec
	bayUtilization   *prometheus.GaugeVec
	laneReassigned   *prometheus.CounterVec
	scheduleCommands *prometheus.CounterVec
	snapshotVersion  prometheus.Gauge
	memoLookups      *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer uses
// prometheus.DefaultRegisterer and an empty namespace defaults to "bayplan".
// Metrics are registered on first use.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "bayplan"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.calcDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "calculation_duration_seconds",
			Help:      "Duration of engine calculations by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}, []string{"operation"})

		p.bayUtilization = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "bay",
			Name:      "utilization_percent",
			Help:      "Utilization of the current week by bay, unclamped.",
		}, []string{"bay"})

		p.laneReassigned = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "lanes",
			Name:      "reassignments_total",
			Help:      "Total schedules moved to a different lane by bay.",
		}, []string{"bay"})

		p.scheduleCommands = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "schedule",
			Name:      "commands_total",
			Help:      "Total schedule commands by kind (create,update,delete,rebalance) and result.",
		}, []string{"kind", "result"})

		p.snapshotVersion = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "snapshot",
			Name:      "version",
			Help:      "Version of the most recently loaded snapshot.",
		})

		p.memoLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dashboard",
			Name:      "memo_lookups_total",
			Help:      "Dashboard memo lookups by result (hit,miss).",
		}, []string{"result"})

		p.reg.MustRegister(p.calcDuration)
		p.reg.MustRegister(p.bayUtilization)
		p.reg.MustRegister(p.laneReassigned)
		p.reg.MustRegister(p.scheduleCommands)
		p.reg.MustRegister(p.snapshotVersion)
		p.reg.MustRegister(p.memoLookups)
	})
}

// ObserveCalculation observes a calculation duration in seconds.
func (p *PrometheusCollector) ObserveCalculation(operation string, seconds float64) {
	p.ensureRegistered()
	p.calcDuration.WithLabelValues(operation).Observe(seconds)
}

// SetBayUtilization sets the utilization gauge of a bay.
func (p *PrometheusCollector) SetBayUtilization(bayID string, percent float64) {
	p.ensureRegistered()
	p.bayUtilization.WithLabelValues(bayID).Set(percent)
}

// IncrementLaneReassignment increments the lane reassignment counter of a bay.
func (p *PrometheusCollector) IncrementLaneReassignment(bayID string) {
	p.ensureRegistered()
	p.laneReassigned.WithLabelValues(bayID).Inc()
}

// IncrementScheduleCommand increments the schedule command counter.
func (p *PrometheusCollector) IncrementScheduleCommand(kind, result string) {
	p.ensureRegistered()
	p.scheduleCommands.WithLabelValues(kind, result).Inc()
}

// SetSnapshotVersion sets the snapshot version gauge.
func (p *PrometheusCollector) SetSnapshotVersion(version uint64) {
	p.ensureRegistered()
	p.snapshotVersion.Set(float64(version))
}

// IncrementMemoLookup increments the memo lookup counter.
func (p *PrometheusCollector) IncrementMemoLookup(result string) {
	p.ensureRegistered()
	p.memoLookups.WithLabelValues(result).Inc()
}
