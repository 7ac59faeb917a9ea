package metrics

// NopMetrics discards all measurements
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op collector
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ObserveCalculation discards the measurement.
func (n *NopMetrics) ObserveCalculation(_ string, _ float64) {}

// SetBayUtilization discards the measurement.
func (n *NopMetrics) SetBayUtilization(_ string, _ float64) {}

// IncrementLaneReassignment discards the measurement.
func (n *NopMetrics) IncrementLaneReassignment(_ string) {}

// IncrementScheduleCommand discards the measurement.
func (n *NopMetrics) IncrementScheduleCommand(_, _ string) {}

// SetSnapshotVersion discards the measurement.
func (n *NopMetrics) SetSnapshotVersion(_ uint64) {}

// IncrementMemoLookup discards the measurement.
func (n *NopMetrics) IncrementMemoLookup(_ string) {}
