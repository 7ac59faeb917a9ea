// Package metrics defines the instrumentation surface of the scheduling engine
// with a no-op and a Prometheus implementation.
package metrics

// Collector receives engine measurements. Implementations must be safe for
// concurrent use.
type Collector interface {
	// ObserveCalculation records how long one engine operation took
	ObserveCalculation(operation string, seconds float64)
	// SetBayUtilization publishes the latest weekly utilization of a bay
	SetBayUtilization(bayID string, percent float64)
	// IncrementLaneReassignment counts schedules moved to a different lane
	IncrementLaneReassignment(bayID string)
	// IncrementScheduleCommand counts schedule commands by kind and result
	IncrementScheduleCommand(kind, result string)
	// SetSnapshotVersion publishes the version of the current snapshot
	SetSnapshotVersion(version uint64)
	// IncrementMemoLookup counts dashboard memo lookups by result (hit, miss)
	IncrementMemoLookup(result string)
}

// Command results used with IncrementScheduleCommand
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Memo lookup results used with IncrementMemoLookup
const (
	MemoHit  = "hit"
	MemoMiss = "miss"
)
