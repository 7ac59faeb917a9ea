package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/infrastructure/metrics"
	testhelpers "github.com/vsinha/bayplan/pkg/infrastructure/testing"
)

type recordingCollector struct {
	metrics.NopMetrics
	mu           sync.Mutex
	memo         map[string]int
	operations   map[string]int
	utilization  map[string]float64
	lastSnapshot uint64
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		memo:        make(map[string]int),
		operations:  make(map[string]int),
		utilization: make(map[string]float64),
	}
}

func (c *recordingCollector) IncrementMemoLookup(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memo[result]++
}

func (c *recordingCollector) ObserveCalculation(operation string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operations[operation]++
}

func (c *recordingCollector) SetBayUtilization(bayID string, percent float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.utilization[bayID] = percent
}

func (c *recordingCollector) SetSnapshotVersion(version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSnapshot = version
}

func newOrchestrator(scenario *testhelpers.Scenario, collector metrics.Collector) *DashboardOrchestrator {
	options := DefaultOptions()
	options.ExcludedTeams = []string{"library"}
	return NewDashboardOrchestrator(scenario.Source(), options, collector, nil)
}

func TestDashboardOrchestrator_Build(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	collector := newRecordingCollector()
	orchestrator := newOrchestrator(scenario, collector)

	result, err := orchestrator.Build(context.Background(), dto.DashboardParams{
		Now:              testhelpers.Date(2025, 1, 8),
		UtilizationWeeks: 4,
	})
	require.NoError(t, err)

	require.Equal(t, testhelpers.Date(2025, 1, 8), result.Params.Now)
	require.Equal(t, 6, result.Params.HorizonMonths, "unset params use the defaults")
	require.Equal(t, 12, result.Params.CapacityWeeks)

	// Excluded teams drop out of utilization and forecasts, but keep their lanes
	require.Len(t, result.Utilization, 8)
	for _, u := range result.Utilization {
		require.NotEqual(t, entities.BayID("LIB"), u.BayID)
	}
	require.Len(t, result.Availability, 2)
	require.Len(t, result.Lanes, 3)
	require.Len(t, result.Forecast, 6)
	require.Len(t, result.Capacity, 12)

	first := result.Utilization[0]
	require.Equal(t, entities.BayID("BAY_A"), first.BayID)
	require.Equal(t, testhelpers.Date(2025, 1, 6), first.WeekStart)
	require.True(t, first.UtilizationPercentage.Equal(decimal.RequireFromString("87.5")),
		"got %s", first.UtilizationPercentage)

	bayA := result.Lanes[0]
	require.Equal(t, entities.BayID("BAY_A"), bayA.BayID)
	require.Equal(t, 2, bayA.LaneCount)
	require.Equal(t, 2, bayA.PeakConcurrency)
	require.Empty(t, result.Conflicts)

	require.Equal(t, 2, result.Variance.ComparedProjects)
	require.NotEmpty(t, result.OvercommittedWeeks(), "P200 and P300 overlap in BAY_A")
	require.Contains(t, result.GetSummary(), "snapshot v")

	require.InDelta(t, 87.5, collector.utilization["BAY_A"], 1e-9)
	require.NotContains(t, collector.utilization, "LIB")
	for _, op := range []string{"weekly_utilization", "lanes", "future_utilization", "next_available", "capacity_forecast", "variance"} {
		require.Equal(t, 1, collector.operations[op], op)
	}
}

func TestDashboardOrchestrator_Memoization(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	collector := newRecordingCollector()
	orchestrator := newOrchestrator(scenario, collector)
	ctx := context.Background()
	params := dto.DashboardParams{Now: testhelpers.Date(2025, 1, 8)}

	first, err := orchestrator.Build(ctx, params)
	require.NoError(t, err)
	second, err := orchestrator.Build(ctx, params)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, collector.memo[metrics.MemoHit])
	require.Equal(t, 1, collector.memo[metrics.MemoMiss])

	// Different parameters are memoized separately
	other, err := orchestrator.Build(ctx, dto.DashboardParams{Now: testhelpers.Date(2025, 1, 8), HorizonMonths: 3})
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, orchestrator.MemoSize())

	// A schedule change advances the snapshot version and drops older entries
	moved := &entities.ManufacturingSchedule{
		ID:        "S9",
		ProjectID: "P300",
		BayID:     "BAY_B",
		StartDate: testhelpers.Date(2025, 2, 1),
		EndDate:   testhelpers.Date(2025, 2, 10),
		Row:       1,
	}
	require.NoError(t, scenario.Schedules.CreateSchedule(ctx, moved))

	third, err := orchestrator.Build(ctx, params)
	require.NoError(t, err)
	require.NotSame(t, first, third)
	require.Greater(t, third.SnapshotVersion, first.SnapshotVersion)
	require.Equal(t, third.SnapshotVersion, collector.lastSnapshot)
	require.Equal(t, 1, orchestrator.MemoSize())

	orchestrator.Invalidate()
	require.Equal(t, 0, orchestrator.MemoSize())
}

func TestDashboardOrchestrator_DefaultsToToday(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	orchestrator := newOrchestrator(scenario, nil)
	orchestrator.now = func() time.Time {
		return time.Date(2025, 2, 3, 15, 30, 0, 0, time.UTC)
	}

	result, err := orchestrator.Build(context.Background(), dto.DashboardParams{HorizonMonths: 99})
	require.NoError(t, err)
	require.Equal(t, testhelpers.Date(2025, 2, 3), result.Params.Now)
	require.Equal(t, 24, result.Params.HorizonMonths)
	require.Len(t, result.Forecast, 24)
}

func TestDashboardOrchestrator_CancelledContext(t *testing.T) {
	orchestrator := newOrchestrator(testhelpers.BuildBayScenario(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.Build(ctx, dto.DashboardParams{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, orchestrator.MemoSize())
}
