package orchestration

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
	"github.com/zeebo/xxh3"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/application/services/forecast"
	"github.com/vsinha/bayplan/pkg/application/services/shared"
	"github.com/vsinha/bayplan/pkg/application/services/utilization"
	"github.com/vsinha/bayplan/pkg/application/services/variance"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
	"github.com/vsinha/bayplan/pkg/domain/services"
	"github.com/vsinha/bayplan/pkg/infrastructure/logging"
	"github.com/vsinha/bayplan/pkg/infrastructure/metrics"
)

// Options configures a DashboardOrchestrator
type Options struct {
	ExcludedTeams           []string
	WeeklyAllowanceHours    decimal.Decimal
	DefaultUtilizationWeeks int
	DefaultHorizonMonths    int
	DefaultCapacityWeeks    int
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		WeeklyAllowanceHours:    decimal.NewFromInt(forecast.DefaultWeeklyAllowanceHours),
		DefaultUtilizationWeeks: 8,
		DefaultHorizonMonths:    6,
		DefaultCapacityWeeks:    12,
	}
}

// DashboardOrchestrator runs every engine over one snapshot and memoizes the
// result per snapshot version and parameters
type DashboardOrchestrator struct {
	source     repositories.SnapshotRepository
	calculator *utilization.WeeklyUtilizationCalculator
	forecaster *forecast.CapacityForecaster
	lanes      *services.LaneAssigner
	tracker    *variance.VarianceTracker
	filter     *shared.BayFilter
	options    Options
	metrics    metrics.Collector
	logger     *logging.Logger
	now        func() time.Time

	memo        *xsync.Map[uint64, *dto.DashboardResult]
	memoMu      sync.Mutex
	memoVersion uint64
}

// NewDashboardOrchestrator creates a new dashboard orchestrator
func NewDashboardOrchestrator(
	source repositories.SnapshotRepository,
	options Options,
	collector metrics.Collector,
	logger *logging.Logger,
) *DashboardOrchestrator {
	defaults := DefaultOptions()
	if options.DefaultUtilizationWeeks <= 0 {
		options.DefaultUtilizationWeeks = defaults.DefaultUtilizationWeeks
	}
	if options.DefaultHorizonMonths <= 0 {
		options.DefaultHorizonMonths = defaults.DefaultHorizonMonths
	}
	if options.DefaultCapacityWeeks <= 0 {
		options.DefaultCapacityWeeks = defaults.DefaultCapacityWeeks
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	calculator := utilization.NewWeeklyUtilizationCalculator(services.NewPhaseAllocationResolver())
	return &DashboardOrchestrator{
		source:     source,
		calculator: calculator,
		forecaster: forecast.NewCapacityForecaster(calculator, options.WeeklyAllowanceHours),
		lanes:      services.NewLaneAssigner(),
		tracker:    variance.NewVarianceTracker(),
		filter:     shared.NewBayFilter(options.ExcludedTeams),
		options:    options,
		metrics:    collector,
		logger:     logger.WithComponent("dashboard"),
		now:        time.Now,
		memo:       xsync.NewMap[uint64, *dto.DashboardResult](),
	}
}

// Build returns the dashboard for the current snapshot. Identical parameters
// against an unchanged snapshot return the memoized result.
func (o *DashboardOrchestrator) Build(ctx context.Context, params dto.DashboardParams) (*dto.DashboardResult, error) {
	snapshot, err := o.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	o.metrics.SetSnapshotVersion(snapshot.Version)

	params = o.resolveParams(params)
	o.advanceMemo(snapshot.Version)

	key := memoKey(snapshot.Version, params)
	if cached, ok := o.memo.Load(key); ok {
		o.metrics.IncrementMemoLookup(metrics.MemoHit)
		return cached, nil
	}
	o.metrics.IncrementMemoLookup(metrics.MemoMiss)

	result, err := o.compute(ctx, snapshot, params)
	if err != nil {
		return nil, err
	}
	o.memo.Store(key, result)

	o.logger.Debug("dashboard built",
		"snapshot_version", snapshot.Version,
		"now", params.Now.String(),
		"bays", len(result.Lanes),
	)
	return result, nil
}

// Invalidate drops every memoized result
func (o *DashboardOrchestrator) Invalidate() {
	o.memo.Clear()
}

// MemoSize returns the number of memoized results
func (o *DashboardOrchestrator) MemoSize() int {
	return o.memo.Size()
}

func (o *DashboardOrchestrator) resolveParams(params dto.DashboardParams) dto.DashboardParams {
	if !params.Now.IsSet() {
		params.Now = entities.DateOf(o.now())
	}
	if params.UtilizationWeeks <= 0 {
		params.UtilizationWeeks = o.options.DefaultUtilizationWeeks
	}
	if params.HorizonMonths <= 0 {
		params.HorizonMonths = o.options.DefaultHorizonMonths
	}
	params.HorizonMonths = min(max(params.HorizonMonths, forecast.MinMonths), forecast.MaxMonths)
	if params.CapacityWeeks <= 0 {
		params.CapacityWeeks = o.options.DefaultCapacityWeeks
	}
	return params
}

// advanceMemo drops results of older snapshot versions
func (o *DashboardOrchestrator) advanceMemo(version uint64) {
	o.memoMu.Lock()
	defer o.memoMu.Unlock()
	if version == o.memoVersion {
		return
	}
	if dropped := o.memo.Size(); dropped > 0 {
		o.logger.Debug("dropping memoized dashboards", "from_version", o.memoVersion, "to_version", version, "entries", dropped)
	}
	o.memo.Clear()
	o.memoVersion = version
}

func (o *DashboardOrchestrator) compute(
	ctx context.Context,
	snapshot *entities.Snapshot,
	params dto.DashboardParams,
) (*dto.DashboardResult, error) {
	counted := snapshot.WithBays(o.filter.Apply(snapshot.Bays))
	result := &dto.DashboardResult{
		SnapshotVersion: snapshot.Version,
		GeneratedAt:     o.now(),
		Params:          params,
	}

	stages := []struct {
		name string
		run  func()
	}{
		{"weekly_utilization", func() {
			result.Utilization = o.calculator.Calculate(
				counted.Schedules, counted.Projects, counted.Bays,
				params.Now.StartOfWeek(), params.UtilizationWeeks,
			)
		}},
		{"lanes", func() {
			result.Lanes, result.Conflicts = o.layoutLanes(snapshot)
		}},
		{"future_utilization", func() {
			result.Forecast = o.forecaster.FutureBayUtilization(counted, params.Now, params.HorizonMonths)
		}},
		{"next_available", func() {
			result.Availability = o.forecaster.NextAvailableBays(counted, params.Now)
		}},
		{"capacity_forecast", func() {
			result.Capacity = o.forecaster.CapacityForecast(counted, params.Now, params.CapacityWeeks)
		}},
		{"variance", func() {
			result.Variance = o.tracker.Track(snapshot.Projects)
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dashboard build interrupted before %s: %w", stage.name, err)
		}
		started := time.Now()
		stage.run()
		o.metrics.ObserveCalculation(stage.name, time.Since(started).Seconds())
	}

	o.publishCurrentWeek(result.Utilization, params.Now.StartOfWeek())
	return result, nil
}

// layoutLanes recomputes lanes for every bay, counted or not
func (o *DashboardOrchestrator) layoutLanes(snapshot *entities.Snapshot) ([]entities.BayLanes, []entities.LaneConflict) {
	lanes := make([]entities.BayLanes, 0, len(snapshot.Bays))
	var conflicts []entities.LaneConflict
	for _, bay := range snapshot.Bays {
		schedules := snapshot.SchedulesForBay(bay.ID)
		assignments := o.lanes.AssignLanes(schedules)
		lanes = append(lanes, entities.BayLanes{
			BayID:           bay.ID,
			LaneCount:       services.LaneCount(assignments),
			PeakConcurrency: o.lanes.PeakConcurrency(schedules),
			Assignments:     assignments,
		})
		conflicts = append(conflicts, o.lanes.Conflicts(schedules)...)
	}
	return lanes, conflicts
}

func (o *DashboardOrchestrator) publishCurrentWeek(weekly []entities.WeeklyUtilization, weekStart entities.Date) {
	for _, u := range weekly {
		if u.WeekStart.Equal(weekStart) {
			o.metrics.SetBayUtilization(string(u.BayID), u.UtilizationPercentage.InexactFloat64())
		}
	}
}

func memoKey(version uint64, params dto.DashboardParams) uint64 {
	key := strconv.FormatUint(version, 10) + "|" +
		params.Now.String() + "|" +
		strconv.Itoa(params.UtilizationWeeks) + "|" +
		strconv.Itoa(params.HorizonMonths) + "|" +
		strconv.Itoa(params.CapacityWeeks)
	return xxh3.HashString(key)
}
