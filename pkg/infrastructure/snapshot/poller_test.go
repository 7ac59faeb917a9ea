package snapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
	"github.com/vsinha/bayplan/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/bayplan/pkg/infrastructure/testing"
)

type flakySource struct {
	inner repositories.SnapshotRepository
	fail  atomic.Bool
}

func (f *flakySource) Snapshot(ctx context.Context) (*entities.Snapshot, error) {
	if f.fail.Load() {
		return nil, errors.New("source unavailable")
	}
	return f.inner.Snapshot(ctx)
}

func addSchedule(t *testing.T, scenario *testhelpers.Scenario, id entities.ScheduleID) {
	t.Helper()
	require.NoError(t, scenario.Schedules.CreateSchedule(context.Background(), &entities.ManufacturingSchedule{
		ID:        id,
		ProjectID: "P300",
		BayID:     "BAY_B",
		StartDate: testhelpers.Date(2025, 4, 1),
		EndDate:   testhelpers.Date(2025, 4, 30),
	}))
}

func TestPoller_CachesUntilInvalidated(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	poller := NewPoller(scenario.Source(), time.Hour, nil, nil)
	ctx := context.Background()

	require.Nil(t, poller.Latest())
	first, err := poller.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, first.Schedules, 3)

	addSchedule(t, scenario, "S9")

	cached, err := poller.Snapshot(ctx)
	require.NoError(t, err)
	require.Same(t, first, cached)

	poller.Invalidate()
	fresh, err := poller.Snapshot(ctx)
	require.NoError(t, err)
	require.Greater(t, fresh.Version, first.Version)
	require.Len(t, fresh.Schedules, 4)
	require.Same(t, fresh, poller.Latest())
}

func TestPoller_InvalidatedByScheduleEvents(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	poller := NewPoller(scenario.Source(), time.Hour, nil, nil)
	store := events.NewInMemoryEventStore(nil)
	require.NoError(t, store.Subscribe(events.ScheduleEventTypes(), poller))

	ctx := context.Background()
	first, err := poller.Snapshot(ctx)
	require.NoError(t, err)

	addSchedule(t, scenario, "S9")
	stream := events.BayStream("BAY_B")
	require.NoError(t, store.AppendEvent(stream, events.NewEvent(events.ScheduleCreatedEvent, stream, nil)))
	store.Wait()

	fresh, err := poller.Snapshot(ctx)
	require.NoError(t, err)
	require.NotSame(t, first, fresh)
	require.Len(t, fresh.Schedules, 4)

	require.True(t, poller.CanHandle(events.BayRebalancedEvent))
	require.False(t, poller.CanHandle("inventory.received"))
}

func TestPoller_RefreshFailureKeepsPrevious(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	source := &flakySource{inner: scenario.Source()}
	poller := NewPoller(source, time.Hour, nil, nil)
	ctx := context.Background()

	source.fail.Store(true)
	_, err := poller.Snapshot(ctx)
	require.ErrorIs(t, err, ErrNoSnapshot)

	source.fail.Store(false)
	first, err := poller.Snapshot(ctx)
	require.NoError(t, err)

	source.fail.Store(true)
	previous, err := poller.Refresh(ctx)
	require.Error(t, err)
	require.Same(t, first, previous)

	// The failed refresh leaves the cache stale so the next read retries
	source.fail.Store(false)
	addSchedule(t, scenario, "S9")
	fresh, err := poller.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, fresh.Schedules, 4)
}

func TestPoller_Run(t *testing.T) {
	scenario := testhelpers.BuildBayScenario()
	poller := NewPoller(scenario.Source(), 10*time.Millisecond, nil, nil)

	var lastVersion atomic.Uint64
	poller.OnChange(func(s *entities.Snapshot) {
		lastVersion.Store(s.Version)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return poller.Latest() != nil
	}, time.Second, 5*time.Millisecond)
	initial := poller.Latest().Version

	addSchedule(t, scenario, "S9")
	poller.Invalidate()

	require.Eventually(t, func() bool {
		return lastVersion.Load() > initial
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
