// Package snapshot keeps a current engine snapshot, refetching it from the
// underlying source on an interval and whenever schedule data changes.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
	"github.com/vsinha/bayplan/pkg/infrastructure/events"
	"github.com/vsinha/bayplan/pkg/infrastructure/logging"
	"github.com/vsinha/bayplan/pkg/infrastructure/metrics"
)

// DefaultRefreshInterval is used when the configured interval is not positive
const DefaultRefreshInterval = 30 * time.Second

// ErrNoSnapshot is returned when no snapshot has been fetched yet and the
// source could not provide one
var ErrNoSnapshot = errors.New("no snapshot available")

// Poller caches the latest snapshot of a source. Reads never block on the
// source unless the cached snapshot is missing or invalidated.
type Poller struct {
	source   repositories.SnapshotRepository
	interval time.Duration
	metrics  metrics.Collector
	logger   *logging.Logger

	latest     atomic.Pointer[entities.Snapshot]
	stale      atomic.Bool
	invalidate chan struct{}
	refreshMu  sync.Mutex

	onChangeMu sync.RWMutex
	onChange   []func(*entities.Snapshot)
}

// Verify interface compliance
var (
	_ repositories.SnapshotRepository = (*Poller)(nil)
	_ events.EventHandler             = (*Poller)(nil)
)

// NewPoller creates a poller over source
func NewPoller(
	source repositories.SnapshotRepository,
	interval time.Duration,
	collector metrics.Collector,
	logger *logging.Logger,
) *Poller {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Poller{
		source:     source,
		interval:   interval,
		metrics:    collector,
		logger:     logger.WithComponent("snapshot"),
		invalidate: make(chan struct{}, 1),
	}
}

// OnChange registers fn to be called after each refresh that produced a new
// snapshot version
func (p *Poller) OnChange(fn func(*entities.Snapshot)) {
	p.onChangeMu.Lock()
	defer p.onChangeMu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Snapshot returns the cached snapshot, fetching it first when there is none
// or when it has been invalidated
func (p *Poller) Snapshot(ctx context.Context) (*entities.Snapshot, error) {
	if current := p.latest.Load(); current != nil && !p.stale.Load() {
		return current, nil
	}
	return p.Refresh(ctx)
}

// Latest returns the cached snapshot without touching the source, or nil
func (p *Poller) Latest() *entities.Snapshot {
	return p.latest.Load()
}

// Refresh fetches a new snapshot from the source. On failure the previous
// snapshot stays in place and is returned alongside the error.
func (p *Poller) Refresh(ctx context.Context) (*entities.Snapshot, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	p.stale.Store(false)
	fresh, err := p.source.Snapshot(ctx)
	if err != nil {
		p.stale.Store(true)
		previous := p.latest.Load()
		if previous == nil {
			return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
		}
		return previous, fmt.Errorf("failed to refresh snapshot: %w", err)
	}

	previous := p.latest.Swap(fresh)
	p.metrics.SetSnapshotVersion(fresh.Version)
	if previous != nil && previous.Version == fresh.Version {
		return fresh, nil
	}

	p.logger.Debug("snapshot refreshed",
		"version", fresh.Version,
		"projects", len(fresh.Projects),
		"bays", len(fresh.Bays),
		"schedules", len(fresh.Schedules),
	)

	p.onChangeMu.RLock()
	callbacks := slices.Clone(p.onChange)
	p.onChangeMu.RUnlock()
	for _, fn := range callbacks {
		fn(fresh)
	}
	return fresh, nil
}

// Invalidate marks the cached snapshot stale and wakes Run
func (p *Poller) Invalidate() {
	p.stale.Store(true)
	select {
	case p.invalidate <- struct{}{}:
	default:
	}
}

// Run refreshes on every tick and on every invalidation until ctx is done
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("snapshot poller started", "interval", p.interval.String())

	if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("initial snapshot refresh failed", "error", err.Error())
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("snapshot poller stopped")
			return ctx.Err()
		case <-ticker.C:
		case <-p.invalidate:
		}

		if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("snapshot refresh failed", "error", err.Error())
		}
	}
}

// Handle invalidates the snapshot on schedule events
func (p *Poller) Handle(event events.Event) error {
	if !p.CanHandle(event.Type()) {
		return nil
	}
	p.logger.Debug("snapshot invalidated", "event_type", event.Type(), "stream_id", event.StreamID())
	p.Invalidate()
	return nil
}

func (p *Poller) CanHandle(eventType string) bool {
	return slices.Contains(events.ScheduleEventTypes(), eventType)
}
