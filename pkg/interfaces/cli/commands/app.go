package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/vsinha/bayplan/pkg/application/services/orchestration"
	"github.com/vsinha/bayplan/pkg/application/services/scheduling"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
	"github.com/vsinha/bayplan/pkg/infrastructure/config"
	"github.com/vsinha/bayplan/pkg/infrastructure/events"
	"github.com/vsinha/bayplan/pkg/infrastructure/logging"
	"github.com/vsinha/bayplan/pkg/infrastructure/metrics"
	"github.com/vsinha/bayplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bayplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bayplan/pkg/infrastructure/repositories/yaml"
	"github.com/vsinha/bayplan/pkg/infrastructure/snapshot"
)

// App holds the engine wiring shared by every subcommand. It is built once
// per invocation, after flags and configuration are resolved.
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Registry  *prometheus.Registry
	Metrics   metrics.Collector
	Store     *memory.Store
	Events    *events.InMemoryEventStore
	Poller    *snapshot.Poller
	Dashboard *orchestration.DashboardOrchestrator
	Schedules *scheduling.ScheduleService
	Now       entities.Date
}

// newApp resolves configuration from v, loads the scenario and wires the engine
func newApp(v *viper.Viper, configPath, nowFlag string, verbose bool) (*App, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	now := entities.DateOf(time.Now())
	if nowFlag != "" {
		if now, err = entities.ParseDate(nowFlag); err != nil {
			return nil, fmt.Errorf("invalid --now: %w", err)
		}
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger = logger.WithComponent("cli")

	dataset, err := LoadDataset(cfg.Data.ScenarioDir)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	store, err := memory.NewStore(dataset)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	logger.Debug("scenario loaded",
		"dir", cfg.Data.ScenarioDir,
		"projects", len(dataset.Projects),
		"bays", len(dataset.Bays),
		"schedules", len(dataset.Schedules),
	)

	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(registry, cfg.Metrics.Namespace)

	eventStore := events.NewInMemoryEventStore(logger)
	poller := snapshot.NewPoller(store.Source(), cfg.Snapshot.RefreshInterval, collector, logger)
	if err := eventStore.Subscribe(events.ScheduleEventTypes(), poller); err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to subscribe snapshot poller: %w", err)
	}

	dashboard := orchestration.NewDashboardOrchestrator(poller, orchestration.Options{
		ExcludedTeams:           cfg.Bays.ExcludedTeams,
		WeeklyAllowanceHours:    decimal.NewFromFloat(cfg.Forecast.WeeklyAllowanceHours),
		DefaultUtilizationWeeks: cfg.Forecast.UtilizationWeeks,
		DefaultHorizonMonths:    cfg.Forecast.HorizonMonths,
		DefaultCapacityWeeks:    cfg.Forecast.CapacityWeeks,
	}, collector, logger)

	schedules := scheduling.NewScheduleService(
		store.Projects, store.Bays, store.Schedules,
		nil, eventStore, collector, logger,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Metrics:   collector,
		Store:     store,
		Events:    eventStore,
		Poller:    poller,
		Dashboard: dashboard,
		Schedules: schedules,
		Now:       now,
	}, nil
}

// Close waits for pending event deliveries and closes the log file
func (a *App) Close() error {
	a.Events.Wait()
	return a.Logger.Close()
}

// LoadDataset reads a scenario directory: scenario.yaml when present,
// otherwise projects.csv, bays.csv and schedules.csv
func LoadDataset(dir string) (*repositories.Dataset, error) {
	if dir == "" {
		return nil, errors.New("no scenario directory configured (use --scenario)")
	}

	_, err := os.Stat(filepath.Join(dir, yaml.ScenarioFile))
	switch {
	case err == nil:
		return yaml.NewLoader().LoadScenario(dir)
	case errors.Is(err, fs.ErrNotExist):
		dataset, err := csv.NewLoader().LoadScenario(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario %s: %w", dir, err)
		}
		return dataset, nil
	default:
		return nil, fmt.Errorf("failed to inspect scenario %s: %w", dir, err)
	}
}
