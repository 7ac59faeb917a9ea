package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. BAYPLAN_LOGGING_LEVEL
const EnvPrefix = "BAYPLAN"

// Config represents the complete engine configuration
type Config struct {
	Forecast ForecastConfig `mapstructure:"forecast"`
	Bays     BaysConfig     `mapstructure:"bays"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Data     DataConfig     `mapstructure:"data"`
}

// ForecastConfig controls the forward-looking engines
type ForecastConfig struct {
	// HorizonMonths is the default number of months for the utilization forecast (1-24)
	HorizonMonths int `mapstructure:"horizon_months"`
	// CapacityWeeks is the default number of weeks for the capacity forecast
	CapacityWeeks int `mapstructure:"capacity_weeks"`
	// WeeklyAllowanceHours is the fixed per-bay weekly allowance used by the capacity forecast
	WeeklyAllowanceHours float64 `mapstructure:"weekly_allowance_hours"`
	// UtilizationWeeks is the default number of weeks for the weekly utilization view
	UtilizationWeeks int `mapstructure:"utilization_weeks"`
}

// BaysConfig controls which bays count towards capacity
type BaysConfig struct {
	// ExcludedTeams lists teams whose bays are left out of utilization and forecasts
	ExcludedTeams []string `mapstructure:"excluded_teams"`
}

// SnapshotConfig controls snapshot refresh
type SnapshotConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is where bayplan.log is written; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// MetricsConfig controls Prometheus instrumentation
type MetricsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Namespace     string `mapstructure:"namespace"`
	ListenAddress string `mapstructure:"listen_address"`
}

// DataConfig locates the scenario files
type DataConfig struct {
	// ScenarioDir holds projects.csv, bays.csv and schedules.csv, or scenario.yaml
	ScenarioDir string `mapstructure:"scenario_dir"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Forecast: ForecastConfig{
			HorizonMonths:        6,
			CapacityWeeks:        12,
			WeeklyAllowanceHours: 40,
			UtilizationWeeks:     8,
		},
		Bays: BaysConfig{
			ExcludedTeams: []string{},
		},
		Snapshot: SnapshotConfig{
			RefreshInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			Namespace:     "bayplan",
			ListenAddress: ":9090",
		},
		Data: DataConfig{
			ScenarioDir: "testdata",
		},
	}
}

// SetDefaults registers every default value with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("forecast.horizon_months", defaults.Forecast.HorizonMonths)
	v.SetDefault("forecast.capacity_weeks", defaults.Forecast.CapacityWeeks)
	v.SetDefault("forecast.weekly_allowance_hours", defaults.Forecast.WeeklyAllowanceHours)
	v.SetDefault("forecast.utilization_weeks", defaults.Forecast.UtilizationWeeks)

	v.SetDefault("bays.excluded_teams", defaults.Bays.ExcludedTeams)

	v.SetDefault("snapshot.refresh_interval", defaults.Snapshot.RefreshInterval)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.namespace", defaults.Metrics.Namespace)
	v.SetDefault("metrics.listen_address", defaults.Metrics.ListenAddress)

	v.SetDefault("data.scenario_dir", defaults.Data.ScenarioDir)
}

// New returns a viper instance with defaults and BAYPLAN_ environment overrides
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path (optional) on top of defaults and
// environment overrides, then validates it
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// IsValidationError reports whether err carries configuration validation failures
func IsValidationError(err error) bool {
	var verrs ValidationErrors
	return errors.As(err, &verrs)
}
