package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "forecast.horizon_months"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateForecast()...)
	errs = append(errs, c.validateSnapshot()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateMetrics()...)

	return errs
}

func (c *Config) validateForecast() []ValidationError {
	var errs []ValidationError
	f := c.Forecast

	if f.HorizonMonths < 1 || f.HorizonMonths > 24 {
		errs = append(errs, ValidationError{"forecast.horizon_months", f.HorizonMonths, "must be between 1 and 24"})
	}
	if f.CapacityWeeks < 1 {
		errs = append(errs, ValidationError{"forecast.capacity_weeks", f.CapacityWeeks, "must be at least 1"})
	}
	if f.UtilizationWeeks < 1 {
		errs = append(errs, ValidationError{"forecast.utilization_weeks", f.UtilizationWeeks, "must be at least 1"})
	}
	if f.WeeklyAllowanceHours <= 0 {
		errs = append(errs, ValidationError{"forecast.weekly_allowance_hours", f.WeeklyAllowanceHours, "must be positive"})
	}
	return errs
}

func (c *Config) validateSnapshot() []ValidationError {
	if c.Snapshot.RefreshInterval < time.Second {
		return []ValidationError{{"snapshot.refresh_interval", c.Snapshot.RefreshInterval, "must be at least 1s"}}
	}
	return nil
}

func (c *Config) validateLogging() []ValidationError {
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		return []ValidationError{{
			"logging.level",
			c.Logging.Level,
			fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateMetrics() []ValidationError {
	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return []ValidationError{{"metrics.listen_address", c.Metrics.ListenAddress, "required when metrics are enabled"}}
	}
	return nil
}
