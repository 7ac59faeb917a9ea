package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// Sentinel errors carried by ScheduleError
var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrUnknownBay       = errors.New("unknown bay")
	ErrUnknownProject   = errors.New("unknown project")
	ErrInvalidHours     = errors.New("invalid hours")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrPersistence      = errors.New("persistence failure")
)

// ScheduleError is the failed result of a schedule command. It unwraps to
// one of the sentinel errors above, or to a context error.
type ScheduleError struct {
	Op         CommandKind
	ScheduleID entities.ScheduleID
	Field      string
	Err        error
}

func (e *ScheduleError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op.String())
	sb.WriteString(" schedule")
	if e.ScheduleID != "" {
		fmt.Fprintf(&sb, " %s", e.ScheduleID)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ": %s", e.Field)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	return sb.String()
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// AsScheduleError extracts a *ScheduleError from err
func AsScheduleError(err error) (*ScheduleError, bool) {
	var se *ScheduleError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
