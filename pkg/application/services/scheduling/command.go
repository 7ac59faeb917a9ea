package scheduling

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// CommandKind selects the mutation a ScheduleCommand performs
type CommandKind int

const (
	Create CommandKind = iota
	Update
	Delete
	Rebalance
)

func (k CommandKind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Rebalance:
		return "rebalance"
	default:
		return "unknown"
	}
}

// ParseCommandKind parses create, update or delete
func ParseCommandKind(s string) (CommandKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create":
		return Create, nil
	case "update":
		return Update, nil
	case "delete":
		return Delete, nil
	default:
		return 0, fmt.Errorf("unknown command kind %q", s)
	}
}

// ScheduleCommand is a single-record schedule mutation.
//
// Create needs ProjectID, BayID and both dates. Update changes only the
// fields that are set: a non-empty id, a set date, valid hours or a non-nil
// row. Delete needs only ScheduleID.
type ScheduleCommand struct {
	Kind       CommandKind
	ScheduleID entities.ScheduleID
	ProjectID  entities.ProjectID
	BayID      entities.BayID
	StartDate  entities.Date
	EndDate    entities.Date
	TotalHours decimal.NullDecimal
	Row        *int
}

// ScheduleResult is the successful outcome of a schedule command
type ScheduleResult struct {
	ScheduleID   entities.ScheduleID `json:"schedule_id"`
	BayID        entities.BayID      `json:"bay_id"`
	Row          int                 `json:"row"`
	RequestedRow int                 `json:"requested_row"`
	Reassigned   bool                `json:"reassigned"`
}
