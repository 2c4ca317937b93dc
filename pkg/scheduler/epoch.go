package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Epoch computes quota rollover instants from a cron expression.
// A CRON_TZ= or TZ= prefix pins the expression to a time zone.
type Epoch struct {
	expr     string
	schedule cron.Schedule
}

// NewEpoch parses a standard five-field cron expression or descriptor
func NewEpoch(expr string) (*Epoch, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule format: %w", err)
	}

	return &Epoch{expr: expr, schedule: schedule}, nil
}

// Next returns the first rollover strictly after now
func (e *Epoch) Next(now time.Time) time.Time {
	return e.schedule.Next(now)
}

// String returns the cron expression
func (e *Epoch) String() string {
	return e.expr
}
