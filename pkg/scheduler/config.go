// Package scheduler drives discovery cycles around pauses and quota epochs
package scheduler

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPause is returned when the inter-cycle pause is not positive
	ErrInvalidPause = errors.New("pause must be positive")
	// ErrInvalidCycleTimeout is returned when the cycle timeout is negative
	ErrInvalidCycleTimeout = errors.New("cycle timeout must not be negative")
)

// Config defines scheduler configuration
type Config struct {
	// Pause is the wait after every cycle, successful or not
	Pause time.Duration `yaml:"pause" default:"2m"`
	// QuotaResetSchedule is a cron expression for the provider's daily quota rollover
	QuotaResetSchedule string `yaml:"quotaResetSchedule" default:"CRON_TZ=UTC 5 8 * * *"`
	// CycleTimeout bounds a single cycle. Zero means unbounded.
	CycleTimeout    time.Duration `yaml:"cycleTimeout" default:"30m"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`
}

// Validate checks if the scheduler configuration is valid
func (c *Config) Validate() error {
	if c.Pause <= 0 {
		return ErrInvalidPause
	}

	if c.CycleTimeout < 0 {
		return ErrInvalidCycleTimeout
	}

	if _, err := NewEpoch(c.QuotaResetSchedule); err != nil {
		return fmt.Errorf("quota reset schedule: %w", err)
	}

	return nil
}
