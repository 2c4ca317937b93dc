package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ethpandaops/nichefy/pkg/discovery"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/ethpandaops/nichefy/pkg/youtube"
	"github.com/sirupsen/logrus"
)

// State is the scheduler's current phase
type State string

const (
	// StateRunning means a cycle is about to start or in progress
	StateRunning State = "running"
	// StateQuotaSleeping means every key is exhausted and the loop waits for the next epoch
	StateQuotaSleeping State = "quota_sleeping"
	// StatePaused means the loop is waiting between cycles
	StatePaused State = "paused"
)

var allStates = []string{string(StateRunning), string(StateQuotaSleeping), string(StatePaused)} //nolint:gochecknoglobals // metric label set

// ErrCyclePanic wraps a recovered panic from a cycle
var ErrCyclePanic = errors.New("discovery cycle panicked")

// CapacityTracker reports and resets per-key quota
type CapacityTracker interface {
	RemainingCapacityCount() int
	ResetAllUsage()
}

// CycleRunner runs one discovery cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) (*discovery.Result, error)
}

// Service defines the public interface for the scheduler
type Service interface {
	// Start runs the loop and blocks until ctx is canceled or Stop is called
	Start(ctx context.Context) error
	// Stop signals the loop to exit and waits for it
	Stop() error
	// State returns the current phase
	State() State
}

// Option customizes the loop
type Option func(*loop)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *loop) {
		l.now = now
	}
}

// WithSleep replaces the context-aware sleep
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *loop) {
		l.sleep = sleep
	}
}

type loop struct {
	log    logrus.FieldLogger
	cfg    *Config
	epoch  *Epoch
	quota  CapacityTracker
	runner CycleRunner

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.RWMutex
	state   State
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewService creates the scheduler loop
func NewService(log logrus.FieldLogger, cfg *Config, quota CapacityTracker, runner CycleRunner, opts ...Option) (Service, error) {
	epoch, err := NewEpoch(cfg.QuotaResetSchedule)
	if err != nil {
		return nil, err
	}

	l := &loop{
		log:    log.WithField("service", "scheduler"),
		cfg:    cfg,
		epoch:  epoch,
		quota:  quota,
		runner: runner,
		now:    time.Now,
		sleep:  sleepContext,
		state:  StateRunning,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

func (l *loop) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})

	l.mu.Lock()
	l.cancel = cancel
	l.stopped = stopped
	l.mu.Unlock()

	defer close(stopped)
	defer cancel()

	l.log.WithFields(logrus.Fields{
		"pause":       l.cfg.Pause.String(),
		"quota_reset": l.epoch.String(),
	}).Info("Starting scheduler loop")

	state := StateRunning

	for {
		if ctx.Err() != nil {
			l.log.Info("Scheduler loop stopped")

			return nil
		}

		l.setState(state)

		switch state {
		case StateRunning:
			if l.quota.RemainingCapacityCount() == 0 {
				state = StateQuotaSleeping

				continue
			}

			if err := l.runCycle(ctx); err != nil {
				l.log.WithError(err).Error("Discovery cycle failed")
			}

			state = StatePaused

		case StateQuotaSleeping:
			now := l.now()
			wake := l.epoch.Next(now)
			wait := wake.Sub(now)

			l.log.WithFields(logrus.Fields{
				"wake_at": wake.UTC().Format(time.RFC3339),
				"wait":    wait.Round(time.Second).String(),
			}).Warn("All API keys exhausted, sleeping until quota reset")
			observability.RecordQuotaSleep(wait.Seconds())

			if err := l.sleep(ctx, wait); err != nil {
				continue
			}

			l.quota.ResetAllUsage()
			state = StateRunning

		case StatePaused:
			l.log.WithField("pause", l.cfg.Pause.String()).Info("Pausing before next cycle")

			if err := l.sleep(ctx, l.cfg.Pause); err != nil {
				continue
			}

			state = StateRunning
		}
	}
}

// runCycle runs one cycle and converts a panic into an error
func (l *loop) runCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			observability.RecordError("scheduler", "panic")
			l.log.WithField("stack", string(debug.Stack())).Error("Recovered from cycle panic")
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
	}()

	cycleCtx := ctx
	if l.cfg.CycleTimeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, l.cfg.CycleTimeout)
		defer cancel()
	}

	result, err := l.runner.RunCycle(cycleCtx)
	if err != nil {
		if errors.Is(err, youtube.ErrQuotaExhausted) {
			l.log.Warn("Quota exhausted during cycle")
		}

		return err
	}

	l.log.WithFields(logrus.Fields{
		"cycle_id": result.CycleID,
		"outliers": len(result.Outliers),
	}).Info("Discovery cycle completed")

	return nil
}

func (l *loop) Stop() error {
	l.mu.RLock()
	cancel, stopped := l.cancel, l.stopped
	l.mu.RUnlock()

	if cancel == nil {
		return nil
	}

	l.log.Info("Stopping scheduler loop")
	cancel()

	timeout := l.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	select {
	case <-stopped:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("scheduler did not stop within %s", timeout)
	}
}

func (l *loop) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.state
}

func (l *loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()

	observability.RecordSchedulerState(string(s), allStates)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Verify interface compliance at compile time
var (
	_ Service         = (*loop)(nil)
	_ CapacityTracker = (youtube.Client)(nil)
	_ CycleRunner     = (*discovery.Runner)(nil)
)
