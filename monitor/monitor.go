// Package monitor runs a periodic background task on its own goroutine with
// ping-interval waits, panic recovery and restart-after-error backoff.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ilfrich/go-basic-utils/logging"
)

// Runner executes one iteration of the monitored work. Returning an error
// (or panicking) causes the monitor to sleep one wait interval and restart.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Options configures a Monitor.
type Options struct {
	// ID identifies the monitor in logs and snapshots. A uuid is
	// generated when empty.
	ID string

	// WaitTime is the pause between executions.
	WaitTime time.Duration

	// RunInterval deducts the last execution duration from the wait, so
	// executions start on a fixed interval rather than a fixed gap.
	RunInterval bool

	// PingInterval is the granularity of the wait loop, so Stop is
	// noticed between pings. Clamped to WaitTime when longer. Defaults
	// to one minute.
	PingInterval time.Duration

	// Logger receives monitor events. Defaults to a named library logger.
	Logger *zap.Logger
}

// Snapshot captures the meta state of a monitor.
type Snapshot struct {
	ID          string        `json:"id"`
	Active      bool          `json:"active"`
	Started     bool          `json:"started"`
	Finished    bool          `json:"finished"`
	WaitTime    time.Duration `json:"waitTime"`
	RunInterval bool          `json:"runInterval"`
}

// Monitor periodically executes a Runner until stopped.
type Monitor struct {
	id           string
	waitTime     time.Duration
	pingInterval time.Duration
	runInterval  bool
	runner       Runner
	logger       *zap.Logger

	mu       sync.Mutex
	active   bool
	started  bool
	finished bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a monitor for the given runner.
func New(runner Runner, opts Options) *Monitor {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New("monitor").With(zap.String("monitor_id", id))
	}

	pingInterval := opts.PingInterval
	if pingInterval == 0 {
		pingInterval = time.Minute
	}
	if opts.WaitTime < pingInterval {
		logger.Info("Ping interval is longer than wait time, clamping",
			zap.Duration("ping_interval", pingInterval),
			zap.Duration("wait_time", opts.WaitTime),
		)
		pingInterval = opts.WaitTime
	}

	return &Monitor{
		id:           id,
		waitTime:     opts.WaitTime,
		pingInterval: pingInterval,
		runInterval:  opts.RunInterval,
		runner:       runner,
		logger:       logger,
	}
}

// ID returns the monitor ID.
func (m *Monitor) ID() string {
	return m.id
}

// Snapshot returns the current meta state of the monitor.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ID:          m.id,
		Active:      m.active,
		Started:     m.started,
		Finished:    m.finished,
		WaitTime:    m.waitTime,
		RunInterval: m.runInterval,
	}
}

// Start launches the monitor loop on its own goroutine. Starting an already
// active monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return
	}
	m.active = true
	m.finished = false
	if m.started {
		m.logger.Info("Restarting monitor")
	} else {
		m.started = true
		m.logger.Info("Starting monitor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		m.loop(ctx)
		m.mu.Lock()
		m.active = false
		m.finished = true
		m.mu.Unlock()
	}()
}

// Stop terminates the monitor loop and waits for it to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.active || m.cancel == nil {
		m.mu.Unlock()
		return
	}
	m.logger.Info("Stopping monitor")
	m.active = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
}

// loop executes the runner until the context is cancelled. A failed or
// panicking execution sleeps one wait interval before the next attempt, to
// avoid error spamming.
func (m *Monitor) loop(ctx context.Context) {
	for {
		start := time.Now()
		err := m.execute(ctx)
		execDuration := time.Since(start)

		if ctx.Err() != nil {
			return
		}

		if err != nil {
			m.logger.Error("Monitor execution failed", zap.Error(err))
			if !m.sleep(ctx, m.waitTime) {
				return
			}
			m.logger.Info("Restarting monitor after error")
			continue
		}

		if !m.wait(ctx, execDuration) {
			return
		}
	}
}

// execute runs one iteration, converting panics into errors.
func (m *Monitor) execute(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("monitor execution panicked: %v", recovered)
		}
	}()
	return m.runner.Run(ctx)
}

// wait pauses between executions, checking for cancellation every ping
// interval. With RunInterval enabled the previous execution duration is
// deducted, with a one second floor. Overdue executions are logged. Returns
// false when the monitor was stopped.
func (m *Monitor) wait(ctx context.Context, execDuration time.Duration) bool {
	waitTime := m.waitTime
	if m.runInterval {
		waitTime -= execDuration
		if waitTime < time.Second {
			waitTime = time.Second
		}
		if execDuration > m.waitTime {
			m.logger.Info("Overdue execution",
				zap.Duration("overdue_by", execDuration-m.waitTime))
		}
	}

	nextExecution := time.Now().Add(waitTime)
	for {
		remaining := time.Until(nextExecution)
		if remaining <= 0 {
			return true
		}
		step := m.pingInterval
		if remaining < step {
			step = remaining
		}
		if !m.sleep(ctx, step) {
			return false
		}
	}
}

// sleep blocks for the duration or until cancellation. Returns false when
// cancelled.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// WaitUntilMidnight blocks until the next local midnight or until the
// context is cancelled.
func (m *Monitor) WaitUntilMidnight(ctx context.Context) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	waitTime := time.Until(midnight)
	m.logger.Info("Waiting until midnight", zap.Duration("wait_time", waitTime))
	m.sleep(ctx, waitTime)
}
