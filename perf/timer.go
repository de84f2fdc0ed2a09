// Package perf provides small performance timing utilities: a checkpoint
// timer for ad-hoc measurements and a tracker aggregating named durations.
package perf

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Timer measures elapsed time between a start point and one or more
// checkpoints. The zero value is not ready, use NewTimer.
type Timer struct {
	startTime      time.Time
	lastCheckpoint time.Time
	logger         *zap.Logger
}

// NewTimer creates a timer starting now. The logger is optional; without one
// messages are printed to stdout.
func NewTimer(logger *zap.Logger) *Timer {
	return &Timer{
		startTime: time.Now(),
		logger:    logger,
	}
}

// Start resets the timer to now and clears any checkpoint.
func (t *Timer) Start() {
	t.startTime = time.Now()
	t.lastCheckpoint = time.Time{}
}

// Checkpoint logs the duration since the last checkpoint (or the start) and
// marks a new checkpoint. An empty message suppresses the log line.
func (t *Timer) Checkpoint(message string) time.Duration {
	since := t.startTime
	if !t.lastCheckpoint.IsZero() {
		since = t.lastCheckpoint
	}
	now := time.Now()
	duration := now.Sub(since)
	t.lastCheckpoint = now
	t.log(message, duration)
	return duration
}

// Finish logs the total duration since the start. An empty message
// suppresses the log line.
func (t *Timer) Finish(message string) time.Duration {
	duration := time.Since(t.startTime)
	t.log(message, duration)
	return duration
}

func (t *Timer) log(message string, duration time.Duration) {
	if message == "" {
		return
	}
	if t.logger != nil {
		t.logger.Info(fmt.Sprintf("%s took %s", message, formatDuration(duration)),
			zap.Duration("duration", duration))
		return
	}
	fmt.Printf("%s took %s\n", message, formatDuration(duration))
}

// formatDuration renders a duration for log lines: sub-second durations
// keep their native formatting, anything longer is humanised relative to
// now.
func formatDuration(duration time.Duration) string {
	if duration < time.Second {
		return duration.String()
	}
	return strings.TrimSpace(humanize.RelTime(time.Now().Add(-duration), time.Now(), "", ""))
}
