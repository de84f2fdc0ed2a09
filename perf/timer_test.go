package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimer_Checkpoint(t *testing.T) {
	t.Parallel()

	timer := NewTimer(zap.NewNop())

	time.Sleep(5 * time.Millisecond)
	first := timer.Checkpoint("")
	assert.GreaterOrEqual(t, first, 5*time.Millisecond)

	// the second checkpoint measures from the first, not from the start
	time.Sleep(5 * time.Millisecond)
	second := timer.Checkpoint("")
	assert.GreaterOrEqual(t, second, 5*time.Millisecond)

	total := timer.Finish("")
	assert.GreaterOrEqual(t, total, first+second)
}

func TestTimer_Start(t *testing.T) {
	t.Parallel()

	timer := NewTimer(zap.NewNop())
	time.Sleep(5 * time.Millisecond)
	timer.Start()

	// the reset discards the elapsed time and the checkpoint
	total := timer.Finish("")
	assert.Less(t, total, 5*time.Millisecond)
}

func TestTimer_Logging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	timer := NewTimer(zap.New(core))

	timer.Checkpoint("loading data")
	timer.Finish("")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "loading data took")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "500ms", formatDuration(500*time.Millisecond))
	assert.Equal(t, "2 seconds", formatDuration(2*time.Second))
	assert.Equal(t, "1 minute", formatDuration(90*time.Second))
}
