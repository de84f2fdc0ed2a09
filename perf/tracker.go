package perf

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Stats aggregates the recorded durations of one named measurement.
type Stats struct {
	Name   string        `json:"name"`
	Count  int           `json:"count"`
	Total  time.Duration `json:"total"`
	Mean   time.Duration `json:"mean"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	StdDev time.Duration `json:"stddev"`
}

// Tracker collects named duration measurements and computes aggregate
// statistics over them. Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	measures map[string][]time.Duration
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		measures: make(map[string][]time.Duration),
	}
}

// Measure starts a measurement and returns a stop function recording the
// elapsed time under name.
func (t *Tracker) Measure(name string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		duration := time.Since(start)
		t.Record(name, duration)
		return duration
	}
}

// Record adds a single duration under name.
func (t *Tracker) Record(name string, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.measures[name] = append(t.measures[name], duration)
}

// Names returns all measurement names, sorted.
func (t *Tracker) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.measures))
	for name := range t.measures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats computes the aggregate statistics for one measurement. The second
// return value reports whether the name has any recordings.
func (t *Tracker) Stats(name string) (Stats, bool) {
	t.mu.RLock()
	durations := t.measures[name]
	t.mu.RUnlock()

	if len(durations) == 0 {
		return Stats{Name: name}, false
	}

	samples := make([]float64, len(durations))
	var total time.Duration
	minDuration := durations[0]
	maxDuration := durations[0]
	for i, duration := range durations {
		samples[i] = float64(duration)
		total += duration
		if duration < minDuration {
			minDuration = duration
		}
		if duration > maxDuration {
			maxDuration = duration
		}
	}

	mean, stdDev := stat.MeanStdDev(samples, nil)
	if len(samples) < 2 {
		// sample standard deviation is undefined for a single value
		stdDev = 0
	}

	return Stats{
		Name:   name,
		Count:  len(durations),
		Total:  total,
		Mean:   time.Duration(mean),
		Min:    minDuration,
		Max:    maxDuration,
		StdDev: time.Duration(stdDev),
	}, true
}

// Reset drops all recordings for name, or every recording when name is
// empty.
func (t *Tracker) Reset(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if name == "" {
		t.measures = make(map[string][]time.Duration)
		return
	}
	delete(t.measures, name)
}

// Report logs the statistics of every measurement.
func (t *Tracker) Report(logger *zap.Logger) {
	for _, name := range t.Names() {
		stats, ok := t.Stats(name)
		if !ok {
			continue
		}
		logger.Info("Performance measurement",
			zap.String("name", stats.Name),
			zap.Int("count", stats.Count),
			zap.Duration("total", stats.Total),
			zap.Duration("mean", stats.Mean),
			zap.Duration("min", stats.Min),
			zap.Duration("max", stats.Max),
			zap.Duration("stddev", stats.StdDev),
		)
	}
}
