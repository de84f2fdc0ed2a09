// Package timeseries aligns and interpolates irregular timestamped series
// onto a fixed resolution grid.
//
// A TimeSeries is constructed from either a list of records (each a map
// holding a timestamp plus numeric values) or a map of columns. Timestamps
// may be supplied as time.Time, unix seconds or strings with a layout. The
// dominant gap between samples can be auto-detected and the series resampled
// onto that grid, linearly interpolating interior gaps and repeating edge
// samples at the boundaries.
package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Layout constants for string timestamps.
const (
	DefaultDateTimeLayout = "2006-01-02 15:04:05"
	DefaultDateLayout     = "2006-01-02"
)

// ErrNoData is returned by operations that need at least one sample.
var ErrNoData = errors.New("time series contains no data")

// TimeSeries holds an ordered timestamp column and one or more named numeric
// series aligned to it.
type TimeSeries struct {
	dateKey    string
	layout     string
	location   *time.Location
	times      []time.Time
	series     map[string][]float64
	keys       []string
	resolution time.Duration
}

// Option configures TimeSeries construction.
type Option func(*TimeSeries)

// WithLayout sets the layout used to parse string timestamps.
func WithLayout(layout string) Option {
	return func(ts *TimeSeries) { ts.layout = layout }
}

// WithLocation sets the location timestamps are interpreted in. Defaults to
// the local zone.
func WithLocation(loc *time.Location) Option {
	return func(ts *TimeSeries) { ts.location = loc }
}

// FromRecords creates a TimeSeries from a list of records, each holding the
// timestamp under dateKey plus numeric values. The value keys are taken from
// the first record.
func FromRecords(records []map[string]any, dateKey string, opts ...Option) (*TimeSeries, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if _, ok := records[0][dateKey]; !ok {
		return nil, fmt.Errorf("date key %q not found in first record", dateKey)
	}

	ts := newSeries(dateKey, opts)

	for key := range records[0] {
		if key != dateKey {
			ts.keys = append(ts.keys, key)
		}
	}
	sort.Strings(ts.keys)

	ts.times = make([]time.Time, len(records))
	for _, key := range ts.keys {
		ts.series[key] = make([]float64, len(records))
	}

	for i, record := range records {
		parsed, err := ts.parseDate(record[dateKey])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ts.times[i] = parsed
		for _, key := range ts.keys {
			value, err := toFloat(record[key])
			if err != nil {
				return nil, fmt.Errorf("record %d, key %q: %w", i, key, err)
			}
			ts.series[key][i] = value
		}
	}

	return ts, nil
}

// FromColumns creates a TimeSeries from a map of equally sized columns, one
// of which holds the timestamps under dateKey.
func FromColumns(columns map[string][]any, dateKey string, opts ...Option) (*TimeSeries, error) {
	dates, ok := columns[dateKey]
	if !ok {
		return nil, fmt.Errorf("date key %q not found in input columns", dateKey)
	}
	if len(dates) == 0 {
		return nil, ErrNoData
	}

	ts := newSeries(dateKey, opts)

	for key, column := range columns {
		if key == dateKey {
			continue
		}
		if len(column) != len(dates) {
			return nil, fmt.Errorf("column %q has %d values, expected %d", key, len(column), len(dates))
		}
		ts.keys = append(ts.keys, key)
	}
	sort.Strings(ts.keys)

	ts.times = make([]time.Time, len(dates))
	for i, raw := range dates {
		parsed, err := ts.parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("date index %d: %w", i, err)
		}
		ts.times[i] = parsed
	}

	for _, key := range ts.keys {
		values := make([]float64, len(dates))
		for i, raw := range columns[key] {
			value, err := toFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("column %q, index %d: %w", key, i, err)
			}
			values[i] = value
		}
		ts.series[key] = values
	}

	return ts, nil
}

func newSeries(dateKey string, opts []Option) *TimeSeries {
	ts := &TimeSeries{
		dateKey:  dateKey,
		location: time.Local,
		series:   make(map[string][]float64),
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// parseDate converts a raw timestamp value into a time.Time in the series
// location.
func (ts *TimeSeries) parseDate(raw any) (time.Time, error) {
	switch typed := raw.(type) {
	case time.Time:
		return typed.In(ts.location), nil
	case int:
		return time.Unix(int64(typed), 0).In(ts.location), nil
	case int64:
		return time.Unix(typed, 0).In(ts.location), nil
	case float64:
		sec := int64(typed)
		nsec := int64((typed - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).In(ts.location), nil
	case string:
		if ts.layout == "" {
			return time.Time{}, errors.New("cannot parse string timestamps without a layout")
		}
		parsed, err := time.ParseInLocation(ts.layout, typed, ts.location)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", typed, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch typed := raw.(type) {
	case float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", raw)
	}
}

// Keys returns the value series keys, excluding the date key.
func (ts *TimeSeries) Keys() []string {
	keys := make([]string, len(ts.keys))
	copy(keys, ts.keys)
	return keys
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int {
	return len(ts.times)
}

// Timestamps returns a copy of the timestamp column.
func (ts *TimeSeries) Timestamps() []time.Time {
	times := make([]time.Time, len(ts.times))
	copy(times, ts.times)
	return times
}

// Values returns a copy of the series stored under key.
func (ts *TimeSeries) Values(key string) ([]float64, error) {
	values, ok := ts.series[key]
	if !ok {
		return nil, fmt.Errorf("key %q not found in time series", key)
	}
	result := make([]float64, len(values))
	copy(result, values)
	return result, nil
}

// SetResolution forces a fixed resolution, bypassing auto-detection.
func (ts *TimeSeries) SetResolution(resolution time.Duration) {
	ts.resolution = resolution
}

// Resolution returns the configured resolution, or auto-detects the dominant
// gap between consecutive timestamps. At least two samples are required for
// detection.
func (ts *TimeSeries) Resolution() (time.Duration, error) {
	if ts.resolution > 0 {
		return ts.resolution, nil
	}
	if len(ts.times) < 2 {
		return 0, errors.New("cannot determine resolution with fewer than two samples")
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(ts.times); i++ {
		counts[ts.times[i].Sub(ts.times[i-1])]++
	}

	var best time.Duration
	bestCount := 0
	for diff, count := range counts {
		if count > bestCount || (count == bestCount && diff < best) {
			best = diff
			bestCount = count
		}
	}
	if best <= 0 {
		return 0, errors.New("resolution could not be determined, timestamps are not increasing")
	}
	return best, nil
}

// AddValues adds a new series that is already aligned to the timestamp
// column. Duplicate keys and length mismatches are rejected.
func (ts *TimeSeries) AddValues(key string, values []float64) error {
	if _, exists := ts.series[key]; exists || key == ts.dateKey {
		return fmt.Errorf("key %q already exists in time series", key)
	}
	if len(values) != len(ts.times) {
		return fmt.Errorf("series %q has %d values, expected %d", key, len(values), len(ts.times))
	}
	stored := make([]float64, len(values))
	copy(stored, values)
	ts.series[key] = stored
	ts.keys = append(ts.keys, key)
	return nil
}

// FillValues adds a new series filled with a constant value.
func (ts *TimeSeries) FillValues(key string, constant float64) error {
	values := make([]float64, len(ts.times))
	for i := range values {
		values[i] = constant
	}
	return ts.AddValues(key, values)
}

// RemoveSeries drops one or more value series. The date key cannot be
// removed.
func (ts *TimeSeries) RemoveSeries(keys ...string) error {
	for _, key := range keys {
		if key == ts.dateKey {
			return fmt.Errorf("cannot remove date key %q", key)
		}
		if _, ok := ts.series[key]; !ok {
			return fmt.Errorf("key %q not found in time series", key)
		}
	}
	for _, key := range keys {
		delete(ts.series, key)
		for i, existing := range ts.keys {
			if existing == key {
				ts.keys = append(ts.keys[:i], ts.keys[i+1:]...)
				break
			}
		}
	}
	return nil
}

// AddSeries merges another time series into this one. Both series are first
// aligned to this series' resolution and time window, then the other series'
// columns (or the selected subset) are added.
func (ts *TimeSeries) AddSeries(other *TimeSeries, keys ...string) error {
	if other == nil {
		return errors.New("no time series provided")
	}
	if len(keys) == 0 {
		keys = other.Keys()
	}
	for _, key := range keys {
		if _, exists := ts.series[key]; exists {
			return fmt.Errorf("key %q already exists in time series", key)
		}
		if _, ok := other.series[key]; !ok {
			return fmt.Errorf("key %q not found in provided time series", key)
		}
	}

	resolution, err := ts.Resolution()
	if err != nil {
		return err
	}
	if err := ts.AlignToResolution(resolution, time.Time{}, time.Time{}); err != nil {
		return err
	}
	if err := other.AlignToResolution(resolution, ts.times[0], ts.times[len(ts.times)-1]); err != nil {
		return err
	}

	for _, key := range keys {
		values, err := other.Values(key)
		if err != nil {
			return err
		}
		if err := ts.AddValues(key, values); err != nil {
			return err
		}
	}
	return nil
}

// AlignToResolution resamples the series onto a fixed grid. Samples within
// half a resolution of a grid point are taken as-is, samples falling between
// grid points are dropped, interior gaps are filled by linear interpolation
// between the surrounding samples and boundary gaps repeat the edge sample.
//
// A zero resolution auto-detects; zero start/end default to the first and
// last sample. The resampled timestamps are the grid points themselves.
func (ts *TimeSeries) AlignToResolution(resolution time.Duration, start, end time.Time) error {
	if len(ts.times) == 0 {
		return ErrNoData
	}
	if resolution == 0 {
		detected, err := ts.Resolution()
		if err != nil {
			return err
		}
		resolution = detected
	}
	tolerance := resolution / 2
	if start.IsZero() {
		start = ts.times[0]
	}
	if end.IsZero() {
		end = ts.times[len(ts.times)-1]
	}

	var outTimes []time.Time
	outSeries := make(map[string][]float64, len(ts.keys))

	appendRow := func(at time.Time, row map[string]float64) {
		outTimes = append(outTimes, at)
		for _, key := range ts.keys {
			outSeries[key] = append(outSeries[key], row[key])
		}
	}

	idx := 0
	n := len(ts.times)
	var prevRow map[string]float64
	var prevTime time.Time

	for current := start; !current.After(end); current = current.Add(resolution) {
		// consume every sample up to the tolerance window of this grid
		// point, the last one wins when the data is denser than the grid
		taken := false
		for idx < n && ts.times[idx].Before(current.Add(tolerance)) {
			prevRow = ts.rowAt(idx)
			prevTime = ts.times[idx]
			idx++
			taken = true
		}
		if taken {
			appendRow(current, prevRow)
			continue
		}

		if idx >= n {
			// past the last sample, repeat it
			appendRow(current, prevRow)
			continue
		}

		if prevRow == nil {
			// before the first sample, repeat it backwards
			appendRow(current, ts.rowAt(idx))
			continue
		}

		// interior gap, interpolate on the line between the surrounding
		// samples
		nextRow := ts.rowAt(idx)
		fraction := float64(current.Sub(prevTime)) / float64(ts.times[idx].Sub(prevTime))
		interpolated := make(map[string]float64, len(ts.keys))
		for _, key := range ts.keys {
			interpolated[key] = prevRow[key] + (nextRow[key]-prevRow[key])*fraction
		}
		appendRow(current, interpolated)
	}

	ts.times = outTimes
	ts.series = outSeries
	ts.resolution = resolution
	return nil
}

// rowAt extracts the values of all series at index i.
func (ts *TimeSeries) rowAt(i int) map[string]float64 {
	row := make(map[string]float64, len(ts.keys))
	for _, key := range ts.keys {
		row[key] = ts.series[key][i]
	}
	return row
}

// Records returns the series as a list of records, each holding the
// timestamp under the date key plus all values.
func (ts *TimeSeries) Records() []map[string]any {
	records := make([]map[string]any, len(ts.times))
	for i, at := range ts.times {
		record := make(map[string]any, len(ts.keys)+1)
		record[ts.dateKey] = at
		for _, key := range ts.keys {
			record[key] = ts.series[key][i]
		}
		records[i] = record
	}
	return records
}

// Columns returns the series as a map of columns, including the timestamp
// column under the date key.
func (ts *TimeSeries) Columns() map[string][]any {
	columns := make(map[string][]any, len(ts.keys)+1)
	dates := make([]any, len(ts.times))
	for i, at := range ts.times {
		dates[i] = at
	}
	columns[ts.dateKey] = dates
	for _, key := range ts.keys {
		column := make([]any, len(ts.series[key]))
		for i, value := range ts.series[key] {
			column[i] = value
		}
		columns[key] = column
	}
	return columns
}

// DateRange creates an inclusive list of timestamps from from to to with a
// fixed step. If from is after to, only from is returned.
func DateRange(from, to time.Time, resolution time.Duration) []time.Time {
	if from.After(to) {
		return []time.Time{from}
	}
	var result []time.Time
	for current := from; !current.After(to); current = current.Add(resolution) {
		result = append(result, current)
	}
	return result
}
