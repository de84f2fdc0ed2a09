package sqlstore

import (
	"fmt"
	"time"
)

// MySQL date layouts.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseDate parses a MySQL date or datetime string into a time.Time in the
// local zone. The layout is detected from the string length.
func ParseDate(value string) (time.Time, error) {
	var layout string
	switch len(value) {
	case len(DateLayout):
		layout = DateLayout
	case len(DateTimeLayout):
		layout = DateTimeLayout
	default:
		return time.Time{}, fmt.Errorf("unrecognised date string %q", value)
	}

	parsed, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	return parsed, nil
}

// ParseTimestamp parses a MySQL date or datetime string into a unix
// timestamp in the local zone.
func ParseTimestamp(value string) (int64, error) {
	parsed, err := ParseDate(value)
	if err != nil {
		return 0, err
	}
	return parsed.Unix(), nil
}

// FormatDateTime formats a time into a MySQL datetime string in the local
// zone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLayout)
}

// FormatTimestamp formats a unix timestamp into a MySQL datetime string in
// the local zone.
func FormatTimestamp(timestamp int64) string {
	return FormatDateTime(time.Unix(timestamp, 0))
}
