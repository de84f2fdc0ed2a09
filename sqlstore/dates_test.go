package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("DateOnly", func(t *testing.T) {
		parsed, err := ParseDate("2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
		assert.Equal(t, 10, parsed.Day())
		assert.Equal(t, 0, parsed.Hour())
	})

	t.Run("DateTime", func(t *testing.T) {
		parsed, err := ParseDate("2024-03-10 08:30:15")
		require.NoError(t, err)
		assert.Equal(t, 8, parsed.Hour())
		assert.Equal(t, 30, parsed.Minute())
		assert.Equal(t, 15, parsed.Second())
	})

	t.Run("Unrecognised", func(t *testing.T) {
		_, err := ParseDate("10/03/2024")
		assert.Error(t, err)
	})

	t.Run("InvalidContent", func(t *testing.T) {
		_, err := ParseDate("2024-13-45")
		assert.Error(t, err)
	})
}

func TestTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	formatted := FormatTimestamp(1710059415)
	parsed, err := ParseTimestamp(formatted)
	require.NoError(t, err)
	assert.Equal(t, int64(1710059415), parsed)
}

func TestFormatDateTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 10, 8, 30, 15, 0, time.Local)
	assert.Equal(t, "2024-03-10 08:30:15", FormatDateTime(at))
}
