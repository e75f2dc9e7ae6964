package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourKeyFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rfc3339 zulu", "2024-01-01T00:30:00Z", "2024-01-01T00:00:00"},
		{"rfc3339 offset", "2024-06-15T13:45:12+02:00", "2024-06-15T13:00:00"},
		{"bare iso", "2024-01-01T10:15:00", "2024-01-01T10:00:00"},
		{"space separated", "2024-01-01 10:15:00", "2024-01-01T10:00:00"},
		{"microseconds", "2024-01-01T10:15:00.123456", "2024-01-01T10:00:00"},
		{"already on the hour", "2024-03-01T23:00:00Z", "2024-03-01T23:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HourKey(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHourKeyKeepsWallClockHour(t *testing.T) {
	// Offsets are not converted to a common zone; the hour is taken as
	// written in the source string.
	got, ok := HourKey("2024-01-01T02:00:00+01:00")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T02:00:00", got)
}

func TestHourKeyRejectsUnrecognizedInput(t *testing.T) {
	for _, in := range []string{"", "not a timestamp", "2024-13-99", "01/02/2024 10:00"} {
		_, ok := HourKey(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestHourKeyIdempotent(t *testing.T) {
	// A canonical key fed back through the normalizer maps to itself.
	key, ok := HourKey("2024-02-29T17:42:01Z")
	require.True(t, ok)

	again, ok := HourKey(key)
	require.True(t, ok)
	assert.Equal(t, key, again)
}

func TestJoinKeyZAccommodation(t *testing.T) {
	zulu, ok := JoinKey("2024-01-01T05:10:00Z")
	require.True(t, ok)

	offset, ok := JoinKey("2024-01-01T05:10:00+00:00")
	require.True(t, ok)

	assert.Equal(t, offset, zulu)
}
