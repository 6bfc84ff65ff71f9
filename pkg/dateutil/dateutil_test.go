package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToExternal(t *testing.T) {
	d, err := ParseISO("2024-01-05")
	require.NoError(t, err)

	out, err := ToExternal(d)
	require.NoError(t, err)
	assert.Equal(t, "05/01/2024", out)

	_, err = ToExternal(time.Time{})
	assert.ErrorIs(t, err, ErrZeroDate)
}

func TestParseFlexible(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-01 10:30:00":         time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		"2024-01-01":                  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"27/06/2025":                  time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC),
		"01-02-2024 08:00":            time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		"2024/03/04 05:06:07":         time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC),
		"2024-01-01T10:30:00Z":        time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		"2024-01-01 10:30:00.5+00:00": time.Date(2024, 1, 1, 10, 30, 0, 500000000, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseFlexible(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), "%s: got %v", in, got)
	}

	_, ok := ParseFlexible("yesterday")
	assert.False(t, ok)
	_, ok = ParseFlexible("  ")
	assert.False(t, ok)
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "", FormatDisplay(nil))
	d := time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "27/06/2025", FormatDisplay(&d))
}
