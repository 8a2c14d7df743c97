package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampTZOffsetMinutes(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 0},
		{840, 840},
		{-840, -840},
		{1000, 840},
		{-1000, -840},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClampTZOffsetMinutes(c.in))
	}
}

func TestDayWindow_SpansExactly24Hours(t *testing.T) {
	start, end, err := DayWindow("2026-03-15", -300) // UTC-5
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, time.Date(2026, 3, 15, 5, 0, 0, 0, time.UTC), start)
}

func TestDayWindow_ZeroOffsetIsUTCMidnight(t *testing.T) {
	start, end, err := DayWindow("2026-01-01", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), end)
}

func TestDayWindow_InvalidDate(t *testing.T) {
	_, _, err := DayWindow("not-a-date", 0)
	require.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0m"},
		{-5, "0m"},
		{29, "0m"},
		{30, "1m"},
		{59, "1m"},
		{3600, "1h"},
		{3660, "1h 1m"},
		{7199, "2h"},
		{7230, "2h 1m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.seconds), "seconds=%d", c.seconds)
	}
}
