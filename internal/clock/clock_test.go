package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/clock"
)

func TestDayOf_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	instant := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, clock.Day("2024-01-10"), clock.DayOf(instant, time.UTC))
	assert.Equal(t, clock.Day("2024-01-11"), clock.DayOf(instant, tokyo))
	assert.Equal(t, clock.Day("2024-01-10"), clock.DayOf(instant, nil))
}

func TestDayArithmetic(t *testing.T) {
	d := clock.MustDay("2024-02-28")

	assert.Equal(t, clock.Day("2024-02-29"), d.AddDays(1))
	assert.Equal(t, clock.Day("2024-03-01"), d.AddDays(2))
	assert.Equal(t, clock.Day("2024-02-22"), d.AddDays(-6))
	assert.Equal(t, 2, clock.DaysBetween(d, d.AddDays(2)))
	assert.Equal(t, -3, clock.DaysBetween(d, d.AddDays(-3)))
	assert.True(t, d.Before(d.AddDays(1)))
}

func TestDayBounds(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d := clock.MustDay("2024-01-10")
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, ny), d.Start(ny))
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, ny), d.End(ny))
}

func TestParseDay_RejectsGarbage(t *testing.T) {
	_, err := clock.ParseDay("10/01/2024")
	assert.Error(t, err)

	d, err := clock.ParseDay("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", d.String())
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	c := clock.NewFixed(start)

	assert.Equal(t, start, c.Now())
	c.Advance(36 * time.Hour)
	assert.Equal(t, start.Add(36*time.Hour), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestDayScan(t *testing.T) {
	var d clock.Day
	require.NoError(t, d.Scan("2024-01-10"))
	assert.Equal(t, clock.Day("2024-01-10"), d)

	require.NoError(t, d.Scan([]byte("2024-01-11")))
	assert.Equal(t, clock.Day("2024-01-11"), d)

	assert.Error(t, d.Scan(42))
}
