package schedule

import (
	"testing"
	"time"

	"glowstudio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyRule(day int, start, end string) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		DayOfWeek:   &day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
}

func overrideRule(date time.Time, start, end string, available bool) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		SpecificDate: &date,
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  available,
	}
}

func TestResolveHours_WeeklyOnly(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // Tuesday

	open, close, ok, err := resolveHours(nil, weeklyRule(1, "09:00", "20:00"), date, time.UTC)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), open)
	assert.Equal(t, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC), close)
}

func TestResolveHours_OverrideSupersedesWeekly(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	weekly := weeklyRule(1, "09:00", "20:00")

	open, close, ok, err := resolveHours(overrideRule(date, "12:00", "16:00", true), weekly, date, time.UTC)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, open.Hour())
	assert.Equal(t, 16, close.Hour())
}

func TestResolveHours_ClosedOverrideWinsOverOpenWeekly(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	weekly := weeklyRule(1, "09:00", "20:00")

	_, _, ok, err := resolveHours(overrideRule(date, "", "", false), weekly, date, time.UTC)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveHours_NoRulesMeansClosed(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, _, ok, err := resolveHours(nil, nil, date, time.UTC)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveHours_UnavailableWeekly(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	weekly := weeklyRule(1, "09:00", "20:00")
	weekly.IsAvailable = false

	_, _, ok, err := resolveHours(nil, weekly, date, time.UTC)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveHours_StudioTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	open, _, ok, err := resolveHours(nil, weeklyRule(1, "09:00", "20:00"), date, loc)
	require.NoError(t, err)
	require.True(t, ok)
	// 09:00 in Buenos Aires (UTC-3) is 12:00 UTC.
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), open)
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, err = parseClock("25:00")
	assert.Error(t, err)

	_, _, err = parseClock("nope")
	assert.Error(t, err)
}

func TestWeekdayConvention(t *testing.T) {
	// Monday is 0, Sunday is 6.
	assert.Equal(t, 0, domain.Weekday(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, domain.Weekday(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, domain.Weekday(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}
