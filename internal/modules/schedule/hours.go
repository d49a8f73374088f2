package schedule

import (
	"fmt"
	"time"

	"glowstudio/internal/domain"
)

// parseClock parses a "HH:MM" wall-clock value.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// windowOnDate places a rule's wall-clock window onto a calendar date in the
// studio timezone and returns both bounds as UTC instants.
func windowOnDate(rule *domain.AvailabilityRule, date time.Time, loc *time.Location) (open, close time.Time, err error) {
	oh, om, err := parseClock(rule.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	ch, cm, err := parseClock(rule.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day := date.In(loc)
	open = time.Date(day.Year(), day.Month(), day.Day(), oh, om, 0, 0, loc).UTC()
	close = time.Date(day.Year(), day.Month(), day.Day(), ch, cm, 0, 0, loc).UTC()
	return open, close, nil
}

// resolveHours picks the open window for a date. A date-specific override,
// when present, fully supersedes the weekly rule, including overrides that
// close the day. A day with neither rule is closed; absence of data is not an
// error.
func resolveHours(override, weekly *domain.AvailabilityRule, date time.Time, loc *time.Location) (open, close time.Time, ok bool, err error) {
	rule := weekly
	if override != nil {
		rule = override
	}
	if rule == nil || !rule.IsAvailable {
		return time.Time{}, time.Time{}, false, nil
	}
	if rule.StartTime == "" || rule.EndTime == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	open, close, err = windowOnDate(rule, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !close.After(open) {
		return time.Time{}, time.Time{}, false, nil
	}
	return open, close, true, nil
}
