package domain

import "time"

// AvailabilityRule defines when the studio is open. A rule is either weekly
// (DayOfWeek set, 0=Monday .. 6=Sunday) or a date-specific override
// (SpecificDate set), never both. An override fully supersedes the weekly rule
// for its date, including the IsAvailable=false "closed all day" case, in which
// StartTime/EndTime may be empty.
type AvailabilityRule struct {
	ID           int64      `json:"id"`
	DayOfWeek    *int       `json:"day_of_week,omitempty"`
	SpecificDate *time.Time `json:"specific_date,omitempty"`
	StartTime    string     `json:"start_time,omitempty"` // "HH:MM" studio-local wall clock
	EndTime      string     `json:"end_time,omitempty"`
	IsAvailable  bool       `json:"is_available"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (r *AvailabilityRule) IsWeekly() bool {
	return r.DayOfWeek != nil && r.SpecificDate == nil
}

func (r *AvailabilityRule) IsOverride() bool {
	return r.SpecificDate != nil
}

// Weekday maps time.Weekday (Sunday=0) onto the Monday=0 convention the rules
// are stored with.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
