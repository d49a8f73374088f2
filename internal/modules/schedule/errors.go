package schedule

import "errors"

// Booking rejections are typed so handlers and tests can tell them apart.
var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service is not active")
	ErrTooSoon         = errors.New("appointment requires more advance notice")
	ErrTooFar          = errors.New("appointment is beyond the booking horizon")
	ErrDayClosed       = errors.New("the studio is closed on this date")
	ErrOutsideHours    = errors.New("appointment is outside business hours")
	ErrSlotTaken       = errors.New("this time slot is not available")

	ErrInvalidRule  = errors.New("invalid availability rule")
	ErrRuleExists   = errors.New("availability rule already exists for this day")
	ErrRuleNotFound = errors.New("availability rule not found")
)
