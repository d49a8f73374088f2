package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// appointmentTransitions is the single source of truth for status changes.
// Handlers and the sweeper go through CanTransitionTo instead of re-validating
// status strings on their own.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted: {},
	AppointmentCancelled: {},
}

// Appointment is a reservation of a Service at a point in time. StartTime and
// EndTime are absolute UTC instants; EndTime is fixed at booking time from the
// service duration and does not move when the service is later edited.
type Appointment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id" validate:"required"`
	ServiceID int64     `json:"service_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`

	Status AppointmentStatus `json:"status"`
	Notes  string            `json:"notes,omitempty" gorm:"type:text"`

	ReminderSent bool `json:"reminder_sent"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// IsActive reports whether the appointment still occupies its time window.
// Only active appointments are conflict-relevant.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

func (a *Appointment) CanBeCancelled() bool {
	return a.IsActive()
}

func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range appointmentTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}
