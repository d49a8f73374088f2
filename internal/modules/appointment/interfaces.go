package appointment

import (
	"context"
	"time"

	"glowstudio/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID int64, upcoming bool, now time.Time, limit int) ([]domain.Appointment, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error)
	UpdateTime(ctx context.Context, id int64, start, end time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	CancelWithReason(ctx context.Context, id int64, reason string, now time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByStatusBetween(ctx context.Context, start, end time.Time) (map[domain.AppointmentStatus]int64, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Scheduler runs the booking-policy checks before anything is written.
type Scheduler interface {
	ValidateAppointment(ctx context.Context, svc *domain.Service, startAt time.Time, excludeID int64) error
}

// Notifier delivers booking lifecycle messages. Implementations log and
// swallow delivery failures; a dead mail server never blocks a booking.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a *domain.Appointment)
	AppointmentConfirmed(ctx context.Context, a *domain.Appointment)
	AppointmentCancelled(ctx context.Context, a *domain.Appointment, reason string)
}
