package schedule

import (
	"context"
	"time"

	"glowstudio/internal/domain"
)

// RuleRepository persists availability rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) error
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	List(ctx context.Context) ([]domain.AvailabilityRule, error)
	GetWeekly(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
	GetOverride(ctx context.Context, date time.Time) (*domain.AvailabilityRule, error)
	Update(ctx context.Context, rule *domain.AvailabilityRule) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentReader exposes the conflict-relevant view of stored bookings.
type AppointmentReader interface {
	ListActiveBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error)
	CountActiveOverlapping(ctx context.Context, start, end time.Time, excludeID int64) (int64, error)
}

// ServiceReader looks up the booked service.
type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}
