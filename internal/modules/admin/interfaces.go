package admin

import (
	"context"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/repository"
)

type AppointmentReader interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error)
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]domain.Appointment, error)
	CountByStatusBetween(ctx context.Context, start, end time.Time) (map[domain.AppointmentStatus]int64, error)
}

type PaymentReader interface {
	ApprovedRevenueBetween(ctx context.Context, start, end time.Time) (float64, error)
	RevenueByServiceBetween(ctx context.Context, start, end time.Time) ([]repository.ServiceRevenue, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type ServiceCounter interface {
	CountActive(ctx context.Context) (int64, error)
}
