package auth

import (
	"context"
	"time"

	"glowstudio/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// AppointmentCanceller releases a departing user's upcoming appointments so
// their slots reopen.
type AppointmentCanceller interface {
	CancelAllUpcomingForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error)
}
