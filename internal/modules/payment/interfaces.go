package payment

import (
	"context"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/mercadopago"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetSettlingByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error)
	GetLatestByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	List(ctx context.Context, limit, offset int) ([]domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// Gateway is the Mercado Pago surface the checkout flow touches.
type Gateway interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.PaymentInfo, error)
}

// CouponRedeemer consumes a coupon use and returns the discount for amount.
type CouponRedeemer interface {
	Redeem(ctx context.Context, code string, amount float64) (*domain.Coupon, float64, error)
}

type Notifier interface {
	AppointmentConfirmed(ctx context.Context, a *domain.Appointment)
	PaymentReceived(ctx context.Context, p *domain.Payment, a *domain.Appointment)
}
