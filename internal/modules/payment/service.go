package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"
	"glowstudio/internal/pkg/mercadopago"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings carries the gateway-facing knobs from config.
type Settings struct {
	Currency        string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
}

type Service struct {
	payments     PaymentRepository
	appointments AppointmentStore
	gateway      Gateway
	coupons      CouponRedeemer
	notifs       Notifier
	settings     Settings
	clock        clock.Clock
}

func NewService(
	payments PaymentRepository,
	appointments AppointmentStore,
	gateway Gateway,
	coupons CouponRedeemer,
	notifs Notifier,
	settings Settings,
	clk clock.Clock,
) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		payments:     payments,
		appointments: appointments,
		gateway:      gateway,
		coupons:      coupons,
		notifs:       notifs,
		settings:     settings,
		clock:        clk,
	}
}

// CreateCheckout opens a hosted gateway checkout for an active appointment.
// The coupon, when given, is redeemed here; the appointment id travels as the
// preference's external reference so the webhook can correlate the result.
func (s *Service) CreateCheckout(ctx context.Context, userID int64, req CreateCheckoutRequest) (*CheckoutResponse, error) {
	a, amount, discount, err := s.prepare(ctx, userID, false, req.AppointmentID, req.CouponCode, 0)
	if err != nil {
		return nil, err
	}

	title := "Appointment"
	if a.Service != nil {
		title = a.Service.Name
	}

	pref, err := s.gateway.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			Title:      title,
			Quantity:   1,
			UnitPrice:  amount,
			CurrencyID: s.settings.Currency,
		}},
		ExternalReference: strconv.FormatInt(a.ID, 10),
		NotificationURL:   s.settings.NotificationURL,
		BackURLs: &mercadopago.BackURLs{
			Success: s.settings.SuccessURL,
			Failure: s.settings.FailureURL,
			Pending: s.settings.PendingURL,
		},
		AutoReturn: "approved",
	})
	if err != nil {
		log.Printf("level=error msg=preference creation failed appointment_id=%d err=%v", a.ID, err)
		return nil, ErrGateway
	}

	p := &domain.Payment{
		AppointmentID: a.ID,
		UserID:        a.UserID,
		Amount:        amount,
		Currency:      s.settings.Currency,
		Method:        domain.MethodMercadoPago,
		Status:        domain.PaymentPending,
		PreferenceID:  pref.ID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		PaymentID:    p.ID,
		PreferenceID: pref.ID,
		CheckoutURL:  pref.InitPoint,
		Amount:       amount,
		Discount:     discount,
		Currency:     s.settings.Currency,
	}, nil
}

// RecordManualPayment registers an on-site payment (cash, transfer, POS) as
// approved immediately and confirms a pending appointment.
func (s *Service) RecordManualPayment(ctx context.Context, req ManualPaymentRequest) (*domain.Payment, error) {
	a, amount, _, err := s.prepare(ctx, 0, true, req.AppointmentID, req.CouponCode, req.Amount)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &domain.Payment{
		AppointmentID: a.ID,
		UserID:        a.UserID,
		Amount:        amount,
		Currency:      s.settings.Currency,
		Method:        domain.PaymentMethod(req.Method),
		Status:        domain.PaymentApproved,
		TransactionID: uuid.NewString(),
		ApprovedAt:    &now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.confirmAppointment(ctx, a, p)
	return p, nil
}

// prepare runs the shared checkout checks: the appointment exists, belongs to
// the payer (unless the caller is staff), is still active, and has no other
// settling payment. It returns the charge amount after any coupon.
func (s *Service) prepare(ctx context.Context, userID int64, staff bool, appointmentID int64, couponCode string, manualAmount float64) (*domain.Appointment, float64, float64, error) {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, 0, ErrAppointmentMissing
		}
		return nil, 0, 0, err
	}
	if !staff && a.UserID != userID {
		return nil, 0, 0, ErrForbidden
	}
	if !a.IsActive() {
		return nil, 0, 0, ErrNotPayable
	}

	settling, err := s.payments.GetSettlingByAppointment(ctx, a.ID)
	if err != nil {
		return nil, 0, 0, err
	}
	if settling != nil {
		return nil, 0, 0, ErrAlreadySettling
	}

	amount := manualAmount
	if amount == 0 {
		if a.Service == nil {
			return nil, 0, 0, fmt.Errorf("appointment %d has no service loaded", a.ID)
		}
		amount = a.Service.Price
	}

	var discount float64
	if couponCode != "" && s.coupons != nil {
		_, discount, err = s.coupons.Redeem(ctx, couponCode, amount)
		if err != nil {
			return nil, 0, 0, err
		}
		amount -= discount
		if amount < 0 {
			amount = 0
		}
	}

	return a, amount, discount, nil
}

// HandleWebhook processes a gateway notification. Non-payment types are
// acknowledged and dropped. The flow is fetch payment info, correlate via
// external_reference, update the stored payment, and on approval confirm the
// appointment. Unknown references are logged and acknowledged so the gateway
// stops retrying.
func (s *Service) HandleWebhook(ctx context.Context, n WebhookNotification) error {
	if n.Type != "payment" || n.Data.ID == "" {
		return nil
	}

	info, err := s.gateway.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", n.Data.ID, err)
	}

	appointmentID, err := strconv.ParseInt(info.ExternalReference, 10, 64)
	if err != nil || appointmentID <= 0 {
		log.Printf("level=warn msg=webhook with unusable external reference payment_id=%d ref=%q", info.ID, info.ExternalReference)
		return nil
	}

	p, err := s.payments.GetLatestByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("level=warn msg=webhook for unknown appointment appointment_id=%d payment_id=%d", appointmentID, info.ID)
			return nil
		}
		return err
	}

	next := mapGatewayStatus(info.Status)
	if p.Status == next && p.GatewayPaymentID != "" {
		// Gateways redeliver; a repeated notification changes nothing.
		return nil
	}

	p.Status = next
	p.GatewayPaymentID = strconv.FormatInt(info.ID, 10)
	if next == domain.PaymentApproved {
		now := s.clock.Now()
		p.ApprovedAt = &now
	}
	if next == domain.PaymentRejected {
		p.ErrorMessage = info.StatusDetail
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return err
	}

	if next == domain.PaymentApproved {
		a, err := s.appointments.GetByID(ctx, appointmentID)
		if err == nil {
			s.confirmAppointment(ctx, a, p)
		}
	}
	return nil
}

// confirmAppointment moves a pending appointment to confirmed after an
// approved payment and fires the notifications.
func (s *Service) confirmAppointment(ctx context.Context, a *domain.Appointment, p *domain.Payment) {
	if a.CanTransitionTo(domain.AppointmentConfirmed) {
		if err := s.appointments.UpdateStatus(ctx, a.ID, domain.AppointmentConfirmed); err != nil {
			log.Printf("level=error msg=confirm after payment failed appointment_id=%d err=%v", a.ID, err)
			return
		}
		a.Status = domain.AppointmentConfirmed
		if s.notifs != nil {
			s.notifs.AppointmentConfirmed(ctx, a)
		}
	}
	if s.notifs != nil {
		s.notifs.PaymentReceived(ctx, p, a)
	}
}

func mapGatewayStatus(status string) domain.PaymentStatus {
	switch status {
	case "approved":
		return domain.PaymentApproved
	case "rejected":
		return domain.PaymentRejected
	case "cancelled":
		return domain.PaymentCancelled
	case "refunded", "charged_back":
		return domain.PaymentRefunded
	default:
		return domain.PaymentPending
	}
}

func (s *Service) Get(ctx context.Context, id, actorID int64, isAdmin bool) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && p.UserID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.payments.List(ctx, limit, offset)
}
