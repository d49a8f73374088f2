package repository

import (
	"context"
	"errors"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	AppointmentID    int64      `gorm:"column:appointment_id;index"`
	UserID           int64      `gorm:"column:user_id;index"`
	Amount           float64    `gorm:"column:amount"`
	Currency         string     `gorm:"column:currency"`
	Method           string     `gorm:"column:payment_method"`
	Status           string     `gorm:"column:status;index"`
	GatewayPaymentID *string    `gorm:"column:gateway_payment_id;index"`
	PreferenceID     *string    `gorm:"column:preference_id"`
	TransactionID    *string    `gorm:"column:transaction_id"`
	ErrorMessage     *string    `gorm:"column:error_message"`
	ApprovedAt       *time.Time `gorm:"column:approved_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return &domain.Payment{
		ID:               m.ID,
		AppointmentID:    m.AppointmentID,
		UserID:           m.UserID,
		Amount:           m.Amount,
		Currency:         m.Currency,
		Method:           domain.PaymentMethod(m.Method),
		Status:           domain.PaymentStatus(m.Status),
		GatewayPaymentID: deref(m.GatewayPaymentID),
		PreferenceID:     deref(m.PreferenceID),
		TransactionID:    deref(m.TransactionID),
		ErrorMessage:     deref(m.ErrorMessage),
		ApprovedAt:       m.ApprovedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	ref := func(s string) *string {
		if s == "" {
			return nil
		}
		v := s
		return &v
	}
	return paymentModel{
		ID:               p.ID,
		AppointmentID:    p.AppointmentID,
		UserID:           p.UserID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           string(p.Method),
		Status:           string(p.Status),
		GatewayPaymentID: ref(p.GatewayPaymentID),
		PreferenceID:     ref(p.PreferenceID),
		TransactionID:    ref(p.TransactionID),
		ErrorMessage:     ref(p.ErrorMessage),
		ApprovedAt:       p.ApprovedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// GetSettlingByAppointment returns the pending or approved payment for an
// appointment, or nil when the appointment has none. At most one such payment
// may exist.
func (r *PaymentRepository) GetSettlingByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Where("status IN ?", []string{string(domain.PaymentPending), string(domain.PaymentApproved)}).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// GetLatestByAppointment returns the most recent payment row for the
// appointment regardless of status. The webhook correlates by appointment id
// (external reference).
func (r *PaymentRepository) GetLatestByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

func (r *PaymentRepository) List(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	var rows []paymentModel
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":             m.Status,
			"gateway_payment_id": m.GatewayPaymentID,
			"error_message":      m.ErrorMessage,
			"approved_at":        m.ApprovedAt,
			"updated_at":         time.Now().UTC(),
		}).Error
}

// ApprovedRevenueBetween sums approved payments created in [start, end).
func (r *PaymentRepository) ApprovedRevenueBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var total *float64
	tx := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Select("SUM(amount)").
		Where("status = ?", string(domain.PaymentApproved)).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Scan(&total)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

type ServiceRevenue struct {
	ServiceID   int64   `gorm:"column:service_id"`
	ServiceName string  `gorm:"column:service_name"`
	Category    string  `gorm:"column:category"`
	Revenue     float64 `gorm:"column:revenue"`
	Count       int64   `gorm:"column:cnt"`
}

// RevenueByServiceBetween groups approved payment amounts by the booked
// service for the monthly report.
func (r *PaymentRepository) RevenueByServiceBetween(ctx context.Context, start, end time.Time) ([]ServiceRevenue, error) {
	var rows []ServiceRevenue
	q := `
SELECT s.id AS service_id, s.name AS service_name, s.category AS category,
       SUM(p.amount) AS revenue, COUNT(1) AS cnt
FROM payments p
JOIN appointments a ON a.id = p.appointment_id
JOIN services s ON s.id = a.service_id
WHERE p.status = ? AND p.created_at >= ? AND p.created_at < ?
GROUP BY s.id, s.name, s.category
ORDER BY revenue DESC
`
	tx := r.db.WithContext(ctx).Raw(q, string(domain.PaymentApproved), start.UTC(), end.UTC()).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
