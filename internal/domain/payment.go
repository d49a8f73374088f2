package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodMercadoPago PaymentMethod = "mercadopago"
	MethodCash        PaymentMethod = "cash"
	MethodTransfer    PaymentMethod = "transfer"
	MethodCardPOS     PaymentMethod = "card_pos"
)

// Payment is one checkout attempt for an appointment. At most one payment in
// pending or approved status may exist per appointment.
type Payment struct {
	ID            int64         `json:"id"`
	AppointmentID int64         `json:"appointment_id" validate:"required"`
	UserID        int64         `json:"user_id" validate:"required"`
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"payment_method"`
	Status        PaymentStatus `json:"status"`

	// Gateway correlation. GatewayPaymentID arrives with the webhook,
	// PreferenceID is assigned at checkout creation.
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	PreferenceID     string `json:"preference_id,omitempty"`
	TransactionID    string `json:"transaction_id,omitempty"`

	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsSettling reports whether the payment still blocks a new checkout for its
// appointment.
func (p *Payment) IsSettling() bool {
	return p.Status == PaymentPending || p.Status == PaymentApproved
}
