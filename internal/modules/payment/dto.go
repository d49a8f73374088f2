package payment

type CreateCheckoutRequest struct {
	AppointmentID int64  `json:"appointment_id" validate:"required,gt=0"`
	CouponCode    string `json:"coupon_code,omitempty"`
}

type CheckoutResponse struct {
	PaymentID    int64   `json:"payment_id"`
	PreferenceID string  `json:"preference_id"`
	CheckoutURL  string  `json:"checkout_url"`
	Amount       float64 `json:"amount"`
	Discount     float64 `json:"discount"`
	Currency     string  `json:"currency"`
}

// WebhookNotification is the body Mercado Pago posts. Only type=payment
// notifications carry anything actionable.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type ManualPaymentRequest struct {
	AppointmentID int64   `json:"appointment_id" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"payment_method" validate:"required,oneof=cash transfer card_pos"`
	CouponCode    string  `json:"coupon_code,omitempty"`
}
