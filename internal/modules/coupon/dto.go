package coupon

import "time"

type CreateCouponRequest struct {
	Code              string     `json:"code" validate:"required,min=3,max=32"`
	Description       string     `json:"description,omitempty"`
	DiscountType      string     `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue     float64    `json:"discount_value" validate:"required,gt=0"`
	MinPurchaseAmount float64    `json:"min_purchase_amount" validate:"gte=0"`
	MaxUses           *int       `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
}

type UpdateCouponRequest struct {
	Description       *string    `json:"description,omitempty"`
	DiscountValue     *float64   `json:"discount_value,omitempty" validate:"omitempty,gt=0"`
	MinPurchaseAmount *float64   `json:"min_purchase_amount,omitempty" validate:"omitempty,gte=0"`
	MaxUses           *int       `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

type ValidateCouponRequest struct {
	Code   string  `json:"code" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Quote is the answer to "what would this coupon do to this amount".
// Nothing is consumed; redemption happens at payment time.
type Quote struct {
	Code        string  `json:"code"`
	Valid       bool    `json:"valid"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
	Reason      string  `json:"reason,omitempty"`
}
