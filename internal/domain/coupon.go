package domain

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

type Coupon struct {
	ID          int64        `json:"id"`
	Code        string       `json:"code" validate:"required"`
	Description string       `json:"description,omitempty"`
	Type        DiscountType `json:"discount_type" validate:"required"`
	// Percentage coupons: 0-100. Fixed-amount coupons: discount in currency units.
	Value             float64    `json:"discount_value" validate:"required,gt=0"`
	MinPurchaseAmount float64    `json:"min_purchase_amount"`
	MaxUses           *int       `json:"max_uses,omitempty"` // nil = unlimited
	UsesCount         int        `json:"uses_count"`
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NormalizeCouponCode is the canonical form codes are stored and looked up in.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidAt gates redemption: active flag, usage cap, validity window.
// Discount arithmetic below deliberately does not re-check this; callers
// validate first.
func (c *Coupon) IsValidAt(today time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if c.ValidFrom != nil && day.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && day.After(*c.ValidUntil) {
		return false
	}
	return true
}

func (c *Coupon) RemainingUses() *int {
	if c.MaxUses == nil {
		return nil
	}
	r := *c.MaxUses - c.UsesCount
	if r < 0 {
		r = 0
	}
	return &r
}

// CalculateDiscount returns the discount for amount. Below the minimum
// purchase threshold the discount is zero; it is capped so the final price
// never goes negative.
func (c *Coupon) CalculateDiscount(amount float64) float64 {
	if amount < c.MinPurchaseAmount {
		return 0
	}
	var discount float64
	if c.Type == DiscountPercentage {
		discount = amount * (c.Value / 100)
	} else {
		discount = c.Value
	}
	if discount > amount {
		discount = amount
	}
	return discount
}

func (c *Coupon) ApplyDiscount(amount float64) float64 {
	final := amount - c.CalculateDiscount(amount)
	if final < 0 {
		final = 0
	}
	return final
}
