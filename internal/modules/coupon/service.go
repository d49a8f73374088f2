package coupon

import (
	"context"
	"errors"
	"strings"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	coupons CouponRepository
	clock   clock.Clock
}

func NewService(coupons CouponRepository, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{coupons: coupons, clock: clk}
}

// Quote answers what a code would do to amount without consuming a use.
// Invalid codes come back as a Quote with Valid=false instead of an error so
// the checkout UI can show the reason inline.
func (s *Service) Quote(ctx context.Context, code string, amount float64) (*Quote, error) {
	q := &Quote{Code: domain.NormalizeCouponCode(code), FinalAmount: amount}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			q.Reason = "coupon not found"
			return q, nil
		}
		return nil, err
	}

	if !c.IsValidAt(s.clock.Now()) {
		q.Reason = "coupon is expired or exhausted"
		return q, nil
	}
	if amount < c.MinPurchaseAmount {
		q.Reason = "amount below the minimum purchase"
		return q, nil
	}

	q.Valid = true
	q.Discount = c.CalculateDiscount(amount)
	q.FinalAmount = c.ApplyDiscount(amount)
	return q, nil
}

// Redeem validates the code against amount and consumes one use. The counter
// increment is a guarded single-statement update, so two concurrent
// redemptions of a coupon's last use cannot both succeed.
func (s *Service) Redeem(ctx context.Context, code string, amount float64) (*domain.Coupon, float64, error) {
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	if !c.IsValidAt(s.clock.Now()) {
		return nil, 0, ErrInvalid
	}
	if amount < c.MinPurchaseAmount {
		return nil, 0, ErrInvalid
	}

	ok, err := s.coupons.Redeem(ctx, c.ID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrExhausted
	}
	c.UsesCount++

	return c, c.CalculateDiscount(amount), nil
}

/* ---------- ADMIN CRUD ---------- */

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Coupon, error) {
	c, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	typ := domain.DiscountType(req.DiscountType)
	if typ == domain.DiscountPercentage && req.DiscountValue > 100 {
		return nil, ErrValidation
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, ErrValidation
	}

	c := &domain.Coupon{
		Code:              domain.NormalizeCouponCode(req.Code),
		Description:       req.Description,
		Type:              typ,
		Value:             req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxUses:           req.MaxUses,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
	}

	if err := s.coupons.Create(ctx, c); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrCodeTaken
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCouponRequest) (*domain.Coupon, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.DiscountValue != nil {
		if c.Type == domain.DiscountPercentage && *req.DiscountValue > 100 {
			return nil, ErrValidation
		}
		c.Value = *req.DiscountValue
	}
	if req.MinPurchaseAmount != nil {
		c.MinPurchaseAmount = *req.MinPurchaseAmount
	}
	if req.MaxUses != nil {
		c.MaxUses = req.MaxUses
	}
	if req.ValidFrom != nil {
		c.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		c.ValidUntil = req.ValidUntil
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return nil, ErrValidation
	}

	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.coupons.Delete(ctx, id)
}
