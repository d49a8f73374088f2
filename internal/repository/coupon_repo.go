package repository

import (
	"context"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

type couponModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	Code              string     `gorm:"column:code;uniqueIndex"`
	Description       *string    `gorm:"column:description"`
	DiscountType      string     `gorm:"column:discount_type"`
	DiscountValue     float64    `gorm:"column:discount_value"`
	MinPurchaseAmount float64    `gorm:"column:min_purchase_amount"`
	MaxUses           *int       `gorm:"column:max_uses"`
	UsesCount         int        `gorm:"column:uses_count"`
	ValidFrom         *time.Time `gorm:"column:valid_from"`
	ValidUntil        *time.Time `gorm:"column:valid_until"`
	IsActive          bool       `gorm:"column:is_active"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (couponModel) TableName() string { return "coupons" }

func toDomainCoupon(m couponModel) *domain.Coupon {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Coupon{
		ID:                m.ID,
		Code:              m.Code,
		Description:       desc,
		Type:              domain.DiscountType(m.DiscountType),
		Value:             m.DiscountValue,
		MinPurchaseAmount: m.MinPurchaseAmount,
		MaxUses:           m.MaxUses,
		UsesCount:         m.UsesCount,
		ValidFrom:         m.ValidFrom,
		ValidUntil:        m.ValidUntil,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toCouponModel(c *domain.Coupon) couponModel {
	var desc *string
	if c.Description != "" {
		v := c.Description
		desc = &v
	}
	return couponModel{
		ID:                c.ID,
		Code:              domain.NormalizeCouponCode(c.Code),
		Description:       desc,
		DiscountType:      string(c.Type),
		DiscountValue:     c.Value,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxUses:           c.MaxUses,
		UsesCount:         c.UsesCount,
		ValidFrom:         c.ValidFrom,
		ValidUntil:        c.ValidUntil,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	m := toCouponModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCoupon(m)
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	var m couponModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var m couponModel
	tx := r.db.WithContext(ctx).
		Where("code = ?", domain.NormalizeCouponCode(code)).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	var rows []couponModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Coupon, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCoupon(m))
	}
	return out, nil
}

func (r *CouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	m := toCouponModel(c)
	return r.db.WithContext(ctx).
		Model(&couponModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"description":         m.Description,
			"discount_type":       m.DiscountType,
			"discount_value":      m.DiscountValue,
			"min_purchase_amount": m.MinPurchaseAmount,
			"max_uses":            m.MaxUses,
			"valid_from":          m.ValidFrom,
			"valid_until":         m.ValidUntil,
			"is_active":           m.IsActive,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&couponModel{}, id).Error
}

// Redeem increments uses_count iff the cap has not been reached. The guarded
// single-statement update keeps concurrent redemptions from exceeding
// max_uses; the returned bool is false when the coupon was already exhausted.
func (r *CouponRepository) Redeem(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE coupons
SET uses_count = uses_count + 1, updated_at = ?
WHERE id = ? AND (max_uses IS NULL OR uses_count < max_uses)
`, time.Now().UTC(), id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
