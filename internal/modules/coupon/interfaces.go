package coupon

import (
	"context"

	"glowstudio/internal/domain"
)

type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	GetByID(ctx context.Context, id int64) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Update(ctx context.Context, c *domain.Coupon) error
	Delete(ctx context.Context, id int64) error
	Redeem(ctx context.Context, id int64) (bool, error)
}
