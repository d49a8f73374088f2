package coupon

import (
	"context"
	"testing"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	args := m.Called(ctx, c)
	if c != nil && args.Error(0) == nil {
		c.ID = 21
	}
	return args.Error(0)
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) Redeem(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func welcomeCoupon() *domain.Coupon {
	return &domain.Coupon{
		ID:       21,
		Code:     "WELCOME10",
		Type:     domain.DiscountPercentage,
		Value:    10,
		IsActive: true,
	}
}

func TestQuote_PercentageDiscount(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, "welcome10").Return(welcomeCoupon(), nil)

	s := NewService(repo, clock.FixedAt(testNow))
	q, err := s.Quote(context.Background(), "welcome10", 8000)
	require.NoError(t, err)

	assert.True(t, q.Valid)
	assert.Equal(t, "WELCOME10", q.Code)
	assert.Equal(t, 800.0, q.Discount)
	assert.Equal(t, 7200.0, q.FinalAmount)
}

func TestQuote_FixedDiscountCappedAtAmount(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(&domain.Coupon{
		ID:       22,
		Code:     "GIFT5000",
		Type:     domain.DiscountFixedAmount,
		Value:    5000,
		IsActive: true,
	}, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	q, err := s.Quote(context.Background(), "GIFT5000", 3000)
	require.NoError(t, err)

	assert.True(t, q.Valid)
	// A 5000 voucher on a 3000 purchase discounts 3000 and never goes negative.
	assert.Equal(t, 3000.0, q.Discount)
	assert.Equal(t, 0.0, q.FinalAmount)
}

func TestQuote_BelowMinimumPurchase(t *testing.T) {
	repo := new(MockCouponRepository)
	c := welcomeCoupon()
	c.MinPurchaseAmount = 10000
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(c, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	q, err := s.Quote(context.Background(), "WELCOME10", 8000)
	require.NoError(t, err)

	assert.False(t, q.Valid)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 8000.0, q.FinalAmount)
}

func TestQuote_UnknownCodeIsNotAnError(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	s := NewService(repo, clock.FixedAt(testNow))
	q, err := s.Quote(context.Background(), "NOPE", 8000)
	require.NoError(t, err)
	assert.False(t, q.Valid)
	assert.NotEmpty(t, q.Reason)
}

func TestQuote_ExpiredCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	c := welcomeCoupon()
	until := testNow.AddDate(0, 0, -1)
	c.ValidUntil = &until
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(c, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	q, err := s.Quote(context.Background(), "WELCOME10", 8000)
	require.NoError(t, err)
	assert.False(t, q.Valid)
}

func TestRedeem_ConsumesOneUse(t *testing.T) {
	repo := new(MockCouponRepository)
	max := 5
	c := welcomeCoupon()
	c.MaxUses = &max
	c.UsesCount = 3
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(c, nil)
	repo.On("Redeem", mock.Anything, int64(21)).Return(true, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	got, discount, err := s.Redeem(context.Background(), "WELCOME10", 8000)
	require.NoError(t, err)

	assert.Equal(t, 800.0, discount)
	assert.Equal(t, 4, got.UsesCount)
}

func TestRedeem_ExhaustedByConcurrentUse(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(welcomeCoupon(), nil)
	// The guarded update lost the race: cap reached between read and write.
	repo.On("Redeem", mock.Anything, int64(21)).Return(false, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	_, _, err := s.Redeem(context.Background(), "WELCOME10", 8000)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestRedeem_InvalidCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	c := welcomeCoupon()
	c.IsActive = false
	repo.On("GetByCode", mock.Anything, mock.Anything).Return(c, nil)

	s := NewService(repo, clock.FixedAt(testNow))
	_, _, err := s.Redeem(context.Background(), "WELCOME10", 8000)
	assert.ErrorIs(t, err, ErrInvalid)
	repo.AssertNotCalled(t, "Redeem", mock.Anything, mock.Anything)
}

func TestCreate_NormalizesCode(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := NewService(repo, clock.FixedAt(testNow))
	c, err := s.Create(context.Background(), CreateCouponRequest{
		Code:          "  summer25 ",
		DiscountType:  "percentage",
		DiscountValue: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", c.Code)
	assert.True(t, c.IsActive)
}

func TestCreate_RejectsPercentageOver100(t *testing.T) {
	s := NewService(new(MockCouponRepository), clock.FixedAt(testNow))
	_, err := s.Create(context.Background(), CreateCouponRequest{
		Code:          "BROKEN",
		DiscountType:  "percentage",
		DiscountValue: 150,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_RejectsInvertedValidityWindow(t *testing.T) {
	s := NewService(new(MockCouponRepository), clock.FixedAt(testNow))
	from := testNow
	until := testNow.AddDate(0, 0, -7)
	_, err := s.Create(context.Background(), CreateCouponRequest{
		Code:          "BACKWARDS",
		DiscountType:  "fixed_amount",
		DiscountValue: 1000,
		ValidFrom:     &from,
		ValidUntil:    &until,
	})
	assert.ErrorIs(t, err, ErrValidation)
}
