package coupon

import "errors"

var (
	ErrNotFound   = errors.New("coupon not found")
	ErrInvalid    = errors.New("coupon is not valid")
	ErrExhausted  = errors.New("coupon has no remaining uses")
	ErrCodeTaken  = errors.New("coupon code already exists")
	ErrValidation = errors.New("invalid coupon data")
)
