package coupon

import "errors"

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrAlreadyRedeemed  = errors.New("coupon already redeemed")
	ErrInvalidPercent   = errors.New("discount percentage out of range")
	ErrUserNotSpecified = errors.New("coupon requires an owning user")
)
