package coupon

import "time"

type Coupon struct {
	ID                 uint
	Code               string
	UserID             uint
	DiscountPercentage int
	IsActive           bool
	Redeemed           bool
	RedeemedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const (
	// Discount percentage bounds enforced at creation.
	MinDiscountPercentage = 1
	MaxDiscountPercentage = 70

	// WelcomePercent is the discount granted on email verification.
	WelcomePercent = 30
)
