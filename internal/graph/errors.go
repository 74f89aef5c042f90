package graph

import (
	"errors"

	"storefront-be/internal/analytics"
	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	codeBadUserInput    = "BAD_USER_INPUT"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeForbidden       = "FORBIDDEN"
	codeInternal        = "INTERNAL_SERVER_ERROR"
)

func gqlError(message, code string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Extensions: map[string]interface{}{"code": code},
	}
}

func errUnauthenticated() *gqlerror.Error {
	return gqlError("please login first", codeUnauthenticated)
}

var badInputErrors = []error{
	product.ErrProductNotFound,
	product.ErrProductsNotFound,
	product.ErrNothingToUpdate,
	cart.ErrInvalidQuantity,
	cart.ErrCartItemNotFound,
	coupon.ErrCouponNotFound,
	coupon.ErrAlreadyRedeemed,
	coupon.ErrInvalidPercent,
	user.ErrEmailExists,
	user.ErrInvalidCredentials,
	user.ErrInvalidCode,
	user.ErrAlreadyVerified,
	order.ErrEmptyCheckout,
	order.ErrInvalidQuantity,
	order.ErrPaymentNotCompleted,
	order.ErrOrderNotFound,
	order.ErrInvalidTransition,
	analytics.ErrInvalidDateRange,
}

// domainError translates service errors into GraphQL errors with a
// machine-readable extension code.
func domainError(err error) *gqlerror.Error {
	var stockErr *order.InsufficientStockError
	if errors.As(err, &stockErr) {
		return gqlError(stockErr.Error(), codeBadUserInput)
	}

	switch {
	case errors.Is(err, order.ErrSessionForbidden),
		errors.Is(err, order.ErrOrderForbidden):
		return gqlError(err.Error(), codeForbidden)
	}

	for _, known := range badInputErrors {
		if errors.Is(err, known) {
			return gqlError(err.Error(), codeBadUserInput)
		}
	}

	return gqlError(err.Error(), codeInternal)
}
