package cart

import "errors"

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrInvalidQuantity      = errors.New("invalid cart quantity")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartEmpty            = errors.New("cart is already empty")
)

// PgUniqueViolation is the Postgres error code for unique-constraint hits.
const PgUniqueViolation = "23505"
