package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderForbidden      = errors.New("cannot access another user's order")
	ErrEmptyCheckout       = errors.New("invalid or empty products array")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrSessionRetrieval    = errors.New("unable to retrieve payment session")
	ErrSessionForbidden    = errors.New("checkout session does not belong to this user")
	ErrUnreconcilableItems = errors.New("no purchasable items found in checkout session")
	ErrInvalidTransition   = errors.New("invalid fulfillment status transition")
)

// InsufficientStockError aborts order confirmation when a product cannot
// cover the purchased quantity anymore.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
