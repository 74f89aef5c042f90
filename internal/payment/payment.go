package payment

import "context"

// Gateway is the boundary to the hosted payment-session provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	ListLineItems(ctx context.Context, sessionID string) ([]LineItem, error)
	CreatePercentCoupon(ctx context.Context, percent int) (string, error)
}
