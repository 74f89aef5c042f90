package mailer

import "context"

// Mailer sends transactional mail. Every call site treats failures as
// log-only; delivery is never allowed to fail a committed operation.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
	SendWelcomeCoupon(ctx context.Context, email, name, code string, percent int) error
	SendOrderConfirmation(ctx context.Context, email string, params OrderConfirmationParams) error
	SendOrderDispatched(ctx context.Context, email string, params OrderDispatchedParams) error
}

type OrderConfirmationParams struct {
	Name    string
	OrderID string
	Total   string
}

type OrderDispatchedParams struct {
	Name    string
	OrderID string
	ETADate string
	Items   []DispatchedItem
}

type DispatchedItem struct {
	Name     string
	Image    string
	Quantity int
}
