package payment

// Metadata keys attached to every checkout session. The products entry is
// a JSON array of {id, quantity} pairs because the provider's line items
// do not carry internal product ids back on their own.
const (
	MetaUserID     = "user_id"
	MetaCouponCode = "coupon_code"
	MetaProducts   = "products"

	// LineMetaProductID is set per line item so reconciliation does not
	// have to rely on positional matching alone.
	LineMetaProductID = "product_id"
)

// PaymentStatusPaid is the provider's terminal success status.
const PaymentStatusPaid = "paid"

type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64 // cents
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

type LineItem struct {
	Description string
	Quantity    int
	AmountTotal int64 // cents, inclusive of discounts
	ProductID   string
}

type LineItemParams struct {
	Name       string
	UnitAmount int64 // cents
	Quantity   int
	ProductID  string // empty for fee lines
	Image      string
}

type CreateSessionParams struct {
	LineItems     []LineItemParams
	DiscountID    string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}
