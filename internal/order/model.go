package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentDispatched FulfillmentStatus = "dispatched"
	FulfillmentDelivered  FulfillmentStatus = "delivered"
	FulfillmentCancelled  FulfillmentStatus = "cancelled"
)

const PaymentMethodCard = "CARD"

// Fee line items are labeled with these names in the checkout session and
// recognized by label when line items are read back.
const (
	FeeLineShipping = "Shipping"
	FeeLineTax      = "Tax"
)

type Order struct {
	ID                    string
	UserID                uint
	TotalAmount           decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxFee                decimal.Decimal
	PaymentMethod         string
	PaymentStatus         string
	StripeSessionID       string
	FulfillmentStatus     FulfillmentStatus
	DispatchedAt          *time.Time
	EstimatedDeliveryDate *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []OrderItem
}

type OrderItem struct {
	ID        uint
	OrderID   string
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CheckoutItemInput struct {
	ProductID string
	Quantity  int
}

// CheckoutSessionResult is what the checkout mutation returns; the total is
// informational, the gateway session is the source of truth.
type CheckoutSessionResult struct {
	SessionID   string
	URL         string
	TotalAmount decimal.Decimal
}

// metaProduct is one entry of the products JSON stored in the session
// metadata, used as a positional fallback when a line item carries no
// product id of its own.
type metaProduct struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}
