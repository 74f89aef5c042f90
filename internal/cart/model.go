package cart

import (
	"time"

	"storefront-be/internal/product"
)

type CartItem struct {
	ID        uint
	UserID    uint
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartProduct is a cart line joined with its current catalog record; the
// price always comes from the catalog, never from stored cart state.
type CartProduct struct {
	Product  product.Product
	Quantity int
}
