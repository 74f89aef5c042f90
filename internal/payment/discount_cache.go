package payment

import (
	"context"
	"sync"
)

// DiscountCache memoizes gateway coupon ids per discount percentage so one
// gateway coupon object is reused across checkout sessions.
type DiscountCache struct {
	gateway Gateway

	mu  sync.Mutex
	ids map[int]string
}

func NewDiscountCache(gateway Gateway) *DiscountCache {
	return &DiscountCache{
		gateway: gateway,
		ids:     make(map[int]string),
	}
}

// GetOrCreate returns the cached gateway coupon id for percent, creating it
// on first use. A failed creation is not cached.
func (c *DiscountCache) GetOrCreate(ctx context.Context, percent int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.ids[percent]; ok {
		return id, nil
	}

	id, err := c.gateway.CreatePercentCoupon(ctx, percent)
	if err != nil {
		return "", err
	}
	c.ids[percent] = id
	return id, nil
}
