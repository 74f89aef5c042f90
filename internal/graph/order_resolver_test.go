package graph

import (
	"context"
	"testing"
	"time"

	"storefront-be/internal/analytics"
	"storefront-be/internal/graph/model"
	"storefront-be/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID uint, userEmail string, items []order.CheckoutItemInput, couponCode *string) (*order.CheckoutSessionResult, error) {
	args := m.Called(ctx, userID, userEmail, items, couponCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CheckoutSessionResult), args.Error(1)
}

func (m *MockOrderService) ConfirmOrder(ctx context.Context, userID uint, userEmail, sessionID string) (*order.Order, error) {
	args := m.Called(ctx, userID, userEmail, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID uint, orderID string, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) DispatchOrder(ctx context.Context, orderID string, etaDays int) (*order.Order, error) {
	args := m.Called(ctx, orderID, etaDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateFulfillmentStatus(ctx context.Context, orderID string, status order.FulfillmentStatus) (*order.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetTotals(ctx context.Context) (*analytics.Totals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Totals), args.Error(1)
}

func (m *MockAnalyticsService) GetDailySales(ctx context.Context, from, to time.Time) ([]analytics.DailySale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.DailySale), args.Error(1)
}

func sampleOrder() *order.Order {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &order.Order{
		ID:     "ord-1",
		UserID: 42,
		Items: []order.OrderItem{
			{ProductID: "prod-1", Name: "Mechanical Keyboard", Quantity: 2, UnitPrice: decimal.NewFromFloat(129)},
		},
		TotalAmount:       decimal.NewFromFloat(285),
		ShippingFee:       decimal.NewFromFloat(5),
		TaxFee:            decimal.NewFromFloat(2.5),
		PaymentMethod:     order.PaymentMethodCard,
		PaymentStatus:     "paid",
		StripeSessionID:   "cs_paid",
		FulfillmentStatus: order.FulfillmentPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// --- Tests ---

func TestCheckoutResolver(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("Checkout", mock.Anything, uint(42), "buyer@example.com",
		[]order.CheckoutItemInput{{ProductID: "prod-1", Quantity: 2}}, (*string)(nil)).
		Return(&order.CheckoutSessionResult{
			SessionID:   "cs_1",
			URL:         "https://pay.example/cs_1",
			TotalAmount: decimal.NewFromFloat(285),
		}, nil)

	resolver := &Resolver{OrderSvc: orders}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	got, err := (&mutationResolver{resolver}).Checkout(ctx, []*model.CheckoutProductInput{
		{ProductID: "prod-1", Quantity: 2},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "cs_1", got.SessionID)
	assert.Equal(t, 285.0, got.TotalAmount)
}

func TestCheckoutResolverUnauthenticated(t *testing.T) {
	resolver := &Resolver{OrderSvc: new(MockOrderService)}

	_, err := (&mutationResolver{resolver}).Checkout(context.Background(), []*model.CheckoutProductInput{
		{ProductID: "prod-1", Quantity: 1},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please login first")
}

func TestConfirmOrderResolver(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("ConfirmOrder", mock.Anything, uint(42), "buyer@example.com", "cs_paid").
		Return(sampleOrder(), nil)

	resolver := &Resolver{OrderSvc: orders}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	got, err := (&mutationResolver{resolver}).ConfirmOrder(ctx, "cs_paid")
	require.NoError(t, err)

	assert.Equal(t, "ord-1", got.ID)
	assert.Equal(t, "42", got.User)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.Equal(t, "cs_paid", got.StripeSessionID)
	assert.Equal(t, model.FulfillmentStatusPending, got.FulfillmentStatus)
	assert.Equal(t, "2026-08-01T12:00:00Z", got.CreatedAt)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 129.0, got.Items[0].UnitPrice)
}

func TestConfirmOrderResolverForbidden(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("ConfirmOrder", mock.Anything, uint(42), "buyer@example.com", "cs_other").
		Return(nil, order.ErrSessionForbidden)

	resolver := &Resolver{OrderSvc: orders}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	_, err := (&mutationResolver{resolver}).ConfirmOrder(ctx, "cs_other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestDispatchOrderResolver(t *testing.T) {
	dispatched := sampleOrder()
	dispatched.FulfillmentStatus = order.FulfillmentDispatched
	now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	dispatched.DispatchedAt = &now

	orders := new(MockOrderService)
	orders.On("DispatchOrder", mock.Anything, "ord-1", 5).Return(dispatched, nil)

	resolver := &Resolver{OrderSvc: orders}
	days := int32(5)

	got, err := (&mutationResolver{resolver}).DispatchOrder(authedCtx(1, "admin@example.com", "ADMIN"), "ord-1", &days)
	require.NoError(t, err)

	assert.Equal(t, model.FulfillmentStatusDispatched, got.FulfillmentStatus)
	require.NotNil(t, got.DispatchedAt)
	assert.Equal(t, "2026-08-02T09:00:00Z", *got.DispatchedAt)
}

func TestAnalyticsResolver(t *testing.T) {
	stats := new(MockAnalyticsService)
	stats.On("GetTotals", mock.Anything).Return(&analytics.Totals{
		Users:    120,
		Products: 35,
		Sales:    412,
		Revenue:  decimal.NewFromFloat(10942.50),
	}, nil)

	resolver := &Resolver{AnalyticsSvc: stats}

	got, err := (&queryResolver{resolver}).Analytics(authedCtx(1, "admin@example.com", "ADMIN"))
	require.NoError(t, err)

	assert.Equal(t, int32(120), got.Users)
	assert.Equal(t, 10942.50, got.Revenue)
}

func TestDailySalesResolverBadDate(t *testing.T) {
	resolver := &Resolver{AnalyticsSvc: new(MockAnalyticsService)}

	_, err := (&queryResolver{resolver}).DailySales(authedCtx(1, "admin@example.com", "ADMIN"), "08/01/2026", "2026-08-08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from date")
}
