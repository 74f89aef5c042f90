package graph

import (
	"context"
	"testing"

	"storefront-be/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Snapshot(ctx context.Context, userID uint) ([]cart.CartProduct, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.CartProduct), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, userID uint, productID string) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID uint, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestAddToCart(t *testing.T) {
	carts := new(MockCartService)
	products := new(MockProductService)

	carts.On("Add", mock.Anything, uint(42), "prod-1").
		Return(&cart.CartItem{ID: 1, UserID: 42, ProductID: "prod-1", Quantity: 2}, nil)
	products.On("GetByID", mock.Anything, "prod-1").Return(sampleProduct(), nil)

	resolver := &Resolver{CartSvc: carts, ProductSvc: products}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	got, err := (&mutationResolver{resolver}).AddToCart(ctx, "prod-1")
	require.NoError(t, err)

	assert.Equal(t, "prod-1", got.Product.ID)
	assert.Equal(t, int32(2), got.Quantity)
}

func TestAddToCartUnauthenticated(t *testing.T) {
	resolver := &Resolver{CartSvc: new(MockCartService)}

	_, err := (&mutationResolver{resolver}).AddToCart(context.Background(), "prod-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please login first")
}

func TestCartProductsQuery(t *testing.T) {
	carts := new(MockCartService)
	carts.On("Snapshot", mock.Anything, uint(42)).
		Return([]cart.CartProduct{
			{Product: *sampleProduct(), Quantity: 3},
		}, nil)

	resolver := &Resolver{CartSvc: carts}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	got, err := (&queryResolver{resolver}).CartProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "prod-1", got[0].Product.ID)
	assert.Equal(t, int32(3), got[0].Quantity)
}

func TestRemoveFromCartFailureIsSoft(t *testing.T) {
	carts := new(MockCartService)
	carts.On("Remove", mock.Anything, uint(42), "prod-9").
		Return(cart.ErrCartItemNotFound)

	resolver := &Resolver{CartSvc: carts}
	ctx := authedCtx(42, "buyer@example.com", "USER")

	resp, err := (&mutationResolver{resolver}).RemoveFromCart(ctx, "prod-9")
	require.NoError(t, err)
	assert.False(t, resp.Success)
}
