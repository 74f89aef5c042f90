package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockGateway) ListLineItems(ctx context.Context, sessionID string) ([]LineItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LineItem), args.Error(1)
}

func (m *MockGateway) CreatePercentCoupon(ctx context.Context, percent int) (string, error) {
	args := m.Called(ctx, percent)
	return args.String(0), args.Error(1)
}

func TestDiscountCacheReusesCouponID(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreatePercentCoupon", mock.Anything, 30).Return("coupon_30", nil).Once()

	cache := NewDiscountCache(gw)

	first, err := cache.GetOrCreate(context.Background(), 30)
	require.NoError(t, err)
	second, err := cache.GetOrCreate(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, "coupon_30", first)
	assert.Equal(t, first, second)
	gw.AssertExpectations(t)
}

func TestDiscountCacheSeparatePercentages(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreatePercentCoupon", mock.Anything, 10).Return("coupon_10", nil).Once()
	gw.On("CreatePercentCoupon", mock.Anything, 30).Return("coupon_30", nil).Once()

	cache := NewDiscountCache(gw)

	ten, err := cache.GetOrCreate(context.Background(), 10)
	require.NoError(t, err)
	thirty, err := cache.GetOrCreate(context.Background(), 30)
	require.NoError(t, err)

	assert.NotEqual(t, ten, thirty)
	gw.AssertExpectations(t)
}

func TestDiscountCacheDoesNotCacheFailures(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreatePercentCoupon", mock.Anything, 20).Return("", errors.New("stripe down")).Once()
	gw.On("CreatePercentCoupon", mock.Anything, 20).Return("coupon_20", nil).Once()

	cache := NewDiscountCache(gw)

	_, err := cache.GetOrCreate(context.Background(), 20)
	require.Error(t, err)

	id, err := cache.GetOrCreate(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "coupon_20", id)
	gw.AssertExpectations(t)
}
