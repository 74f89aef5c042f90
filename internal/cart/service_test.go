package cart

import (
	"context"
	"database/sql"
	"testing"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetItems(ctx context.Context, userID uint) ([]CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartItem), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) Remove(ctx context.Context, userID uint, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

type MockProductRepo struct {
	mock.Mock
	product.Repository
}

func (m *MockProductRepo) FindByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) FindByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func TestService_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("PricedFromCatalog", func(t *testing.T) {
		repo := new(MockRepository)
		prodRepo := new(MockProductRepo)
		svc := NewService(repo, prodRepo)

		repo.On("GetItems", ctx, uint(1)).Return([]CartItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		}, nil)
		prodRepo.On("FindByIDs", ctx, []string{"p1", "p2"}).Return([]*product.Product{
			{ID: "p1", Name: "Beans", Price: decimal.RequireFromString("10.00")},
			{ID: "p2", Name: "Mug", Price: decimal.RequireFromString("4.50")},
		}, nil)

		snap, err := svc.Snapshot(ctx, 1)
		require.NoError(t, err)
		require.Len(t, snap, 2)
		assert.Equal(t, 2, snap[0].Quantity)
		assert.True(t, snap[0].Product.Price.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("DeletedProductSkipped", func(t *testing.T) {
		repo := new(MockRepository)
		prodRepo := new(MockProductRepo)
		svc := NewService(repo, prodRepo)

		repo.On("GetItems", ctx, uint(1)).Return([]CartItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "gone", Quantity: 1},
		}, nil)
		prodRepo.On("FindByIDs", ctx, []string{"p1", "gone"}).Return([]*product.Product{
			{ID: "p1", Name: "Beans"},
		}, nil)

		snap, err := svc.Snapshot(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, snap, 1)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		repo := new(MockRepository)
		prodRepo := new(MockProductRepo)
		svc := NewService(repo, prodRepo)

		repo.On("GetItems", ctx, uint(1)).Return([]CartItem{}, nil)

		snap, err := svc.Snapshot(ctx, 1)
		assert.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepo))
		_, err := svc.Snapshot(ctx, 0)
		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	})
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		prodRepo := new(MockProductRepo)
		svc := NewService(repo, prodRepo)

		prodRepo.On("FindByID", ctx, "ghost").Return(nil, product.ErrProductNotFound)

		_, err := svc.Add(ctx, 1, "ghost")
		assert.ErrorIs(t, err, product.ErrProductNotFound)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BumpsQuantity", func(t *testing.T) {
		repo := new(MockRepository)
		prodRepo := new(MockProductRepo)
		svc := NewService(repo, prodRepo)

		prodRepo.On("FindByID", ctx, "p1").Return(&product.Product{ID: "p1"}, nil)
		repo.On("Upsert", ctx, uint(1), "p1", 1).Return(&CartItem{ProductID: "p1", Quantity: 3}, nil)

		item, err := svc.Add(ctx, 1, "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(new(MockRepository), new(MockProductRepo))

	_, err := svc.UpdateQuantity(ctx, 1, "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(ctx, 1, "p1", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
