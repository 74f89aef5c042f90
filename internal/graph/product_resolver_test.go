package graph

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetList(ctx context.Context, category *string) ([]*product.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetFeatured(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, params product.NewProductParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, params product.UpdateProductParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ToggleFeatured(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*product.Product, error) {
	args := m.Called(ctx, tx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

// --- Helpers ---

func authedCtx(userID uint, email, role string) context.Context {
	return utils.SetUserContext(context.Background(), userID, email, role)
}

func sampleProduct() *product.Product {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &product.Product{
		ID:          "prod-1",
		Name:        "Mechanical Keyboard",
		Description: "Tactile switches",
		Price:       decimal.NewFromFloat(129.00),
		Image:       "https://img.example/kbd.png",
		Category:    "accessories",
		Stock:       10,
		Sold:        3,
		IsFeatured:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- Tests ---

func TestQueryProducts(t *testing.T) {
	products := new(MockProductService)
	products.On("GetList", mock.Anything, (*string)(nil)).
		Return([]*product.Product{sampleProduct()}, nil)

	resolver := &Resolver{ProductSvc: products}

	got, err := (&queryResolver{resolver}).Products(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "prod-1", got[0].ID)
	assert.Equal(t, 129.00, got[0].Price)
	assert.Equal(t, "2026-08-01T12:00:00Z", got[0].CreatedAt)
}

func TestQueryProductNotFound(t *testing.T) {
	products := new(MockProductService)
	products.On("GetByID", mock.Anything, "missing").
		Return(nil, product.ErrProductNotFound)

	resolver := &Resolver{ProductSvc: products}

	_, err := (&queryResolver{resolver}).Product(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

func TestCreateProduct(t *testing.T) {
	products := new(MockProductService)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p product.NewProductParams) bool {
		return p.Name == "Mechanical Keyboard" && p.Price.Equal(decimal.NewFromFloat(129.00))
	})).Return(sampleProduct(), nil)

	resolver := &Resolver{ProductSvc: products}

	got, err := (&mutationResolver{resolver}).CreateProduct(authedCtx(1, "admin@example.com", "ADMIN"), model.NewProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tactile switches",
		Price:       129.00,
		Image:       "https://img.example/kbd.png",
		Category:    "accessories",
		Stock:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-1", got.ID)
	products.AssertExpectations(t)
}

func TestDeleteProductFailureIsSoft(t *testing.T) {
	products := new(MockProductService)
	products.On("Delete", mock.Anything, "prod-1").
		Return(product.ErrProductNotFound)

	resolver := &Resolver{ProductSvc: products}

	resp, err := (&mutationResolver{resolver}).DeleteProduct(authedCtx(1, "admin@example.com", "ADMIN"), "prod-1")
	require.NoError(t, err)
	assert.False(t, resp.Success)
}
