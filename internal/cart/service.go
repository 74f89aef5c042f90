package cart

import (
	"context"
	"errors"

	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	// Snapshot returns the user's cart lines priced from the current
	// catalog. Lines whose product has been deleted are skipped.
	Snapshot(ctx context.Context, userID uint) ([]CartProduct, error)
	Add(ctx context.Context, userID uint, productID string) (*CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error)
	Remove(ctx context.Context, userID uint, productID string) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) Snapshot(ctx context.Context, userID uint) ([]CartProduct, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	snapshot := make([]CartProduct, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		snapshot = append(snapshot, CartProduct{Product: *p, Quantity: it.Quantity})
	}
	return snapshot, nil
}

func (s *service) Add(ctx context.Context, userID uint, productID string) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.Uint("user_id", userID),
		zap.String("product_id", productID),
	)

	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	// the product must exist before it can be carted
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, err
		}
		log.Error("failed to look up product", zap.Error(err))
		return nil, err
	}

	item, err := s.repo.Upsert(ctx, userID, productID, 1)
	if err != nil {
		log.Error("failed to add to cart", zap.Error(err))
		return nil, err
	}

	log.Debug("cart item upserted", zap.Int("quantity", item.Quantity))
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (s *service) Remove(ctx context.Context, userID uint, productID string) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Clear(ctx, userID)
}
