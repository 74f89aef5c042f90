package graph

import (
	"context"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// AddToCart is the resolver for the addToCart field.
func (r *mutationResolver) AddToCart(ctx context.Context, productID string) (*model.CartProduct, error) {
	log := logger.FromCtx(ctx).With(zap.String("product_id", productID))

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	item, err := r.CartSvc.Add(ctx, userID, productID)
	if err != nil {
		log.Warn("failed to add item to cart", zap.Error(err))
		return nil, domainError(err)
	}

	p, err := r.ProductSvc.GetByID(ctx, productID)
	if err != nil {
		return nil, domainError(err)
	}

	log.Info("cart item added", zap.Int("quantity", item.Quantity))
	return &model.CartProduct{
		Product:  MapProductToGraphQL(p),
		Quantity: int32(item.Quantity),
	}, nil
}

// UpdateCartQuantity is the resolver for the updateCartQuantity field.
func (r *mutationResolver) UpdateCartQuantity(ctx context.Context, productID string, quantity int32) (*model.CartProduct, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	item, err := r.CartSvc.UpdateQuantity(ctx, userID, productID, int(quantity))
	if err != nil {
		return nil, domainError(err)
	}

	p, err := r.ProductSvc.GetByID(ctx, productID)
	if err != nil {
		return nil, domainError(err)
	}

	return &model.CartProduct{
		Product:  MapProductToGraphQL(p),
		Quantity: int32(item.Quantity),
	}, nil
}

// RemoveFromCart is the resolver for the removeFromCart field.
func (r *mutationResolver) RemoveFromCart(ctx context.Context, productID string) (*model.Response, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	if err := r.CartSvc.Remove(ctx, userID, productID); err != nil {
		return &model.Response{
			Success: false,
			Message: utils.StrPtr(err.Error()),
		}, nil
	}

	return &model.Response{
		Success: true,
		Message: utils.StrPtr("Removed from cart"),
	}, nil
}

// ClearCart is the resolver for the clearCart field.
func (r *mutationResolver) ClearCart(ctx context.Context) (*model.Response, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	if err := r.CartSvc.Clear(ctx, userID); err != nil {
		return &model.Response{
			Success: false,
			Message: utils.StrPtr(err.Error()),
		}, nil
	}

	return &model.Response{
		Success: true,
		Message: utils.StrPtr("Cart cleared"),
	}, nil
}

// CartProducts is the resolver for the cartProducts field.
func (r *queryResolver) CartProducts(ctx context.Context) ([]*model.CartProduct, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	snapshot, err := r.CartSvc.Snapshot(ctx, userID)
	if err != nil {
		return nil, domainError(err)
	}

	out := make([]*model.CartProduct, 0, len(snapshot))
	for _, cp := range snapshot {
		out = append(out, MapCartProductToGraphQL(cp))
	}
	return out, nil
}
