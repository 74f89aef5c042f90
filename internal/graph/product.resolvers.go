package graph

import (
	"context"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// CreateProduct is the resolver for the createProduct field.
func (r *mutationResolver) CreateProduct(ctx context.Context, input model.NewProductInput) (*model.Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("name", input.Name))

	p, err := r.ProductSvc.Create(ctx, MapNewProductInput(input))
	if err != nil {
		log.Warn("failed to create product", zap.Error(err))
		return nil, domainError(err)
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return MapProductToGraphQL(p), nil
}

// UpdateProduct is the resolver for the updateProduct field.
func (r *mutationResolver) UpdateProduct(ctx context.Context, input model.UpdateProductInput) (*model.Product, error) {
	p, err := r.ProductSvc.Update(ctx, MapUpdateProductInput(input))
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductToGraphQL(p), nil
}

// DeleteProduct is the resolver for the deleteProduct field.
func (r *mutationResolver) DeleteProduct(ctx context.Context, id string) (*model.Response, error) {
	if err := r.ProductSvc.Delete(ctx, id); err != nil {
		return &model.Response{
			Success: false,
			Message: utils.StrPtr(err.Error()),
		}, nil
	}

	return &model.Response{
		Success: true,
		Message: utils.StrPtr("Product deleted"),
	}, nil
}

// ToggleFeaturedProduct is the resolver for the toggleFeaturedProduct field.
func (r *mutationResolver) ToggleFeaturedProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := r.ProductSvc.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductToGraphQL(p), nil
}

// Products is the resolver for the products field.
func (r *queryResolver) Products(ctx context.Context, category *string) ([]*model.Product, error) {
	products, err := r.ProductSvc.GetList(ctx, category)
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductsToGraphQL(products), nil
}

// Product is the resolver for the product field.
func (r *queryResolver) Product(ctx context.Context, id string) (*model.Product, error) {
	p, err := r.ProductSvc.GetByID(ctx, id)
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductToGraphQL(p), nil
}

// FeaturedProducts is the resolver for the featuredProducts field.
func (r *queryResolver) FeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := r.ProductSvc.GetFeatured(ctx)
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductsToGraphQL(products), nil
}

// ProductsByCategory is the resolver for the productsByCategory field.
func (r *queryResolver) ProductsByCategory(ctx context.Context, category string) ([]*model.Product, error) {
	products, err := r.ProductSvc.GetList(ctx, &category)
	if err != nil {
		return nil, domainError(err)
	}
	return MapProductsToGraphQL(products), nil
}
