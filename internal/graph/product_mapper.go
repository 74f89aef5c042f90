package graph

import (
	"time"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

func MapProductToGraphQL(p *product.Product) *model.Product {
	return &model.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Image:       p.Image,
		Category:    p.Category,
		Stock:       int32(p.Stock),
		Sold:        int32(p.Sold),
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func MapProductsToGraphQL(products []*product.Product) []*model.Product {
	out := make([]*model.Product, 0, len(products))
	for _, p := range products {
		out = append(out, MapProductToGraphQL(p))
	}
	return out
}

func MapNewProductInput(input model.NewProductInput) product.NewProductParams {
	return product.NewProductParams{
		Name:        input.Name,
		Description: input.Description,
		Price:       decimal.NewFromFloat(input.Price),
		Image:       input.Image,
		Category:    input.Category,
		Stock:       int(input.Stock),
	}
}

func MapUpdateProductInput(input model.UpdateProductInput) product.UpdateProductParams {
	params := product.UpdateProductParams{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Category:    input.Category,
	}
	if input.Price != nil {
		price := decimal.NewFromFloat(*input.Price)
		params.Price = &price
	}
	if input.Stock != nil {
		stock := int(*input.Stock)
		params.Stock = &stock
	}
	return params
}
