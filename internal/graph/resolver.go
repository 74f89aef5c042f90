package graph

import (
	"storefront-be/internal/analytics"
	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/99designs/gqlgen/graphql"
)

type Resolver struct {
	ProductSvc   product.Service
	UserSvc      user.Service
	CartSvc      cart.Service
	CouponSvc    coupon.Service
	OrderSvc     order.Service
	AnalyticsSvc analytics.Service
}

func NewSchema(r *Resolver) graphql.ExecutableSchema {
	return NewExecutableSchema(Config{
		Resolvers: r,
		Directives: DirectiveRoot{
			Auth: AuthDirective,
		},
	})
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
