package graph

import (
	"fmt"

	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/graph/model"
	"storefront-be/internal/user"
)

func MapUserToGraphQL(u *user.User) *model.User {
	return &model.User{
		ID:         fmt.Sprint(u.ID),
		Name:       u.Name,
		Email:      u.Email,
		Role:       model.Role(u.Role),
		IsVerified: u.IsVerified,
	}
}

func MapCartProductToGraphQL(cp cart.CartProduct) *model.CartProduct {
	return &model.CartProduct{
		Product:  MapProductToGraphQL(&cp.Product),
		Quantity: int32(cp.Quantity),
	}
}

func MapCouponToGraphQL(c *coupon.Coupon) *model.Coupon {
	return &model.Coupon{
		Code:               c.Code,
		DiscountPercentage: int32(c.DiscountPercentage),
		IsActive:           c.IsActive && !c.Redeemed,
	}
}
