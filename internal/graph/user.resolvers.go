package graph

import (
	"context"
	"fmt"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

func (r *mutationResolver) Signup(ctx context.Context, input model.SignupInput) (*model.AuthResponse, error) {
	log := logger.FromCtx(ctx)

	token, u, err := r.UserSvc.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		log.Warn("signup failed", zap.String("email", input.Email), zap.Error(err))
		return nil, domainError(err)
	}

	log.Info("user registered",
		zap.String("user_id", fmt.Sprint(u.ID)),
		zap.String("email", u.Email),
	)

	return &model.AuthResponse{
		Token: token,
		User:  MapUserToGraphQL(u),
	}, nil
}

func (r *mutationResolver) Login(ctx context.Context, input model.LoginInput) (*model.AuthResponse, error) {
	token, u, err := r.UserSvc.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, domainError(err)
	}

	return &model.AuthResponse{
		Token: token,
		User:  MapUserToGraphQL(u),
	}, nil
}

func (r *mutationResolver) VerifyEmail(ctx context.Context, code string) (*model.Response, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	if _, err := r.UserSvc.VerifyEmail(ctx, userID, code); err != nil {
		return &model.Response{
			Success: false,
			Message: utils.StrPtr(err.Error()),
		}, nil
	}

	return &model.Response{
		Success: true,
		Message: utils.StrPtr("Email verified"),
	}, nil
}

func (r *mutationResolver) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	c, err := r.CouponSvc.Validate(ctx, code, userID)
	if err != nil {
		return nil, domainError(err)
	}
	return MapCouponToGraphQL(c), nil
}

func (r *queryResolver) MyCoupon(ctx context.Context) (*model.Coupon, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	c, err := r.CouponSvc.GetActiveCoupon(ctx, userID)
	if err != nil {
		// no coupon is not an error for this query
		return nil, nil
	}
	return MapCouponToGraphQL(c), nil
}
