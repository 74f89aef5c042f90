package graph

import (
	"context"
	"time"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// Checkout is the resolver for the checkout field.
func (r *mutationResolver) Checkout(ctx context.Context, products []*model.CheckoutProductInput, couponCode *string) (*model.CheckoutSession, error) {
	log := logger.FromCtx(ctx).With(zap.Int("item_count", len(products)))

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}
	userEmail := utils.GetUserEmailFromContext(ctx)

	items := make([]order.CheckoutItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, order.CheckoutItemInput{
			ProductID: p.ProductID,
			Quantity:  int(p.Quantity),
		})
	}

	session, err := r.OrderSvc.Checkout(ctx, userID, userEmail, items, couponCode)
	if err != nil {
		log.Warn("checkout failed", zap.Error(err))
		return nil, domainError(err)
	}

	return &model.CheckoutSession{
		SessionID:   session.SessionID,
		URL:         session.URL,
		TotalAmount: session.TotalAmount.InexactFloat64(),
	}, nil
}

// ConfirmOrder is the resolver for the confirmOrder field.
func (r *mutationResolver) ConfirmOrder(ctx context.Context, sessionID string) (*model.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("session_id", sessionID))

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}
	userEmail := utils.GetUserEmailFromContext(ctx)

	o, err := r.OrderSvc.ConfirmOrder(ctx, userID, userEmail, sessionID)
	if err != nil {
		log.Warn("order confirmation failed", zap.Error(err))
		return nil, domainError(err)
	}

	return MapOrderToGraphQL(o), nil
}

// DispatchOrder is the resolver for the dispatchOrder field.
func (r *mutationResolver) DispatchOrder(ctx context.Context, orderID string, etaDays *int32) (*model.Order, error) {
	days := 0
	if etaDays != nil {
		days = int(*etaDays)
	}

	o, err := r.OrderSvc.DispatchOrder(ctx, orderID, days)
	if err != nil {
		return nil, domainError(err)
	}
	return MapOrderToGraphQL(o), nil
}

// UpdateFulfillmentStatus is the resolver for the updateFulfillmentStatus field.
func (r *mutationResolver) UpdateFulfillmentStatus(ctx context.Context, orderID string, status model.FulfillmentStatus) (*model.Order, error) {
	o, err := r.OrderSvc.UpdateFulfillmentStatus(ctx, orderID, MapFulfillmentStatusInput(status))
	if err != nil {
		return nil, domainError(err)
	}
	return MapOrderToGraphQL(o), nil
}

// Orders is the resolver for the orders field.
func (r *queryResolver) Orders(ctx context.Context) ([]*model.Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	orders, err := r.OrderSvc.GetOrders(ctx, userID)
	if err != nil {
		return nil, domainError(err)
	}
	return MapOrdersToGraphQL(orders), nil
}

// Order is the resolver for the order field.
func (r *queryResolver) Order(ctx context.Context, id string) (*model.Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated()
	}

	o, err := r.OrderSvc.GetOrder(ctx, userID, id, utils.IsAdmin(ctx))
	if err != nil {
		return nil, domainError(err)
	}
	return MapOrderToGraphQL(o), nil
}

// AdminOrders is the resolver for the adminOrders field.
func (r *queryResolver) AdminOrders(ctx context.Context) ([]*model.Order, error) {
	orders, err := r.OrderSvc.ListAll(ctx)
	if err != nil {
		return nil, domainError(err)
	}
	return MapOrdersToGraphQL(orders), nil
}

// Analytics is the resolver for the analytics field.
func (r *queryResolver) Analytics(ctx context.Context) (*model.AnalyticsTotals, error) {
	totals, err := r.AnalyticsSvc.GetTotals(ctx)
	if err != nil {
		return nil, domainError(err)
	}

	return &model.AnalyticsTotals{
		Users:    int32(totals.Users),
		Products: int32(totals.Products),
		Sales:    int32(totals.Sales),
		Revenue:  totals.Revenue.InexactFloat64(),
	}, nil
}

// DailySales is the resolver for the dailySales field.
func (r *queryResolver) DailySales(ctx context.Context, from, to string) ([]*model.DailySale, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, gqlError("invalid from date, expected YYYY-MM-DD", codeBadUserInput)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, gqlError("invalid to date, expected YYYY-MM-DD", codeBadUserInput)
	}

	sales, err := r.AnalyticsSvc.GetDailySales(ctx, fromDate, toDate)
	if err != nil {
		return nil, domainError(err)
	}

	out := make([]*model.DailySale, 0, len(sales))
	for _, s := range sales {
		out = append(out, &model.DailySale{
			Date:    s.Date.Format("2006-01-02"),
			Sales:   int32(s.Sales),
			Revenue: s.Revenue.InexactFloat64(),
		})
	}
	return out, nil
}
