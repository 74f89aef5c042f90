package graph

import (
	"strconv"
	"time"

	"storefront-be/internal/graph/model"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"
)

func MapOrderToGraphQL(o *order.Order) *model.Order {
	items := make([]*model.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, &model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  int32(it.Quantity),
			UnitPrice: it.UnitPrice.InexactFloat64(),
		})
	}

	return &model.Order{
		ID:                    o.ID,
		User:                  strconv.FormatUint(uint64(o.UserID), 10),
		Items:                 items,
		TotalAmount:           o.TotalAmount.InexactFloat64(),
		ShippingFee:           o.ShippingFee.InexactFloat64(),
		TaxFee:                o.TaxFee.InexactFloat64(),
		PaymentMethod:         o.PaymentMethod,
		PaymentStatus:         o.PaymentStatus,
		StripeSessionID:       o.StripeSessionID,
		FulfillmentStatus:     MapFulfillmentStatus(o.FulfillmentStatus),
		DispatchedAt:          utils.FormatTimePtr(o.DispatchedAt),
		EstimatedDeliveryDate: utils.FormatTimePtr(o.EstimatedDeliveryDate),
		CreatedAt:             o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func MapOrdersToGraphQL(orders []*order.Order) []*model.Order {
	out := make([]*model.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, MapOrderToGraphQL(o))
	}
	return out
}

func MapFulfillmentStatus(s order.FulfillmentStatus) model.FulfillmentStatus {
	switch s {
	case order.FulfillmentDispatched:
		return model.FulfillmentStatusDispatched
	case order.FulfillmentDelivered:
		return model.FulfillmentStatusDelivered
	case order.FulfillmentCancelled:
		return model.FulfillmentStatusCancelled
	default:
		return model.FulfillmentStatusPending
	}
}

func MapFulfillmentStatusInput(s model.FulfillmentStatus) order.FulfillmentStatus {
	switch s {
	case model.FulfillmentStatusDispatched:
		return order.FulfillmentDispatched
	case model.FulfillmentStatusDelivered:
		return order.FulfillmentDelivered
	case model.FulfillmentStatusCancelled:
		return order.FulfillmentCancelled
	default:
		return order.FulfillmentPending
	}
}
