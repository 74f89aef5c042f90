package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/mailer"
	"storefront-be/internal/metrics"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, userID uint, userEmail string, items []CheckoutItemInput, couponCode *string) (*CheckoutSessionResult, error)
	ConfirmOrder(ctx context.Context, userID uint, userEmail, sessionID string) (*Order, error)
	GetOrders(ctx context.Context, userID uint) ([]*Order, error)
	GetOrder(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	DispatchOrder(ctx context.Context, orderID string, etaDays int) (*Order, error)
	UpdateFulfillmentStatus(ctx context.Context, orderID string, status FulfillmentStatus) (*Order, error)
}

// Deps carries the collaborators of the order service.
type Deps struct {
	Repo      Repository
	DB        *sql.DB
	Products  product.Service
	Carts     cart.Repository
	Coupons   coupon.Service
	Users     user.Repository
	Gateway   payment.Gateway
	Discounts *payment.DiscountCache
	Mailer    mailer.Mailer
	Config    *config.Config
	Stats     *metrics.CheckoutMetrics
}

type service struct {
	Deps
}

func NewService(deps Deps) Service {
	if deps.Stats == nil {
		deps.Stats = &metrics.CheckoutMetrics{}
	}
	return &service{Deps: deps}
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func (s *service) Checkout(ctx context.Context, userID uint, userEmail string, items []CheckoutItemInput, couponCode *string) (*CheckoutSessionResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", len(items)),
	)

	// 1. Validate input shape
	if len(items) == 0 {
		return nil, ErrEmptyCheckout
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, it.ProductID)
	}

	// 2. Load catalog records; prices come from here, never from the client
	prods, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 3. Build line items in cents
	subtotal := decimal.Zero
	lineItems := make([]payment.LineItemParams, 0, len(prods)+2)
	metaProducts := make([]metaProduct, 0, len(prods))
	for i, p := range prods {
		qty := items[i].Quantity
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		lineItems = append(lineItems, payment.LineItemParams{
			Name:       p.Name,
			UnitAmount: toCents(p.Price),
			Quantity:   qty,
			ProductID:  p.ID,
			Image:      p.Image,
		})
		metaProducts = append(metaProducts, metaProduct{
			ID:       p.ID,
			Quantity: qty,
			Price:    p.Price.StringFixed(2),
		})
	}

	fees := decimal.Zero
	if s.Config.ShippingFee.IsPositive() {
		fees = fees.Add(s.Config.ShippingFee)
		lineItems = append(lineItems, payment.LineItemParams{
			Name:       FeeLineShipping,
			UnitAmount: toCents(s.Config.ShippingFee),
			Quantity:   1,
		})
	}
	if s.Config.TaxFee.IsPositive() {
		fees = fees.Add(s.Config.TaxFee)
		lineItems = append(lineItems, payment.LineItemParams{
			Name:       FeeLineTax,
			UnitAmount: toCents(s.Config.TaxFee),
			Quantity:   1,
		})
	}

	// 4. Optional coupon; an unusable code simply means no discount
	discountID := ""
	appliedCode := ""
	percent := 0
	if couponCode != nil && *couponCode != "" {
		c, err := s.Coupons.Validate(ctx, *couponCode, userID)
		if err != nil {
			log.Info("coupon not applied", zap.String("code", *couponCode), zap.Error(err))
		} else if c.DiscountPercentage > 0 {
			discountID, err = s.Discounts.GetOrCreate(ctx, c.DiscountPercentage)
			if err != nil {
				log.Error("failed to create gateway discount", zap.Error(err))
				return nil, fmt.Errorf("payment session error: %w", err)
			}
			appliedCode = c.Code
			percent = c.DiscountPercentage
		}
	}

	productsJSON, err := json.Marshal(metaProducts)
	if err != nil {
		return nil, err
	}
	metadata := map[string]string{
		payment.MetaUserID:   strconv.FormatUint(uint64(userID), 10),
		payment.MetaProducts: string(productsJSON),
	}
	if appliedCode != "" {
		metadata[payment.MetaCouponCode] = appliedCode
	}

	// 5. Create the gateway session; nothing is written locally
	session, err := s.Gateway.CreateCheckoutSession(ctx, payment.CreateSessionParams{
		LineItems:     lineItems,
		DiscountID:    discountID,
		SuccessURL:    s.Config.ClientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.Config.ClientURL + "/purchase-cancel",
		CustomerEmail: userEmail,
		Metadata:      metadata,
	})
	if err != nil {
		log.Error("failed to create checkout session", zap.Error(err))
		return nil, fmt.Errorf("payment session error: %w", err)
	}

	total := subtotal.Add(fees)
	if percent > 0 {
		total = total.Mul(decimal.NewFromInt(int64(100 - percent))).
			Div(decimal.NewFromInt(100)).Round(2)
	}

	s.Stats.SessionsCreated.Inc()
	log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("total", total.StringFixed(2)),
		zap.Int("discount_percent", percent),
	)

	return &CheckoutSessionResult{
		SessionID:   session.ID,
		URL:         session.URL,
		TotalAmount: total,
	}, nil
}

func (s *service) ConfirmOrder(ctx context.Context, userID uint, userEmail, sessionID string) (*Order, error) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmOrder"),
		zap.Uint("user_id", userID),
		zap.String("session_id", sessionID),
	)

	// 1. The gateway session is the payment source of truth. A provider
	// failure is not the caller's fault and must not read as "unpaid".
	session, err := s.Gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to load checkout session", zap.Error(err))
		return nil, ErrSessionRetrieval
	}
	if session.PaymentStatus != payment.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	// 2. Ownership check against session metadata
	if session.Metadata[payment.MetaUserID] != strconv.FormatUint(uint64(userID), 10) {
		log.Warn("session belongs to another user")
		return nil, ErrSessionForbidden
	}

	// 3. Idempotency: a confirmed session returns its existing order
	existing, err := s.Repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.Stats.DuplicateConfirms.Inc()
		log.Info("session already confirmed", zap.String("order_id", existing.ID))
		return existing, nil
	}

	// 4. Reconcile line items back to catalog products
	items, shippingFee, taxFee, err := s.reconcileLineItems(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		log.Error("no line items could be reconciled")
		return nil, ErrUnreconcilableItems
	}

	o := &Order{
		ID:                uuid.NewString(),
		UserID:            userID,
		Items:             items,
		TotalAmount:       fromCents(session.AmountTotal),
		ShippingFee:       shippingFee,
		TaxFee:            taxFee,
		PaymentMethod:     PaymentMethodCard,
		PaymentStatus:     session.PaymentStatus,
		StripeSessionID:   session.ID,
		FulfillmentStatus: FulfillmentPending,
	}

	// 5. Decrement stock, insert order, clear cart atomically
	err = db.WithTransaction(ctx, s.DB, func(tx *sql.Tx) error {
		for _, it := range o.Items {
			p, err := s.Products.DecrementStockTx(ctx, tx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if p == nil {
				return &InsufficientStockError{ProductID: it.ProductID}
			}
		}
		if err := s.Repo.CreateOrderTx(ctx, tx, o); err != nil {
			return err
		}
		return s.Carts.ClearTx(ctx, tx, userID)
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			s.Stats.StockConflicts.Inc()
			log.Warn("stock conflict during confirmation", zap.String("product_id", stockErr.ProductID))
			return nil, err
		}
		// A concurrent confirmation of the same session hits the unique
		// constraint on stripe_session_id; resolve to the winner's order.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			winner, findErr := s.Repo.FindBySessionID(ctx, sessionID)
			if findErr == nil && winner != nil {
				s.Stats.DuplicateConfirms.Inc()
				log.Info("lost confirmation race, returning existing order", zap.String("order_id", winner.ID))
				return winner, nil
			}
		}
		log.Error("failed to finalize order", zap.Error(err))
		return nil, err
	}

	s.Stats.OrdersConfirmed.Inc()
	log.Info("order confirmed",
		zap.String("order_id", o.ID),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.Duration("elapsed", timer.Duration()),
	)

	// 6. Post-commit side effects are best-effort only
	s.notifyConfirmation(ctx, o, userEmail, session)
	if code := session.Metadata[payment.MetaCouponCode]; code != "" {
		if err := s.Coupons.Redeem(ctx, code, userID); err != nil {
			log.Warn("failed to redeem coupon", zap.String("code", code), zap.Error(err))
		}
	}

	return o, nil
}

// reconcileLineItems maps gateway line items back to order items, pulling
// fee lines out by label. A line missing per-line product metadata falls
// back to its position in the metadata products list.
func (s *service) reconcileLineItems(ctx context.Context, session *payment.CheckoutSession) ([]OrderItem, decimal.Decimal, decimal.Decimal, error) {
	log := logger.FromCtx(ctx)

	var metaProducts []metaProduct
	if raw := session.Metadata[payment.MetaProducts]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &metaProducts); err != nil {
			log.Warn("invalid products metadata", zap.Error(err))
		}
	}

	lines, err := s.Gateway.ListLineItems(ctx, session.ID)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, err
	}

	var items []OrderItem
	shippingFee, taxFee := decimal.Zero, decimal.Zero
	pos := 0
	for _, li := range lines {
		switch li.Description {
		case FeeLineShipping:
			shippingFee = fromCents(li.AmountTotal)
			continue
		case FeeLineTax:
			taxFee = fromCents(li.AmountTotal)
			continue
		}

		productID := li.ProductID
		if productID == "" && pos < len(metaProducts) {
			productID = metaProducts[pos].ID
		}
		pos++

		if productID == "" || li.Quantity <= 0 {
			log.Warn("skipping unreconcilable line item", zap.String("description", li.Description))
			continue
		}

		unitPrice := fromCents(li.AmountTotal).
			Div(decimal.NewFromInt(int64(li.Quantity))).Round(2)
		items = append(items, OrderItem{
			ProductID: productID,
			Name:      li.Description,
			Quantity:  li.Quantity,
			UnitPrice: unitPrice,
		})
	}
	return items, shippingFee, taxFee, nil
}

func (s *service) notifyConfirmation(ctx context.Context, o *Order, userEmail string, session *payment.CheckoutSession) {
	log := logger.FromCtx(ctx)

	email := session.CustomerEmail
	if email == "" {
		email = userEmail
	}
	name := email
	if u, err := s.Users.FindByID(ctx, o.UserID); err == nil {
		name = u.Name
	}

	err := s.Mailer.SendOrderConfirmation(ctx, email, mailer.OrderConfirmationParams{
		Name:    name,
		OrderID: o.ID,
		Total:   o.TotalAmount.StringFixed(2),
	})
	if err != nil {
		log.Warn("failed to send order confirmation email", zap.Error(err))
	}
}

func (s *service) GetOrders(ctx context.Context, userID uint) ([]*Order, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *service) GetOrder(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error) {
	o, err := s.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrOrderForbidden
	}
	return o, nil
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.Repo.ListAll(ctx)
}

const defaultETADays = 7

func (s *service) DispatchOrder(ctx context.Context, orderID string, etaDays int) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DispatchOrder"),
		zap.String("order_id", orderID),
	)

	o, err := s.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.FulfillmentStatus != FulfillmentPending {
		return nil, ErrInvalidTransition
	}

	if etaDays <= 0 {
		etaDays = defaultETADays
	}
	now := time.Now()
	eta := now.AddDate(0, 0, etaDays)

	updated, err := s.Repo.UpdateFulfillment(ctx, orderID, FulfillmentDispatched, &now, &eta)
	if err != nil {
		return nil, err
	}

	if u, err := s.Users.FindByID(ctx, updated.UserID); err == nil {
		items := make([]mailer.DispatchedItem, 0, len(updated.Items))
		for _, it := range updated.Items {
			items = append(items, mailer.DispatchedItem{Name: it.Name, Quantity: it.Quantity})
		}
		err := s.Mailer.SendOrderDispatched(ctx, u.Email, mailer.OrderDispatchedParams{
			Name:    u.Name,
			OrderID: updated.ID,
			ETADate: eta.Format("Jan 2, 2006"),
			Items:   items,
		})
		if err != nil {
			log.Warn("failed to send dispatch email", zap.Error(err))
		}
	}

	log.Info("order dispatched", zap.Time("eta", eta))
	return updated, nil
}

var validTransitions = map[FulfillmentStatus][]FulfillmentStatus{
	FulfillmentPending:    {FulfillmentDispatched, FulfillmentCancelled},
	FulfillmentDispatched: {FulfillmentDelivered, FulfillmentCancelled},
}

func (s *service) UpdateFulfillmentStatus(ctx context.Context, orderID string, status FulfillmentStatus) (*Order, error) {
	if status == FulfillmentDispatched {
		return s.DispatchOrder(ctx, orderID, 0)
	}

	o, err := s.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[o.FulfillmentStatus] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	return s.Repo.UpdateFulfillment(ctx, orderID, status, nil, nil)
}
