package order

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Repository interface {
	FindBySessionID(ctx context.Context, sessionID string) (*Order, error)
	FindByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	CreateOrderTx(ctx context.Context, tx *sql.Tx, o *Order) error
	UpdateFulfillment(ctx context.Context, orderID string, status FulfillmentStatus, dispatchedAt, eta *time.Time) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, total_amount, shipping_fee, tax_fee,
	payment_method, payment_status, stripe_session_id, fulfillment_status,
	dispatched_at, estimated_delivery_date, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingFee, &o.TaxFee,
		&o.PaymentMethod, &o.PaymentStatus, &o.StripeSessionID, &o.FulfillmentStatus,
		&o.DispatchedAt, &o.EstimatedDeliveryDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindBySessionID returns (nil, nil) when no order exists for the session.
func (r *repository) FindBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE stripe_session_id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) FindByID(ctx context.Context, orderID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *repository) ListAll(ctx context.Context) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
		SELECT id, order_id, product_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// CreateOrderTx inserts the order and its items inside the caller's
// transaction. A unique violation on stripe_session_id surfaces as a pq
// error for the caller to resolve against the existing order.
func (r *repository) CreateOrderTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, total_amount, shipping_fee, tax_fee,
			payment_method, payment_status, stripe_session_id, fulfillment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query,
		o.ID, o.UserID, o.TotalAmount, o.ShippingFee, o.TaxFee,
		o.PaymentMethod, o.PaymentStatus, o.StripeSessionID, o.FulfillmentStatus,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := tx.QueryRowContext(ctx, itemQuery,
			o.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice,
		).Scan(&it.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) UpdateFulfillment(ctx context.Context, orderID string, status FulfillmentStatus, dispatchedAt, eta *time.Time) (*Order, error) {
	query := `
		UPDATE orders
		SET fulfillment_status = $1,
			dispatched_at = COALESCE($2, dispatched_at),
			estimated_delivery_date = COALESCE($3, estimated_delivery_date),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, status, dispatchedAt, eta, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}
