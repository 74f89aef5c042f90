package cart

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]CartItem, error)
	Upsert(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error)
	Remove(ctx context.Context, userID uint, productID string) error
	Clear(ctx context.Context, userID uint) error

	// ClearTx clears the cart inside an order-finalization transaction.
	ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Upsert adds the product with the given quantity, or bumps the existing
// row's quantity by it. One row per (user, product).
func (r *repository) Upsert(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	var it CartItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		userID, productID, quantity,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &it, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*CartItem, error) {
	var it CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
		RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		userID, productID, quantity,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart quantity: %w", err)
	}
	return &it, nil
}

func (r *repository) Remove(ctx context.Context, userID uint, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *repository) ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to clear cart in tx",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
