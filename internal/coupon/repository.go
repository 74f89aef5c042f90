package coupon

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	FindActiveUnredeemed(ctx context.Context, code string, userID uint) (*Coupon, error)
	FindActiveForUser(ctx context.Context, userID uint) (*Coupon, error)
	FindReusable(ctx context.Context, userID uint, percent int) (*Coupon, error)
	Create(ctx context.Context, code string, userID uint, percent int) (*Coupon, error)
	MarkRedeemed(ctx context.Context, code string, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `id, code, user_id, discount_percentage, is_active, redeemed, redeemed_at, created_at, updated_at`

func scanCoupon(row interface{ Scan(...any) error }) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.UserID, &c.DiscountPercentage,
		&c.IsActive, &c.Redeemed, &c.RedeemedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindActiveUnredeemed(ctx context.Context, code string, userID uint) (*Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE code = $1 AND user_id = $2 AND is_active = true AND redeemed = false`,
		code, userID,
	)

	c, err := scanCoupon(row)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return c, nil
}

func (r *repository) FindActiveForUser(ctx context.Context, userID uint) (*Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE user_id = $1 AND is_active = true AND redeemed = false
		ORDER BY created_at DESC
		LIMIT 1`,
		userID,
	)

	c, err := scanCoupon(row)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user coupon: %w", err)
	}
	return c, nil
}

func (r *repository) FindReusable(ctx context.Context, userID uint, percent int) (*Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE user_id = $1 AND discount_percentage = $2
		  AND is_active = true AND redeemed = false
		LIMIT 1`,
		userID, percent,
	)

	c, err := scanCoupon(row)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find reusable coupon: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, code string, userID uint, percent int) (*Coupon, error) {
	if percent < MinDiscountPercentage || percent > MaxDiscountPercentage {
		return nil, ErrInvalidPercent
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, user_id, discount_percentage)
		VALUES ($1, $2, $3)
		RETURNING `+couponColumns,
		code, userID, percent,
	)

	c, err := scanCoupon(row)
	if err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return c, nil
}

// MarkRedeemed flips redeemed exactly once; a second call finds no
// matching unredeemed row and reports ErrAlreadyRedeemed.
func (r *repository) MarkRedeemed(ctx context.Context, code string, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET redeemed = true, redeemed_at = NOW(), updated_at = NOW()
		WHERE code = $1 AND user_id = $2 AND redeemed = false`,
		code, userID,
	)
	if err != nil {
		return fmt.Errorf("mark coupon redeemed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyRedeemed
	}
	return nil
}
