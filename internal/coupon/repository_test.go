package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponCols = []string{
	"id", "code", "user_id", "discount_percentage",
	"is_active", "redeemed", "redeemed_at", "created_at", "updated_at",
}

func TestRepository_FindActiveUnredeemed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(couponCols).AddRow(
			1, "WELCOME30-A1B2C3", 7, 30, true, false, nil, time.Now(), time.Now(),
		)
		mock.ExpectQuery(`SELECT .* FROM coupons\s+WHERE code = \$1 AND user_id = \$2 AND is_active = true AND redeemed = false`).
			WithArgs("WELCOME30-A1B2C3", uint(7)).
			WillReturnRows(rows)

		c, err := repo.FindActiveUnredeemed(ctx, "WELCOME30-A1B2C3", 7)
		assert.NoError(t, err)
		assert.Equal(t, 30, c.DiscountPercentage)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM coupons`).
			WithArgs("NOPE", uint(7)).
			WillReturnRows(sqlmock.NewRows(couponCols))

		_, err := repo.FindActiveUnredeemed(ctx, "NOPE", 7)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})
}

func TestRepository_CreateRejectsOutOfRangePercent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, percent := range []int{0, -5, 71, 100} {
		_, err := repo.Create(ctx, "WELCOME30-A1B2C3", 7, percent)
		assert.ErrorIs(t, err, ErrInvalidPercent)
	}

	// No insert may reach the database for rejected percentages.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkRedeemed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("FirstRedeem", func(t *testing.T) {
		mock.ExpectExec(`UPDATE coupons\s+SET redeemed = true.*WHERE code = \$1 AND user_id = \$2 AND redeemed = false`).
			WithArgs("WELCOME30-A1B2C3", uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkRedeemed(ctx, "WELCOME30-A1B2C3", 7))
	})

	t.Run("AlreadyRedeemed", func(t *testing.T) {
		mock.ExpectExec(`UPDATE coupons`).
			WithArgs("WELCOME30-A1B2C3", uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkRedeemed(ctx, "WELCOME30-A1B2C3", 7), ErrAlreadyRedeemed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
