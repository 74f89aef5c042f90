package product

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "name", "description", "price", "image", "category",
	"stock", "sold", "is_featured", "created_at", "updated_at",
}

func productRow(id string, stock, sold int) *sqlmock.Rows {
	return sqlmock.NewRows(productCols).AddRow(
		id, "Espresso Beans", "dark roast", "10.00", "beans.jpg", "coffee",
		stock, sold, false, time.Now(), time.Now(),
	)
}

func TestRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs("p1").
			WillReturnRows(productRow("p1", 5, 0))

		p, err := repo.FindByID(ctx, "p1")
		assert.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_DecrementStockTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("GuardPasses", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE products\s+SET stock = stock - \$1, sold = sold \+ \$1.*WHERE id = \$2 AND stock >= \$1`).
			WithArgs(2, "p1").
			WillReturnRows(productRow("p1", 3, 2))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)

		p, err := repo.DecrementStockTx(ctx, tx, "p1", 2)
		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 3, p.Stock)
		assert.Equal(t, 2, p.Sold)

		assert.NoError(t, tx.Commit())
	})

	t.Run("GuardFails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE products`).
			WithArgs(10, "p1").
			WillReturnRows(sqlmock.NewRows(productCols))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)

		p, err := repo.DecrementStockTx(ctx, tx, "p1", 10)
		assert.NoError(t, err)
		assert.Nil(t, p, "guard failure reports no product and no error")

		assert.NoError(t, tx.Rollback())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NoFields(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	_, err = repo.Update(context.Background(), UpdateProductParams{ID: "p1"})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}
