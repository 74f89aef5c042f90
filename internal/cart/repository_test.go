package cart

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cartCols = []string{"id", "user_id", "product_id", "quantity", "created_at", "updated_at"}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows(cartCols).
		AddRow(1, 7, "p1", 2, time.Now(), time.Now())

	mock.ExpectQuery(`INSERT INTO cart_items .*ON CONFLICT \(user_id, product_id\)`).
		WithArgs(uint(7), "p1", 1).
		WillReturnRows(rows)

	item, err := repo.Upsert(context.Background(), 7, "p1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Remove_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(uint(7), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Remove(context.Background(), 7, "ghost")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRepository_ClearTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \$1`).
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	assert.NoError(t, repo.ClearTx(context.Background(), tx, 7))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
