package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Totals(ctx context.Context) (*Totals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Totals), args.Error(1)
}

func (m *MockRepository) DailySales(ctx context.Context, from, to time.Time) ([]DailySale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailySale), args.Error(1)
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestRepositoryTotals(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	dbMock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"users", "products", "sales", "revenue"}).
			AddRow(120, 35, 412, "10942.50"))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), totals.Users)
	assert.Equal(t, int64(35), totals.Products)
	assert.Equal(t, int64(412), totals.Sales)
	assert.Equal(t, "10942.50", totals.Revenue.StringFixed(2))
}

func TestRepositoryDailySales(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	from, to := day("2026-08-01"), day("2026-08-08")

	dbMock.ExpectQuery(`GROUP BY day`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count", "sum"}).
			AddRow(day("2026-08-02"), 3, "450.00").
			AddRow(day("2026-08-05"), 1, "129.00"))

	sales, err := repo.DailySales(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, int64(3), sales[0].Sales)
	assert.Equal(t, "129.00", sales[1].Revenue.StringFixed(2))
}

func TestGetDailySalesZeroFillsGaps(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	from, to := day("2026-08-01"), day("2026-08-03")
	repo.On("DailySales", mock.Anything, from, day("2026-08-04")).
		Return([]DailySale{
			{Date: day("2026-08-02"), Sales: 2, Revenue: decimal.NewFromFloat(258)},
		}, nil)

	sales, err := svc.GetDailySales(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, sales, 3)

	assert.Equal(t, int64(0), sales[0].Sales)
	assert.Equal(t, int64(2), sales[1].Sales)
	assert.Equal(t, "258.00", sales[1].Revenue.StringFixed(2))
	assert.Equal(t, int64(0), sales[2].Sales)
}

func TestGetDailySalesRejectsReversedRange(t *testing.T) {
	svc := NewService(new(MockRepository))

	_, err := svc.GetDailySales(context.Background(), day("2026-08-08"), day("2026-08-01"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
