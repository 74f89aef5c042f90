package analytics

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySale, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)
	`

	var t Totals
	err := r.db.QueryRowContext(ctx, query).
		Scan(&t.Users, &t.Products, &t.Sales, &t.Revenue)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) DailySales(ctx context.Context, from, to time.Time) ([]DailySale, error) {
	query := `
		SELECT created_at::date AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []DailySale
	for rows.Next() {
		var s DailySale
		if err := rows.Scan(&s.Date, &s.Sales, &s.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
