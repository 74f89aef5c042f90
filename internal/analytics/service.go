package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidDateRange = errors.New("invalid date range")

type Service interface {
	GetTotals(ctx context.Context) (*Totals, error)
	// GetDailySales returns one row per day in [from, to], zero-filled for
	// days without orders. A zero range defaults to the trailing week.
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySale, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetTotals(ctx context.Context) (*Totals, error) {
	return s.repo.Totals(ctx)
}

func (s *service) GetDailySales(ctx context.Context, from, to time.Time) ([]DailySale, error) {
	if from.IsZero() && to.IsZero() {
		to = time.Now()
		from = to.AddDate(0, 0, -7)
	}
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour)
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.repo.DailySales(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]DailySale, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	var sales []DailySale
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if row, ok := byDay[day.Format("2006-01-02")]; ok {
			sales = append(sales, row)
			continue
		}
		sales = append(sales, DailySale{Date: day, Sales: 0, Revenue: decimal.Zero})
	}
	return sales, nil
}
