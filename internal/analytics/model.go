package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Users    int64
	Products int64
	Sales    int64
	Revenue  decimal.Decimal
}

type DailySale struct {
	Date    time.Time
	Sales   int64
	Revenue decimal.Decimal
}
