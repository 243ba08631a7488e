package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConversionRequest struct {
	From   Currency
	To     Currency
	Amount decimal.Decimal
}

type Conversion struct {
	Request ConversionRequest
	Rate    decimal.Decimal
	Result  decimal.Decimal // rounded to 2 places
}

type HistoryRecord struct {
	ID           string          `db:"id"`
	FromCurrency string          `db:"from_currency"`
	ToCurrency   string          `db:"to_currency"`
	Amount       decimal.Decimal `db:"amount"`
	Rate         decimal.Decimal `db:"rate"`
	Result       decimal.Decimal `db:"result"`
	CreatedAt    time.Time       `db:"created_at"`
}
