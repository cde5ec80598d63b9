package model

import "github.com/shopspring/decimal"

// MoneyPlaces is the fixed scale of every stored amount and percentage.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to two places, which is half-up for
// the non-negative amounts handled here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// IsCents reports whether d carries no more than two decimal places.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// Percent returns round(amount * pct / 100, 2).
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(pct).Div(hundred))
}
