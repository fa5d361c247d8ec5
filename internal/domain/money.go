package domain

import "github.com/shopspring/decimal"

const moneyPlaces = 2

// Money is an amount as it leaves the API: a JSON number with exactly two
// decimal places (50 is written as 50.00). Decoding accepts any JSON number
// or numeric string.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(moneyPlaces)), nil
}
