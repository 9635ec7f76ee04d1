package export

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimals shown for currency amounts.
const MoneyPlaces = 2

// Money rounds v half away from zero to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(MoneyPlaces)
}

// FormatMoney renders v with exactly two decimals and no grouping.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(MoneyPlaces)
}
