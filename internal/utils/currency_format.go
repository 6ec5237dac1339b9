package utils

import (
	"fmt"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatCentsWithCurrency renders integer minor units as a decimal string
// with the currency's precision.
// Example: 1234 cents with USD (precision 2) returns "12.34"
// Example: 1234 with JPY (precision 0) returns "1234"
func FormatCentsWithCurrency(cents int64, currency domain.Currency) string {
	return FormatCents(cents, currency.Precision)
}

// FormatCents renders integer minor units with the given precision. This is
// a pure projection; stored values stay integer.
func FormatCents(cents int64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return decimal.New(cents, -int32(precision)).StringFixed(int32(precision))
}

// FormatMoney renders a Money value with an explicit currency code suffix,
// e.g. "12.34 USD".
func FormatMoney(m domain.Money, currency domain.Currency) string {
	return fmt.Sprintf("%s %s", FormatCentsWithCurrency(m.Amount, currency), m.CurrencyCode)
}
