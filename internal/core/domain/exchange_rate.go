package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a
// specific date. Rates are quoted relative to the company default currency;
// cross rates are composed through it.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`   // Primary Key (e.g., UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"` // FK -> Currency.currencyCode
	ToCurrencyCode   string          `json:"toCurrencyCode"`   // FK -> Currency.currencyCode
	Rate             decimal.Decimal `json:"rate"`             // Precise decimal type, > 0
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
