package domain

import (
	"fmt"

	"github.com/finbooks/finbooks_app/internal/apperrors"
)

// Money is an exact monetary value: an integer amount in the currency's minor
// units (cents for USD) plus an ISO 4217 currency code. All arithmetic is
// integer; floats never touch stored values.
type Money struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// NewMoney builds a Money value.
func NewMoney(amount int64, currencyCode string) Money {
	return Money{Amount: amount, CurrencyCode: currencyCode}
}

// Add returns m + other. Both values must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", apperrors.ErrCurrencyMismatch, other.CurrencyCode, m.CurrencyCode)
	}
	return Money{Amount: m.Amount + other.Amount, CurrencyCode: m.CurrencyCode}, nil
}

// Sub returns m - other. Both values must share a currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", apperrors.ErrCurrencyMismatch, other.CurrencyCode, m.CurrencyCode)
	}
	return Money{Amount: m.Amount - other.Amount, CurrencyCode: m.CurrencyCode}, nil
}

// Neg returns the value with its sign flipped.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, CurrencyCode: m.CurrencyCode}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// Equal reports whether both the amount and the currency match.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.CurrencyCode == other.CurrencyCode
}

// Cmp compares two same-currency values: -1 if m < other, 0 if equal, +1 if
// greater. Cross-currency comparison requires conversion first.
func (m Money) Cmp(other Money) (int, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", apperrors.ErrCurrencyMismatch, m.CurrencyCode, other.CurrencyCode)
	}
	switch {
	case m.Amount < other.Amount:
		return -1, nil
	case m.Amount > other.Amount:
		return 1, nil
	default:
		return 0, nil
	}
}
