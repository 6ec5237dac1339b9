package dto

import (
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest registers a currency in the registry.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Precision    int    `json:"precision" binding:"gte=0,lte=8"`
}

// CurrencyResponse mirrors a registered currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
}

// ToCurrencyResponse converts a domain.Currency to its response DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
		Precision:    c.Precision,
	}
}

// CreateExchangeRateRequest configures a conversion rate for a currency pair.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse mirrors a configured exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its response DTO.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   r.ExchangeRateID,
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		DateEffective:    r.DateEffective,
	}
}
