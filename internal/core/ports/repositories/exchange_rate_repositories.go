package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rates.
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the latest effective rate for a currency
	// pair. Returns apperrors.ErrNotFound when no rate is configured.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves all configured rates.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rates.
type ExchangeRateWriter interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
