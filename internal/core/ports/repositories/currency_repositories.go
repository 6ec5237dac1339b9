package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// CurrencyReader defines read operations for the currency registry.
type CurrencyReader interface {
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for the currency registry.
type CurrencyWriter interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency repository interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
