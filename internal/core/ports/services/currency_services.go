package services

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// CurrencySvcFacade manages the currency registry and the integer-cents
// projection of decimal strings.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// ToCents parses a decimal amount string into integer minor units using
	// the currency's precision. Malformed input fails with
	// apperrors.ErrInvalidAmount; unknown codes with apperrors.ErrUnknownCurrency.
	ToCents(ctx context.Context, amount string, currencyCode string) (int64, error)

	// ToDecimalString renders integer minor units back to a decimal string.
	// Pure projection; stored values stay integer.
	ToDecimalString(ctx context.Context, cents int64, currencyCode string) (string, error)
}

// ExchangeRateSvcFacade manages exchange rates and currency conversion.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// Convert converts integer cents between currencies using the stored
	// rates, rounding half-up to the nearest cent. Missing configuration
	// fails with apperrors.ErrMissingExchangeRate.
	Convert(ctx context.Context, cents int64, fromCode, toCode string) (int64, error)
}
