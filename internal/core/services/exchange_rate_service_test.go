package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/finbooks/finbooks_app/internal/core/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

func rateFixture(from, to, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID:   from + "-" + to,
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(rate),
		DateEffective:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExchangeRateService_CreateExchangeRate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		currencySvc := new(MockCurrencyService)
		currencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil)
		currencySvc.On("GetCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil)
		repo.On("SaveExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()
		svc := services.NewExchangeRateService(repo, currencySvc, "USD")

		created, err := svc.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "EUR",
			Rate:             decimal.RequireFromString("0.92"),
			DateEffective:    time.Now(),
		}, "user-1")

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ExchangeRateID)
		repo.AssertExpectations(t)
	})

	t.Run("non-positive rate", func(t *testing.T) {
		svc := services.NewExchangeRateService(new(MockExchangeRateRepository), new(MockCurrencyService), "USD")
		_, err := svc.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "EUR",
			Rate:             decimal.Zero,
		}, "user-1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("identical currencies", func(t *testing.T) {
		svc := services.NewExchangeRateService(new(MockExchangeRateRepository), new(MockCurrencyService), "USD")
		_, err := svc.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "USD",
			Rate:             decimal.NewFromInt(1),
		}, "user-1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown currency", func(t *testing.T) {
		currencySvc := new(MockCurrencyService)
		currencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil)
		currencySvc.On("GetCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound)
		svc := services.NewExchangeRateService(new(MockExchangeRateRepository), currencySvc, "USD")

		_, err := svc.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "XXX",
			Rate:             decimal.NewFromInt(1),
		}, "user-1")
		assert.ErrorIs(t, err, apperrors.ErrUnknownCurrency)
	})
}

func TestExchangeRateService_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("identity needs no rate", func(t *testing.T) {
		svc := services.NewExchangeRateService(new(MockExchangeRateRepository), new(MockCurrencyService), "USD")
		got, err := svc.Convert(ctx, 1050, "USD", "USD")
		assert.NoError(t, err)
		assert.Equal(t, int64(1050), got)
	})

	t.Run("direct rate", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("FindExchangeRate", ctx, "USD", "EUR").Return(rateFixture("USD", "EUR", "0.92"), nil)
		svc := services.NewExchangeRateService(repo, new(MockCurrencyService), "USD")

		got, err := svc.Convert(ctx, 10000, "USD", "EUR")
		assert.NoError(t, err)
		assert.Equal(t, int64(9200), got)
	})

	t.Run("direct rate rounds half-up", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("FindExchangeRate", ctx, "USD", "EUR").Return(rateFixture("USD", "EUR", "0.915"), nil)
		svc := services.NewExchangeRateService(repo, new(MockCurrencyService), "USD")

		got, err := svc.Convert(ctx, 101, "USD", "EUR") // 92.415 -> 92
		assert.NoError(t, err)
		assert.Equal(t, int64(92), got)
	})

	t.Run("falls back to inverted reverse rate", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("FindExchangeRate", ctx, "EUR", "USD").Return(nil, apperrors.ErrNotFound)
		repo.On("FindExchangeRate", ctx, "USD", "EUR").Return(rateFixture("USD", "EUR", "0.8"), nil)
		svc := services.NewExchangeRateService(repo, new(MockCurrencyService), "USD")

		got, err := svc.Convert(ctx, 8000, "EUR", "USD") // 8000 / 0.8
		assert.NoError(t, err)
		assert.Equal(t, int64(10000), got)
	})

	t.Run("composes a cross rate through the base currency", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		// No direct or reverse GBP->EUR rate.
		repo.On("FindExchangeRate", ctx, "GBP", "EUR").Return(nil, apperrors.ErrNotFound)
		repo.On("FindExchangeRate", ctx, "EUR", "GBP").Return(nil, apperrors.ErrNotFound)
		// GBP -> USD -> EUR.
		repo.On("FindExchangeRate", ctx, "GBP", "USD").Return(rateFixture("GBP", "USD", "1.25"), nil)
		repo.On("FindExchangeRate", ctx, "USD", "EUR").Return(rateFixture("USD", "EUR", "0.92"), nil)
		svc := services.NewExchangeRateService(repo, new(MockCurrencyService), "USD")

		got, err := svc.Convert(ctx, 10000, "GBP", "EUR") // 10000 * 1.25 * 0.92
		assert.NoError(t, err)
		assert.Equal(t, int64(11500), got)
	})

	t.Run("missing rate", func(t *testing.T) {
		repo := new(MockExchangeRateRepository)
		repo.On("FindExchangeRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
		svc := services.NewExchangeRateService(repo, new(MockCurrencyService), "USD")

		_, err := svc.Convert(ctx, 10000, "GBP", "EUR")
		assert.ErrorIs(t, err, apperrors.ErrMissingExchangeRate)
	})
}
