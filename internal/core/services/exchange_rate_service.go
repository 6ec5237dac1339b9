package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// exchangeRateService manages conversion rates and converts integer-cent
// amounts between currencies. Rates missing for a pair are composed through
// the configured base currency before giving up.
type exchangeRateService struct {
	exchangeRateRepo portsrepo.ExchangeRateRepositoryFacade
	currencySvc      portssvc.CurrencySvcFacade
	baseCurrencyCode string
}

// NewExchangeRateService creates a new exchange rate service. baseCurrencyCode
// is the pivot used to compose cross rates.
func NewExchangeRateService(exchangeRateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade, baseCurrencyCode string) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		exchangeRateRepo: exchangeRateRepo,
		currencySvc:      currencySvc,
		baseCurrencyCode: baseCurrencyCode,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency must differ", apperrors.ErrValidation)
	}

	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.FromCurrencyCode); err != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrUnknownCurrency, req.FromCurrencyCode)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.ToCurrencyCode); err != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrUnknownCurrency, req.ToCurrencyCode)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.exchangeRateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return &rate, nil
}

func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	rate, err := s.exchangeRateRepo.FindExchangeRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate %s->%s: %w", fromCode, toCode, err)
	}
	return rate, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rateList, err := s.exchangeRateRepo.ListExchangeRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	if rateList == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rateList, nil
}

// Convert converts integer cents between currencies, rounding half-up to the
// nearest cent. Resolution order: identity, direct rate, inverted reverse
// rate, then composition through the base currency. Exhausting all of those
// fails with apperrors.ErrMissingExchangeRate.
func (s *exchangeRateService) Convert(ctx context.Context, cents int64, fromCode, toCode string) (int64, error) {
	if fromCode == toCode {
		return cents, nil
	}

	rate, err := s.resolveRate(ctx, fromCode, toCode)
	if err != nil {
		return 0, err
	}

	return decimal.NewFromInt(cents).Mul(rate).Round(0).IntPart(), nil
}

// resolveRate finds the decimal multiplier for fromCode -> toCode.
func (s *exchangeRateService) resolveRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	if rate, ok := s.pairRate(ctx, fromCode, toCode); ok {
		return rate, nil
	}

	// Cross rate through the base currency: from -> base, base -> to.
	if s.baseCurrencyCode != "" && fromCode != s.baseCurrencyCode && toCode != s.baseCurrencyCode {
		fromBase, okFrom := s.pairRate(ctx, fromCode, s.baseCurrencyCode)
		baseTo, okTo := s.pairRate(ctx, s.baseCurrencyCode, toCode)
		if okFrom && okTo {
			return fromBase.Mul(baseTo), nil
		}
	}

	return decimal.Zero, fmt.Errorf("%w: no rate configured for %s->%s", apperrors.ErrMissingExchangeRate, fromCode, toCode)
}

// pairRate returns the direct rate for a pair, falling back to the inverse
// of the reverse pair.
func (s *exchangeRateService) pairRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, bool) {
	direct, err := s.exchangeRateRepo.FindExchangeRate(ctx, fromCode, toCode)
	if err == nil {
		return direct.Rate, true
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, false
	}

	reverse, err := s.exchangeRateRepo.FindExchangeRate(ctx, toCode, fromCode)
	if err != nil || reverse.Rate.IsZero() {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(1).DivRound(reverse.Rate, 16), true
}
