package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/utils"
)

// currencyService manages the currency registry and the projection between
// decimal amount strings and stored integer cents.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	now := time.Now().UTC()

	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// ToCents parses a decimal amount string into integer minor units using the
// currency's precision. A string with more fraction digits than the currency
// supports is rejected rather than silently rounded.
func (s *currencyService) ToCents(ctx context.Context, amount string, currencyCode string) (int64, error) {
	currency, err := s.lookup(ctx, currencyCode)
	if err != nil {
		return 0, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed amount %q", apperrors.ErrInvalidAmount, amount)
	}

	scaled := d.Shift(int32(currency.Precision))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: amount %q exceeds %s precision of %d", apperrors.ErrInvalidAmount, amount, currencyCode, currency.Precision)
	}
	return scaled.IntPart(), nil
}

// ToDecimalString renders integer minor units back to a decimal string with
// the currency's full precision ("1050" -> "10.50" for USD).
func (s *currencyService) ToDecimalString(ctx context.Context, cents int64, currencyCode string) (string, error) {
	currency, err := s.lookup(ctx, currencyCode)
	if err != nil {
		return "", err
	}
	return utils.FormatCentsWithCurrency(cents, *currency), nil
}

func (s *currencyService) lookup(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrUnknownCurrency, currencyCode)
	}
	return currency, nil
}
