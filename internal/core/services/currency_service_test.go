package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/finbooks/finbooks_app/internal/core/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

func TestCurrencyService_CreateCurrency(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCurrencyRepository)
	svc := services.NewCurrencyService(repo)

	repo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(nil).Once()

	created, err := svc.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: "USD",
		Symbol:       "$",
		Name:         "US Dollar",
		Precision:    2,
	}, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "USD", created.CurrencyCode)
	assert.Equal(t, 2, created.Precision)
	assert.Equal(t, "user-1", created.CreatedBy)
	repo.AssertExpectations(t)
}

func TestCurrencyService_ToCents(t *testing.T) {
	usd := &domain.Currency{CurrencyCode: "USD", Precision: 2}
	jpy := &domain.Currency{CurrencyCode: "JPY", Precision: 0}

	tests := []struct {
		name     string
		amount   string
		currency *domain.Currency
		want     int64
		wantErr  error
	}{
		{name: "two decimal places", amount: "10.50", currency: usd, want: 1050},
		{name: "whole number", amount: "10", currency: usd, want: 1000},
		{name: "zero precision currency", amount: "1500", currency: jpy, want: 1500},
		{name: "negative amount", amount: "-3.25", currency: usd, want: -325},
		{name: "excess precision rejected", amount: "1.005", currency: usd, wantErr: apperrors.ErrInvalidAmount},
		{name: "fraction on zero precision rejected", amount: "10.5", currency: jpy, wantErr: apperrors.ErrInvalidAmount},
		{name: "malformed", amount: "ten dollars", currency: usd, wantErr: apperrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockCurrencyRepository)
			repo.On("FindCurrencyByCode", ctx, tt.currency.CurrencyCode).Return(tt.currency, nil)
			svc := services.NewCurrencyService(repo)

			got, err := svc.ToCents(ctx, tt.amount, tt.currency.CurrencyCode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrencyService_ToCents_UnknownCurrency(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCurrencyRepository)
	repo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound)
	svc := services.NewCurrencyService(repo)

	_, err := svc.ToCents(ctx, "10.00", "XXX")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCurrency)
}

func TestCurrencyService_ToDecimalString(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCurrencyRepository)
	repo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil)
	repo.On("FindCurrencyByCode", ctx, "JPY").Return(&domain.Currency{CurrencyCode: "JPY", Precision: 0}, nil)
	svc := services.NewCurrencyService(repo)

	got, err := svc.ToDecimalString(ctx, 1050, "USD")
	assert.NoError(t, err)
	assert.Equal(t, "10.50", got)

	got, err = svc.ToDecimalString(ctx, 5, "USD")
	assert.NoError(t, err)
	assert.Equal(t, "0.05", got)

	got, err = svc.ToDecimalString(ctx, -325, "USD")
	assert.NoError(t, err)
	assert.Equal(t, "-3.25", got)

	got, err = svc.ToDecimalString(ctx, 1500, "JPY")
	assert.NoError(t, err)
	assert.Equal(t, "1500", got)
}

func TestCurrencyService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCurrencyRepository)
	repo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil)
	svc := services.NewCurrencyService(repo)

	for _, s := range []string{"0.00", "10.50", "0.01", "-3.25", "99999999.99"} {
		cents, err := svc.ToCents(ctx, s, "USD")
		assert.NoError(t, err)
		back, err := svc.ToDecimalString(ctx, cents, "USD")
		assert.NoError(t, err)
		assert.Equal(t, s, back)
	}
}
