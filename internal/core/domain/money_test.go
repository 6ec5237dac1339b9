package domain_test

import (
	"testing"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMoney_Add(t *testing.T) {
	tests := []struct {
		name    string
		a       domain.Money
		b       domain.Money
		want    domain.Money
		wantErr error
	}{
		{
			name: "same currency",
			a:    domain.NewMoney(1050, "USD"),
			b:    domain.NewMoney(250, "USD"),
			want: domain.NewMoney(1300, "USD"),
		},
		{
			name: "negative operand",
			a:    domain.NewMoney(1000, "EUR"),
			b:    domain.NewMoney(-1500, "EUR"),
			want: domain.NewMoney(-500, "EUR"),
		},
		{
			name:    "currency mismatch",
			a:       domain.NewMoney(1000, "USD"),
			b:       domain.NewMoney(1000, "EUR"),
			wantErr: apperrors.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestMoney_Sub(t *testing.T) {
	got, err := domain.NewMoney(1000, "USD").Sub(domain.NewMoney(1300, "USD"))
	assert.NoError(t, err)
	assert.Equal(t, int64(-300), got.Amount)
	assert.True(t, got.IsNegative())

	_, err = domain.NewMoney(1000, "USD").Sub(domain.NewMoney(1, "JPY"))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestMoney_Cmp(t *testing.T) {
	a := domain.NewMoney(500, "USD")
	b := domain.NewMoney(700, "USD")

	cmp, err := a.Cmp(b)
	assert.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = b.Cmp(a)
	assert.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = a.Cmp(a)
	assert.NoError(t, err)
	assert.Equal(t, 0, cmp)

	_, err = a.Cmp(domain.NewMoney(500, "EUR"))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestMoney_NegAndZero(t *testing.T) {
	m := domain.NewMoney(250, "USD")
	assert.Equal(t, int64(-250), m.Neg().Amount)
	assert.False(t, m.IsZero())
	assert.True(t, domain.NewMoney(0, "USD").IsZero())
}
