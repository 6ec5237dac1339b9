package domain_test

import (
	"testing"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func percentTax(rate int64) domain.Adjustment {
	return domain.Adjustment{
		AdjustmentID: "tax-" + decimal.NewFromInt(rate).String(),
		Category:     domain.Tax,
		Computation:  domain.Percentage,
		Rate:         rate,
	}
}

func percentDiscount(rate int64) domain.Adjustment {
	return domain.Adjustment{
		AdjustmentID: "disc-" + decimal.NewFromInt(rate).String(),
		Category:     domain.Discount,
		Computation:  domain.Percentage,
		Rate:         rate,
	}
}

func TestLineItem_Recalculate(t *testing.T) {
	tests := []struct {
		name         string
		lineItem     domain.LineItem
		method       domain.DiscountMethod
		wantSubtotal int64
		wantTax      int64
		wantDiscount int64
		wantTotal    int64
	}{
		{
			name: "quantity times unit price with percentage tax",
			lineItem: domain.LineItem{
				Quantity:  decimal.NewFromInt(3),
				UnitPrice: 1000,
				Taxes:     []domain.Adjustment{percentTax(100000)}, // 10%
			},
			method:       domain.PerLineItem,
			wantSubtotal: 3000,
			wantTax:      300,
			wantTotal:    3300,
		},
		{
			name: "fractional quantity rounds half-up",
			lineItem: domain.LineItem{
				Quantity:  decimal.RequireFromString("2.5"),
				UnitPrice: 333, // 832.5 -> 833
			},
			method:       domain.PerLineItem,
			wantSubtotal: 833,
			wantTotal:    833,
		},
		{
			name: "per line discount applies",
			lineItem: domain.LineItem{
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: 10000,
				Taxes:     []domain.Adjustment{percentTax(50000)},      // 5%
				Discounts: []domain.Adjustment{percentDiscount(100000)}, // 10%
			},
			method:       domain.PerLineItem,
			wantSubtotal: 10000,
			wantTax:      500,
			wantDiscount: 1000,
			wantTotal:    9500,
		},
		{
			name: "per document method ignores line discounts",
			lineItem: domain.LineItem{
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: 10000,
				Discounts: []domain.Adjustment{percentDiscount(100000)},
			},
			method:       domain.PerDocument,
			wantSubtotal: 10000,
			wantTotal:    10000,
		},
		{
			name: "fixed adjustment ignores subtotal",
			lineItem: domain.LineItem{
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: 500,
				Taxes: []domain.Adjustment{{
					Category:    domain.Tax,
					Computation: domain.Fixed,
					Rate:        250,
				}},
			},
			method:       domain.PerLineItem,
			wantSubtotal: 1000,
			wantTax:      250,
			wantTotal:    1250,
		},
		{
			name: "negative quantity propagates without clamping",
			lineItem: domain.LineItem{
				Quantity:  decimal.NewFromInt(-1),
				UnitPrice: 1000,
				Taxes:     []domain.Adjustment{percentTax(100000)},
			},
			method:       domain.PerLineItem,
			wantSubtotal: -1000,
			wantTax:      -100,
			wantTotal:    -1100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.lineItem.Recalculate(tt.method)
			assert.Equal(t, tt.wantSubtotal, tt.lineItem.Subtotal)
			assert.Equal(t, tt.wantTax, tt.lineItem.TaxTotal)
			assert.Equal(t, tt.wantDiscount, tt.lineItem.DiscountTotal)
			assert.Equal(t, tt.wantTotal, tt.lineItem.Total)
		})
	}
}

func TestDocument_RecalculateTotals_PerDocumentPercentage(t *testing.T) {
	doc := domain.Document{
		Type:                domain.Invoice,
		DiscountMethod:      domain.PerDocument,
		DiscountComputation: domain.Percentage,
		DiscountRate:        100000, // 10%
		LineItems: []domain.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: 6000, Taxes: []domain.Adjustment{percentTax(100000)}},
			{Quantity: decimal.NewFromInt(1), UnitPrice: 4000},
		},
	}

	doc.RecalculateTotals()

	assert.Equal(t, int64(10000), doc.Subtotal)
	assert.Equal(t, int64(600), doc.TaxTotal)
	assert.Equal(t, int64(1000), doc.DiscountTotal) // 10% of subtotal, not of subtotal+tax
	assert.Equal(t, int64(9600), doc.Total)
}

func TestDocument_RecalculateTotals_PerDocumentFixed(t *testing.T) {
	doc := domain.Document{
		Type:                domain.Bill,
		DiscountMethod:      domain.PerDocument,
		DiscountComputation: domain.Fixed,
		DiscountRate:        550,
		LineItems: []domain.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: 3000},
		},
	}

	doc.RecalculateTotals()

	assert.Equal(t, int64(550), doc.DiscountTotal)
	assert.Equal(t, int64(2450), doc.Total)
}

func TestDocument_AllocateDocumentDiscount(t *testing.T) {
	doc := domain.Document{
		DiscountMethod:      domain.PerDocument,
		DiscountComputation: domain.Fixed,
		DiscountRate:        100, // does not divide evenly across three lines
		LineItems: []domain.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: 1000},
			{Quantity: decimal.NewFromInt(1), UnitPrice: 1000},
			{Quantity: decimal.NewFromInt(1), UnitPrice: 1000},
		},
	}
	doc.RecalculateTotals()

	allocations := doc.AllocateDocumentDiscount()

	assert.Len(t, allocations, 3)
	var sum int64
	for _, a := range allocations {
		sum += a
	}
	// Last line absorbs the remainder; the sum is always exact.
	assert.Equal(t, doc.DiscountTotal, sum)
	assert.Equal(t, int64(33), allocations[0])
	assert.Equal(t, int64(33), allocations[1])
	assert.Equal(t, int64(34), allocations[2])
}

func TestDocument_AllocateDocumentDiscount_LargeAmounts(t *testing.T) {
	// Two equal lines near the field cap (9,999,999,999.99): the intermediate
	// subtotal×discount product exceeds int64, so the proportion must not be
	// computed in raw integer math.
	doc := domain.Document{
		DiscountMethod:      domain.PerDocument,
		DiscountComputation: domain.Fixed,
		DiscountRate:        100_000_000_000,
		LineItems: []domain.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: 999_999_999_999},
			{Quantity: decimal.NewFromInt(1), UnitPrice: 999_999_999_999},
		},
	}
	doc.RecalculateTotals()

	allocations := doc.AllocateDocumentDiscount()

	assert.Equal(t, []int64{50_000_000_000, 50_000_000_000}, allocations)
}

func TestDocument_AllocateDocumentDiscount_PerLineMethod(t *testing.T) {
	doc := domain.Document{
		DiscountMethod: domain.PerLineItem,
		LineItems: []domain.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: 1000},
		},
	}
	doc.RecalculateTotals()

	allocations := doc.AllocateDocumentDiscount()
	assert.Equal(t, []int64{0}, allocations)
}

func TestDocument_AmountDue(t *testing.T) {
	doc := domain.Document{Total: 10000, AmountPaid: 4000}
	assert.Equal(t, int64(6000), doc.AmountDue())

	doc.AmountPaid = 12000
	assert.Equal(t, int64(0), doc.AmountDue()) // overpayment floors at zero
}
