package domain

import (
	"github.com/finbooks/finbooks_app/internal/utils/rates"
	"github.com/shopspring/decimal"
)

// LineItem is one row of a document: an offering, a quantity and a unit
// price, plus the taxes and discounts attached to it. Monetary fields are
// integer cents in the owning document's currency; quantity is a decimal
// with two-digit precision.
type LineItem struct {
	LineItemID  string `json:"lineItemID"`
	DocumentID  string `json:"documentID"`
	OfferingID  string `json:"offeringID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// AccountID is the expense (bills) or revenue (invoices) account the
	// line's subtotal posts to.
	AccountID string          `json:"accountID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice int64           `json:"unitPrice"` // cents

	Taxes     []Adjustment `json:"taxes"`
	Discounts []Adjustment `json:"discounts"`

	Subtotal      int64 `json:"subtotal"`
	TaxTotal      int64 `json:"taxTotal"`
	DiscountTotal int64 `json:"discountTotal"`
	Total         int64 `json:"total"`
	AuditFields
}

// Recalculate recomputes subtotal, adjustment totals and total. Taxes always
// apply against the line subtotal. Discounts apply here only when the
// document uses PerLineItem discounting; PerDocument discounts are allocated
// at the document level instead. Negative totals propagate, they are not
// clamped.
func (li *LineItem) Recalculate(method DiscountMethod) {
	li.Subtotal = li.computeSubtotal()

	var taxTotal int64
	for _, adj := range li.Taxes {
		taxTotal += li.AdjustmentAmount(adj)
	}
	li.TaxTotal = taxTotal

	var discountTotal int64
	if !method.IsPerDocument() {
		for _, adj := range li.Discounts {
			discountTotal += li.AdjustmentAmount(adj)
		}
	}
	li.DiscountTotal = discountTotal

	li.Total = li.Subtotal + li.TaxTotal - li.DiscountTotal
}

// AdjustmentAmount computes a single adjustment's value against this line's
// subtotal.
func (li *LineItem) AdjustmentAmount(adj Adjustment) int64 {
	if adj.Computation.IsPercentage() {
		return rates.CalculatePercentage(li.Subtotal, adj.Rate)
	}
	return adj.Rate
}

// computeSubtotal is round-half-up(quantity * unitPrice) in integer cents.
func (li *LineItem) computeSubtotal() int64 {
	return li.Quantity.
		Mul(decimal.NewFromInt(li.UnitPrice)).
		Round(0).
		IntPart()
}
