package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_app/internal/utils/rates"
)

// DocumentType discriminates the billable document variants.
type DocumentType string

const (
	Bill             DocumentType = "BILL"
	Invoice          DocumentType = "INVOICE"
	Estimate         DocumentType = "ESTIMATE"
	RecurringInvoice DocumentType = "RECURRING_INVOICE"
)

// IsPayable reports whether the document represents money we owe (credit the
// control account on recognition) as opposed to money owed to us.
func (t DocumentType) IsPayable() bool {
	return t == Bill
}

// ControlAccountRole returns the role of the control account the document's
// initial recognition posts against.
func (t DocumentType) ControlAccountRole() AccountRole {
	if t.IsPayable() {
		return RoleAccountsPayable
	}
	return RoleAccountsReceivable
}

// DiscountAccountRole returns the role of the contra account per-document
// discounts post to.
func (t DocumentType) DiscountAccountRole() AccountRole {
	if t.IsPayable() {
		return RolePurchaseDiscount
	}
	return RoleSalesDiscount
}

// DiscountMethod selects whether discounts apply per line item or once
// against the whole document.
type DiscountMethod string

const (
	PerLineItem DiscountMethod = "PER_LINE_ITEM"
	PerDocument DiscountMethod = "PER_DOCUMENT"
)

// IsPerDocument reports whether the discount applies at the document level.
func (m DiscountMethod) IsPerDocument() bool {
	return m == PerDocument
}

// Document is a billable entity: bill, invoice, estimate or recurring
// invoice. It exclusively owns its line items; deleting a document cascades
// to its line items and transactions.
type Document struct {
	DocumentID     string       `json:"documentID"`
	CompanyID      string       `json:"companyID"`
	Type           DocumentType `json:"type"`
	PartnerID      string       `json:"partnerID"` // Vendor for bills, client otherwise
	PartnerName    string       `json:"partnerName"`
	DocumentNumber string       `json:"documentNumber"`
	OrderNumber    string       `json:"orderNumber"`
	Date           time.Time    `json:"date"`
	// DueDate doubles as the expiration date for estimates.
	DueDate    time.Time  `json:"dueDate"`
	PaidAt     *time.Time `json:"paidAt"`
	ApprovedAt *time.Time `json:"approvedAt"`
	LastSentAt *time.Time `json:"lastSentAt"`

	CurrencyCode        string                `json:"currencyCode"`
	DiscountMethod      DiscountMethod        `json:"discountMethod"`
	DiscountComputation AdjustmentComputation `json:"discountComputation"`
	// DiscountRate is a scaled percentage or fixed cents depending on
	// DiscountComputation; only meaningful for PerDocument discounts.
	DiscountRate int64 `json:"discountRate"`

	// Computed totals, integer cents in the document currency.
	Subtotal      int64 `json:"subtotal"`
	TaxTotal      int64 `json:"taxTotal"`
	DiscountTotal int64 `json:"discountTotal"`
	Total         int64 `json:"total"`
	AmountPaid    int64 `json:"amountPaid"`

	Status    DocumentStatus `json:"status"`
	Notes     string         `json:"notes"`
	LineItems []LineItem     `json:"lineItems"`

	Schedule *Schedule `json:"schedule,omitempty"` // Recurring invoices only
	AuditFields
}

// AmountDue returns total minus amount paid, floored at zero (overpayments
// never produce a negative due).
func (d *Document) AmountDue() int64 {
	due := d.Total - d.AmountPaid
	if due < 0 {
		return 0
	}
	return due
}

// RecalculateTotals recomputes each line item and then the document
// aggregates. With PerLineItem discounts every line carries its own discount;
// with PerDocument the discount is computed once against the document
// subtotal and line-level discounts are ignored.
func (d *Document) RecalculateTotals() {
	var subtotal, taxTotal, discountTotal int64

	for i := range d.LineItems {
		d.LineItems[i].Recalculate(d.DiscountMethod)
		subtotal += d.LineItems[i].Subtotal
		taxTotal += d.LineItems[i].TaxTotal
	}

	if d.DiscountMethod.IsPerDocument() {
		if d.DiscountComputation.IsPercentage() {
			discountTotal = rates.CalculatePercentage(subtotal, d.DiscountRate)
		} else {
			discountTotal = d.DiscountRate
		}
	} else {
		for i := range d.LineItems {
			discountTotal += d.LineItems[i].DiscountTotal
		}
	}

	d.Subtotal = subtotal
	d.TaxTotal = taxTotal
	d.DiscountTotal = discountTotal
	d.Total = subtotal + taxTotal - discountTotal
}

// AllocateDocumentDiscount distributes a per-document discount across line
// items proportionally to their subtotals. The last line absorbs the rounding
// remainder so the allocations always sum exactly to the discount total.
func (d *Document) AllocateDocumentDiscount() []int64 {
	allocations := make([]int64, len(d.LineItems))
	if !d.DiscountMethod.IsPerDocument() || d.DiscountTotal == 0 || len(d.LineItems) == 0 {
		return allocations
	}

	var totalSubtotal int64
	for i := range d.LineItems {
		totalSubtotal += d.LineItems[i].Subtotal
	}
	if totalSubtotal <= 0 {
		return allocations
	}

	remaining := d.DiscountTotal
	for i := range d.LineItems {
		if i == len(d.LineItems)-1 {
			allocations[i] = remaining
			break
		}
		share := roundProportion(d.LineItems[i].Subtotal, totalSubtotal, d.DiscountTotal)
		allocations[i] = share
		remaining -= share
	}
	return allocations
}

// roundProportion computes round(part/whole * amount), rounding half-up.
// Computed in decimal so part*amount cannot overflow at large cent amounts.
func roundProportion(part, whole, amount int64) int64 {
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(amount)).
		DivRound(decimal.NewFromInt(whole), 0).
		IntPart()
}
