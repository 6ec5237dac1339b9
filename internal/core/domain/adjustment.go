package domain

// AdjustmentCategory splits adjustments into taxes (added to a line) and
// discounts (subtracted from it).
type AdjustmentCategory string

const (
	Tax      AdjustmentCategory = "TAX"
	Discount AdjustmentCategory = "DISCOUNT"
)

// AdjustmentComputation selects how an adjustment's rate is interpreted.
type AdjustmentComputation string

const (
	// Percentage rates are stored as scaled integers, see rates.ScaleFactor.
	Percentage AdjustmentComputation = "PERCENTAGE"
	// Fixed rates are stored directly as integer cents.
	Fixed AdjustmentComputation = "FIXED"
)

// IsPercentage reports whether the computation is rate-based.
func (c AdjustmentComputation) IsPercentage() bool {
	return c == Percentage
}

// Adjustment is a tax or discount applicable to a document line item.
type Adjustment struct {
	AdjustmentID string                `json:"adjustmentID"`
	CompanyID    string                `json:"companyID"`
	Name         string                `json:"name"`
	Category     AdjustmentCategory    `json:"category"`
	Computation  AdjustmentComputation `json:"computation"`
	// Rate is a scaled percentage for Percentage computation (5% == 50000)
	// or integer cents for Fixed computation.
	Rate int64 `json:"rate"`
	// AccountID links the ledger account the adjustment posts to. Empty for
	// non-recoverable taxes, which roll into the line item's own account.
	AccountID      string `json:"accountID"`
	NonRecoverable bool   `json:"nonRecoverable"` // Purchase tax that cannot be reclaimed
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// IsDiscount reports whether the adjustment reduces the line total.
func (a Adjustment) IsDiscount() bool {
	return a.Category == Discount
}

// IsNonRecoverablePurchaseTax reports whether the adjustment is a tax that
// must be capitalized into the expense line instead of its own account.
func (a Adjustment) IsNonRecoverablePurchaseTax() bool {
	return a.Category == Tax && a.NonRecoverable
}
