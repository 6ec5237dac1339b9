package domain

import "fmt"

// Company is the tenant boundary: every document, account and transaction
// belongs to exactly one company. The company ID is always passed explicitly
// into core operations, never read from ambient state.
type Company struct {
	CompanyID           string `json:"companyID"`
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"` // Journal entries are stored in this currency
	APIKeyHash          string `json:"-"`                   // bcrypt hash of the company API key
	AuditFields
}

// DocumentDefaults holds per-company, per-document-type numbering settings.
type DocumentDefaults struct {
	CompanyID    string       `json:"companyID"`
	DocumentType DocumentType `json:"documentType"`
	NumberPrefix string       `json:"numberPrefix"` // e.g. "BILL-"
	NumberDigits int          `json:"numberDigits"` // zero-padding width for the numeric suffix
	BaseNumber   int64        `json:"baseNumber"`   // first number used when none exist yet
}

// FormatNumber renders a document number with prefix and padding,
// e.g. prefix "INV-", digits 5, next 42 -> "INV-00042".
func (d DocumentDefaults) FormatNumber(next int64) string {
	digits := d.NumberDigits
	if digits <= 0 {
		digits = 5
	}
	return fmt.Sprintf("%s%0*d", d.NumberPrefix, digits, next)
}
