package domain

// PartnerKind distinguishes the two sides of the books: vendors send us
// bills, clients receive our invoices and estimates.
type PartnerKind string

const (
	Vendor PartnerKind = "VENDOR"
	Client PartnerKind = "CLIENT"
)

// Partner is a vendor or client a document is addressed to.
type Partner struct {
	PartnerID    string      `json:"partnerID"`
	CompanyID    string      `json:"companyID"`
	Name         string      `json:"name"`
	Kind         PartnerKind `json:"kind"`
	CurrencyCode string      `json:"currencyCode"` // Preferred billing currency, nullable
	Email        string      `json:"email"`
	AuditFields
}
