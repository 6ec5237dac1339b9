package domain

import "time"

// TransactionType categorizes ledger transactions. Deposit and Withdrawal
// move money through a bank account; Transfer moves between bank accounts;
// Journal is a pure double-entry posting such as a document's initial
// recognition.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
	Journal    TransactionType = "JOURNAL"
)

// PaymentMeta retains the original document-currency amount of a converted
// payment for audit.
type PaymentMeta struct {
	OriginalCurrencyCode string `json:"originalCurrencyCode,omitempty"`
	OriginalAmount       int64  `json:"originalAmount,omitempty"` // cents in the document currency
}

// Transaction groups the journal entries of one financial event. The source
// document is referenced by explicit (DocumentType, DocumentID) columns
// rather than a runtime type string. For bank-linked types the Amount is in
// the bank account's currency, not the company default.
type Transaction struct {
	TransactionID string       `json:"transactionID"`
	CompanyID     string       `json:"companyID"`
	DocumentType  DocumentType `json:"documentType"`
	DocumentID    string       `json:"documentID"`

	Type      TransactionType `json:"type"`
	IsPayment bool            `json:"isPayment"` // false for a document's initial recognition
	PostedAt  time.Time       `json:"postedAt"`

	Amount       int64  `json:"amount"` // cents; bank currency for Deposit/Withdrawal, default currency for Journal
	CurrencyCode string `json:"currencyCode"`

	BankAccountID string `json:"bankAccountID"` // Nullable; set for payments
	AccountID     string `json:"accountID"`     // Control account the payment settles

	PaymentMethod string      `json:"paymentMethod"`
	Description   string      `json:"description"`
	Notes         string      `json:"notes"`
	Meta          PaymentMeta `json:"meta"`

	Entries []JournalEntry `json:"entries"`
	AuditFields
}

// JournalEntryType indicates the side of a journal entry.
type JournalEntryType string

const (
	DebitEntry  JournalEntryType = "DEBIT"
	CreditEntry JournalEntryType = "CREDIT"
)

// IsDebit reports whether the entry sits on the debit side.
func (t JournalEntryType) IsDebit() bool { return t == DebitEntry }

// IsCredit reports whether the entry sits on the credit side.
func (t JournalEntryType) IsCredit() bool { return t == CreditEntry }

// Opposite returns the other side.
func (t JournalEntryType) Opposite() JournalEntryType {
	if t == DebitEntry {
		return CreditEntry
	}
	return DebitEntry
}

// JournalEntry is one side (debit or credit) of a balanced posting. Amounts
// are always integer cents in the company's default currency; the invariant
// sum(debits) == sum(credits) holds per transaction.
type JournalEntry struct {
	EntryID       string           `json:"entryID"`
	TransactionID string           `json:"transactionID"`
	CompanyID     string           `json:"companyID"`
	Type          JournalEntryType `json:"type"`
	AccountID     string           `json:"accountID"`
	Amount        int64            `json:"amount"` // cents, company default currency
	Description   string           `json:"description"`
	AuditFields
}
