package dto

import (
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// RecordPaymentRequest records a payment against a document's outstanding
// balance. Amount is integer cents in the document's currency.
type RecordPaymentRequest struct {
	BankAccountID string    `json:"bankAccountID" binding:"required"`
	Amount        int64     `json:"amount" binding:"required,gt=0"`
	PostedAt      time.Time `json:"postedAt" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required"`
	Notes         string    `json:"notes"`
}

// CreateInitialTransactionRequest triggers a document's initial recognition.
type CreateInitialTransactionRequest struct {
	PostedAt *time.Time `json:"postedAt"`
}

// JournalEntryResponse mirrors one side of a posting.
type JournalEntryResponse struct {
	EntryID     string                  `json:"entryID"`
	Type        domain.JournalEntryType `json:"type"`
	AccountID   string                  `json:"accountID"`
	Amount      int64                   `json:"amount"`
	Description string                  `json:"description"`
}

// TransactionResponse mirrors a stored transaction with its journal entries.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	DocumentType  domain.DocumentType    `json:"documentType"`
	DocumentID    string                 `json:"documentID"`
	Type          domain.TransactionType `json:"type"`
	IsPayment     bool                   `json:"isPayment"`
	PostedAt      time.Time              `json:"postedAt"`
	Amount        int64                  `json:"amount"`
	CurrencyCode  string                 `json:"currencyCode"`
	BankAccountID string                 `json:"bankAccountID,omitempty"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	Description   string                 `json:"description"`
	Meta          domain.PaymentMeta     `json:"meta"`
	Entries       []JournalEntryResponse `json:"entries"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]JournalEntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = JournalEntryResponse{
			EntryID:     e.EntryID,
			Type:        e.Type,
			AccountID:   e.AccountID,
			Amount:      e.Amount,
			Description: e.Description,
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		DocumentType:  txn.DocumentType,
		DocumentID:    txn.DocumentID,
		Type:          txn.Type,
		IsPayment:     txn.IsPayment,
		PostedAt:      txn.PostedAt,
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		BankAccountID: txn.BankAccountID,
		PaymentMethod: txn.PaymentMethod,
		Description:   txn.Description,
		Meta:          txn.Meta,
		Entries:       entries,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
