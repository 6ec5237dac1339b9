package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// PostingSvcFacade is the journal entry engine: it converts documents into
// balanced double-entry postings and records payments against outstanding
// balances.
type PostingSvcFacade interface {
	// CreateInitialTransaction posts a document's initial recognition exactly
	// once. A second call fails with apperrors.ErrDuplicateInitialTransaction.
	CreateInitialTransaction(ctx context.Context, companyID, documentID string, postedAt *time.Time, creatorUserID string) (*domain.Transaction, error)

	// UpdateInitialTransaction deletes the existing initial transaction and
	// re-posts from the document's current totals.
	UpdateInitialTransaction(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Transaction, error)

	// RecordPayment creates a Deposit/Withdrawal transaction against a bank
	// account, converts across currencies when needed, increments the
	// document's amount paid and advances its status.
	RecordPayment(ctx context.Context, companyID, documentID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Transaction, error)

	// ListDocumentTransactions returns all transactions posted for a document.
	ListDocumentTransactions(ctx context.Context, companyID, documentID string) ([]domain.Transaction, error)
}
