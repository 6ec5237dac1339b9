package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its journal entries.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// FindInitialTransaction retrieves the Journal-type transaction created
	// by a document's initial recognition, or apperrors.ErrNotFound.
	FindInitialTransaction(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (*domain.Transaction, error)

	// ListTransactionsByDocument retrieves all transactions referencing a
	// document, entries included, ordered by posting time.
	ListTransactionsByDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) ([]domain.Transaction, error)

	// HasPayments reports whether any payment transaction exists for the document.
	HasPayments(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (bool, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and its journal entries
	// atomically. The entries must already balance; implementations verify
	// nothing, balancing is the posting engine's responsibility.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactionAndDocument persists a transaction with its entries and
	// the document's updated payment state in one database transaction.
	SaveTransactionAndDocument(ctx context.Context, txn domain.Transaction, doc domain.Document) error

	// DeleteTransaction removes a transaction and its journal entries.
	DeleteTransaction(ctx context.Context, companyID, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with
// transaction capabilities.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
