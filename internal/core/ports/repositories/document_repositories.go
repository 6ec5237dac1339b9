package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Type       *domain.DocumentType
	Statuses   []domain.DocumentStatus
	UnpaidOnly bool // shorthand for Open/Partial/Overdue
}

// DocumentReader defines read operations for documents and their line items.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its line items and their
	// adjustments loaded.
	FindDocumentByID(ctx context.Context, companyID, documentID string) (*domain.Document, error)

	// ListDocumentsByCompany retrieves a paginated list of documents using
	// token-based pagination. It returns the documents, a token for the next
	// page, and an error.
	ListDocumentsByCompany(ctx context.Context, companyID string, filter DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines write operations for documents.
type DocumentWriter interface {
	// SaveDocument persists a document and its line items atomically.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocument rewrites the document header, totals and status, and
	// replaces its line items, atomically.
	UpdateDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentPayment adjusts amount_paid, paid_at and status. Used by
	// the posting engine inside its own transaction scope.
	UpdateDocumentPayment(ctx context.Context, doc domain.Document) error

	// DeleteDocument removes a document, cascading to its line items and
	// transactions (and their journal entries).
	DeleteDocument(ctx context.Context, companyID, documentID string) error
}

// DocumentNumberAllocator hands out document numbers serialized per company
// and document type. Implementations must take a row-level lock on the
// counter so concurrent requests never observe the same number.
type DocumentNumberAllocator interface {
	// AllocateNextDocumentNumber increments and returns the formatted next
	// number for (companyID, docType). Returns
	// apperrors.ErrConcurrentNumberAllocation when the lock cannot be won
	// after retries.
	AllocateNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error)

	// PeekNextDocumentNumber returns the number the next allocation would
	// produce without consuming it.
	PeekNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error)
}

// AdjustmentReader resolves tax/discount definitions referenced by line items.
type AdjustmentReader interface {
	FindAdjustmentsByIDs(ctx context.Context, companyID string, adjustmentIDs []string) (map[string]domain.Adjustment, error)
	ListAdjustmentsByCompany(ctx context.Context, companyID string) ([]domain.Adjustment, error)
}

// AdjustmentWriter defines write operations for adjustments.
type AdjustmentWriter interface {
	SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DocumentNumberAllocator
	AdjustmentReader
	AdjustmentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
