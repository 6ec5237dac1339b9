package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// DocumentSvcFacade exposes the document aggregate: creation, total
// recomputation, lifecycle actions and numbering. Every operation takes an
// explicit companyID; the core never reads tenant identity from ambient state.
type DocumentSvcFacade interface {
	CreateDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)
	GetDocument(ctx context.Context, companyID, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, companyID string, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
	DeleteDocument(ctx context.Context, companyID, documentID string) error

	// RecalculateTotals recomputes line item and document totals and persists
	// the result.
	RecalculateTotals(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error)

	// UpdateDueDate moves the due/expiration date, running the overdue
	// refresh hook before commit.
	UpdateDueDate(ctx context.Context, companyID, documentID string, req dto.UpdateDueDateRequest, updaterUserID string) (*domain.Document, error)

	// Lifecycle actions. Each enforces its state machine guard and fails with
	// apperrors.ErrInvalidStateTransition outside it.
	Approve(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error)
	Send(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error)
	MarkViewed(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error)
	MarkAccepted(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error)
	MarkDeclined(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error)
	VoidDocument(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error)

	// ConvertEstimate turns an accepted estimate into a fresh draft invoice.
	ConvertEstimate(ctx context.Context, companyID, estimateID string, creatorUserID string) (*domain.Document, error)

	// Replicate duplicates a document with a new number, initial status and
	// copied line items.
	Replicate(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Document, error)

	// NextDocumentNumber returns the formatted number the next document of
	// this type would receive, without consuming it.
	NextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error)
}
