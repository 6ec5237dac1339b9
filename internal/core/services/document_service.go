package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// documentService implements the document aggregate: creation, total
// recomputation, lifecycle transitions, numbering, conversion and
// replication.
type documentService struct {
	documentRepo    portsrepo.DocumentRepositoryWithTx
	transactionRepo portsrepo.TransactionReader
	partnerRepo     portsrepo.PartnerReader
	accountRepo     portsrepo.AccountReader
	currencySvc     portssvc.CurrencySvcFacade
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryWithTx,
	transactionRepo portsrepo.TransactionReader,
	partnerRepo portsrepo.PartnerReader,
	accountRepo portsrepo.AccountReader,
	currencySvc portssvc.CurrencySvcFacade,
) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo:    documentRepo,
		transactionRepo: transactionRepo,
		partnerRepo:     partnerRepo,
		accountRepo:     accountRepo,
		currencySvc:     currencySvc,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// today is the UTC date boundary used by due-date comparisons.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *documentService) CreateDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Type == domain.RecurringInvoice && req.Schedule == nil {
		return nil, fmt.Errorf("%w: recurring invoices require a schedule", apperrors.ErrValidation)
	}
	if req.Type != domain.RecurringInvoice && req.Schedule != nil {
		return nil, fmt.Errorf("%w: only recurring invoices carry a schedule", apperrors.ErrValidation)
	}
	if req.DiscountMethod.IsPerDocument() && req.DiscountRate > 0 && req.DiscountComputation == "" {
		return nil, fmt.Errorf("%w: document-level discounts require a computation", apperrors.ErrValidation)
	}

	partner, err := s.partnerRepo.FindPartnerByID(ctx, companyID, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve partner %s: %w", req.PartnerID, err)
	}
	wantKind := domain.Client
	if req.Type.IsPayable() {
		wantKind = domain.Vendor
	}
	if partner.Kind != wantKind {
		return nil, fmt.Errorf("%w: %s documents require a %s partner", apperrors.ErrValidation, req.Type, wantKind)
	}

	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrUnknownCurrency, req.CurrencyCode)
	}

	now := time.Now().UTC()
	documentID := uuid.NewString()

	lineItems, err := s.buildLineItems(ctx, companyID, documentID, req.LineItems, now, creatorUserID)
	if err != nil {
		return nil, err
	}

	number, err := s.documentRepo.AllocateNextDocumentNumber(ctx, companyID, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate document number: %w", err)
	}

	doc := domain.Document{
		DocumentID:          documentID,
		CompanyID:           companyID,
		Type:                req.Type,
		PartnerID:           partner.PartnerID,
		PartnerName:         partner.Name,
		DocumentNumber:      number,
		OrderNumber:         req.OrderNumber,
		Date:                req.Date,
		DueDate:             req.DueDate,
		CurrencyCode:        req.CurrencyCode,
		DiscountMethod:      req.DiscountMethod,
		DiscountComputation: req.DiscountComputation,
		DiscountRate:        req.DiscountRate,
		Notes:               req.Notes,
		Status:              req.Type.InitialStatus(),
		LineItems:           lineItems,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Schedule != nil {
		doc.Schedule = buildSchedule(req.Schedule, req.Date)
	}

	doc.RecalculateTotals()
	doc.RefreshOverdue(today(), false, false)

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_type", string(doc.Type)),
		slog.String("document_number", doc.DocumentNumber),
		slog.Int64("total", doc.Total),
	)
	return &doc, nil
}

// buildLineItems maps line item requests to domain line items, resolving
// their accounts and adjustment references in batch.
func (s *documentService) buildLineItems(ctx context.Context, companyID, documentID string, reqs []dto.CreateLineItemRequest, now time.Time, creatorUserID string) ([]domain.LineItem, error) {
	accountIDs := make([]string, 0, len(reqs))
	adjustmentIDs := make([]string, 0)
	for _, li := range reqs {
		accountIDs = append(accountIDs, li.AccountID)
		adjustmentIDs = append(adjustmentIDs, li.TaxIDs...)
		adjustmentIDs = append(adjustmentIDs, li.DiscountIDs...)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve line item accounts: %w", err)
	}

	adjustments := map[string]domain.Adjustment{}
	if len(adjustmentIDs) > 0 {
		adjustments, err = s.documentRepo.FindAdjustmentsByIDs(ctx, companyID, adjustmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve adjustments: %w", err)
		}
	}

	lineItems := make([]domain.LineItem, len(reqs))
	for i, li := range reqs {
		if _, ok := accounts[li.AccountID]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, li.AccountID)
		}

		taxes, err := pickAdjustments(adjustments, li.TaxIDs, domain.Tax)
		if err != nil {
			return nil, err
		}
		discounts, err := pickAdjustments(adjustments, li.DiscountIDs, domain.Discount)
		if err != nil {
			return nil, err
		}

		lineItems[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			DocumentID:  documentID,
			OfferingID:  li.OfferingID,
			Name:        li.Name,
			Description: li.Description,
			AccountID:   li.AccountID,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Taxes:       taxes,
			Discounts:   discounts,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}
	return lineItems, nil
}

// pickAdjustments selects adjustments by ID, requiring each to exist and to
// be of the expected category.
func pickAdjustments(adjustments map[string]domain.Adjustment, ids []string, category domain.AdjustmentCategory) ([]domain.Adjustment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	picked := make([]domain.Adjustment, 0, len(ids))
	for _, id := range ids {
		adj, ok := adjustments[id]
		if !ok {
			return nil, fmt.Errorf("%w: adjustment %s", apperrors.ErrNotFound, id)
		}
		if adj.Category != category {
			return nil, fmt.Errorf("%w: adjustment %s is not a %s", apperrors.ErrValidation, id, category)
		}
		picked = append(picked, adj)
	}
	return picked, nil
}

func buildSchedule(req *dto.ScheduleRequest, docDate time.Time) *domain.Schedule {
	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = docDate
	}
	endType := req.EndType
	if endType == "" {
		endType = domain.EndNever
	}
	return &domain.Schedule{
		Frequency:      req.Frequency,
		IntervalType:   req.IntervalType,
		IntervalValue:  req.IntervalValue,
		DayOfWeek:      time.Weekday(req.DayOfWeek),
		DayOfMonth:     req.DayOfMonth,
		Month:          time.Month(req.Month),
		EndType:        endType,
		MaxOccurrences: req.MaxOccurrences,
		EndDate:        req.EndDate,
		StartDate:      startDate,
	}
}

func (s *documentService) GetDocument(ctx context.Context, companyID, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, companyID string, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	docs, token, err := s.documentRepo.ListDocumentsByCompany(ctx, companyID, filter, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, token, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, companyID, documentID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID); err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if err := s.documentRepo.DeleteDocument(ctx, companyID, documentID); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}

	logger.Info("document deleted", slog.String("document_id", documentID))
	return nil
}

func (s *documentService) RecalculateTotals(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	doc.RecalculateTotals()
	s.touch(doc, updaterUserID)

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return doc, nil
}

func (s *documentService) UpdateDueDate(ctx context.Context, companyID, documentID string, req dto.UpdateDueDateRequest, updaterUserID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if doc.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot move the due date of a %s document", apperrors.ErrInvalidStateTransition, doc.Status)
	}

	hasPayments, err := s.transactionRepo.HasPayments(ctx, companyID, doc.Type, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payments for document %s: %w", documentID, err)
	}

	doc.DueDate = req.DueDate
	doc.RefreshOverdue(today(), true, hasPayments)
	s.touch(doc, updaterUserID)

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return doc, nil
}

// transition loads a document, applies fn and persists the result. All the
// single-step lifecycle actions funnel through here.
func (s *documentService) transition(ctx context.Context, companyID, documentID, updaterUserID string, fn func(doc *domain.Document) error) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	if err := fn(doc); err != nil {
		return nil, err
	}
	s.touch(doc, updaterUserID)

	if err := s.documentRepo.UpdateDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return doc, nil
}

func (s *documentService) Approve(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error) {
	when := time.Now().UTC()
	if at != nil {
		when = *at
	}
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.Approve(when, today())
	})
}

func (s *documentService) Send(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error) {
	when := time.Now().UTC()
	if at != nil {
		when = *at
	}
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.MarkSent(when)
	})
}

func (s *documentService) MarkViewed(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.MarkViewed()
	})
}

func (s *documentService) MarkAccepted(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.MarkAccepted()
	})
}

func (s *documentService) MarkDeclined(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.MarkDeclined()
	})
}

func (s *documentService) VoidDocument(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	return s.transition(ctx, companyID, documentID, updaterUserID, func(doc *domain.Document) error {
		return doc.Void()
	})
}

// ConvertEstimate turns an accepted estimate into a fresh draft invoice. The
// estimate is marked Converted and a new invoice with its own number is
// created from the estimate's line items.
func (s *documentService) ConvertEstimate(ctx context.Context, companyID, estimateID string, creatorUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	estimate, err := s.documentRepo.FindDocumentByID(ctx, companyID, estimateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate %s: %w", estimateID, err)
	}
	if err := estimate.MarkConverted(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := s.cloneDocument(estimate, now, creatorUserID)
	invoice.Type = domain.Invoice
	invoice.Status = domain.Invoice.InitialStatus()

	number, err := s.documentRepo.AllocateNextDocumentNumber(ctx, companyID, domain.Invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	invoice.DocumentNumber = number
	invoice.RecalculateTotals()

	s.touch(estimate, creatorUserID)
	if err := s.documentRepo.UpdateDocument(ctx, *estimate); err != nil {
		return nil, fmt.Errorf("failed to update estimate %s: %w", estimateID, err)
	}
	if err := s.documentRepo.SaveDocument(ctx, *invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("estimate converted to invoice",
		slog.String("estimate_id", estimateID),
		slog.String("invoice_id", invoice.DocumentID),
		slog.String("invoice_number", invoice.DocumentNumber),
	)
	return invoice, nil
}

// Replicate duplicates a document as a fresh one of the same type: new ID,
// new number, initial status, no payments and no lifecycle timestamps.
func (s *documentService) Replicate(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Document, error) {
	source, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	now := time.Now().UTC()
	copyDoc := s.cloneDocument(source, now, creatorUserID)
	copyDoc.Status = source.Type.InitialStatus()

	number, err := s.documentRepo.AllocateNextDocumentNumber(ctx, companyID, source.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate document number: %w", err)
	}
	copyDoc.DocumentNumber = number
	copyDoc.RecalculateTotals()

	if err := s.documentRepo.SaveDocument(ctx, *copyDoc); err != nil {
		return nil, fmt.Errorf("failed to save replicated document: %w", err)
	}
	return copyDoc, nil
}

// cloneDocument copies a document's commercial content into a new aggregate
// with fresh identifiers and cleared payment/lifecycle state.
func (s *documentService) cloneDocument(source *domain.Document, now time.Time, creatorUserID string) *domain.Document {
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	doc := &domain.Document{
		DocumentID:          uuid.NewString(),
		CompanyID:           source.CompanyID,
		Type:                source.Type,
		PartnerID:           source.PartnerID,
		PartnerName:         source.PartnerName,
		OrderNumber:         source.OrderNumber,
		Date:                source.Date,
		DueDate:             source.DueDate,
		CurrencyCode:        source.CurrencyCode,
		DiscountMethod:      source.DiscountMethod,
		DiscountComputation: source.DiscountComputation,
		DiscountRate:        source.DiscountRate,
		Notes:               source.Notes,
		AuditFields:         audit,
	}

	doc.LineItems = make([]domain.LineItem, len(source.LineItems))
	for i, li := range source.LineItems {
		copyItem := li
		copyItem.LineItemID = uuid.NewString()
		copyItem.DocumentID = doc.DocumentID
		copyItem.AuditFields = audit
		doc.LineItems[i] = copyItem
	}

	if source.Schedule != nil {
		schedule := *source.Schedule
		schedule.NextDate = nil
		schedule.LastDate = nil
		schedule.Occurrences = 0
		doc.Schedule = &schedule
	}
	return doc
}

func (s *documentService) NextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	number, err := s.documentRepo.PeekNextDocumentNumber(ctx, companyID, docType)
	if err != nil {
		return "", fmt.Errorf("failed to peek next document number: %w", err)
	}
	return number, nil
}

func (s *documentService) touch(doc *domain.Document, userID string) {
	doc.LastUpdatedAt = time.Now().UTC()
	doc.LastUpdatedBy = userID
}
