package services

import (
	"context"
	"errors"
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
	"github.com/finbooks/finbooks_app/internal/utils/accounting"
)

// postingService is the journal entry engine. It turns documents into
// balanced double-entry transactions and records payments against their
// outstanding balances. All journal entry amounts are stored in the
// company's default currency; document amounts are converted per entry and
// any rounding drift is absorbed before the balance check.
type postingService struct {
	transactionRepo portsrepo.TransactionRepositoryWithTx
	documentRepo    portsrepo.DocumentRepositoryFacade
	accountRepo     portsrepo.AccountReader
	companySvc      portssvc.CompanySvcFacade
	exchangeRateSvc portssvc.ExchangeRateSvcFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(
	transactionRepo portsrepo.TransactionRepositoryWithTx,
	documentRepo portsrepo.DocumentRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	companySvc portssvc.CompanySvcFacade,
	exchangeRateSvc portssvc.ExchangeRateSvcFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		transactionRepo: transactionRepo,
		documentRepo:    documentRepo,
		accountRepo:     accountRepo,
		companySvc:      companySvc,
		exchangeRateSvc: exchangeRateSvc,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// CreateInitialTransaction posts a document's initial recognition: the full
// total against the payable/receivable control account, line subtotals
// against their expense/revenue accounts, and adjustment amounts against
// their tax and discount accounts. Exactly once per document.
func (s *postingService) CreateInitialTransaction(ctx context.Context, companyID, documentID string, postedAt *time.Time, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if doc.Type != domain.Bill && doc.Type != domain.Invoice {
		return nil, fmt.Errorf("%w: %s documents are not posted to the ledger", apperrors.ErrValidation, doc.Type)
	}
	if doc.Status == domain.StatusVoid {
		return nil, fmt.Errorf("%w: cannot post a void document", apperrors.ErrInvalidStateTransition)
	}
	if doc.Type == domain.Invoice && !doc.WasApproved() {
		return nil, fmt.Errorf("%w: cannot post an unapproved invoice", apperrors.ErrInvalidStateTransition)
	}

	if existing, err := s.transactionRepo.FindInitialTransaction(ctx, companyID, doc.Type, documentID); err == nil {
		return nil, fmt.Errorf("%w: transaction %s already posted", apperrors.ErrDuplicateInitialTransaction, existing.TransactionID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing initial transaction: %w", err)
	}

	when := doc.Date
	if postedAt != nil {
		when = *postedAt
	}

	txn, err := s.buildInitialTransaction(ctx, doc, when, creatorUserID)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.SaveTransaction(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to save initial transaction: %w", err)
	}

	logger.Info("initial transaction posted",
		slog.String("document_id", documentID),
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("amount", txn.Amount),
		slog.Int("entries", len(txn.Entries)),
	)
	return txn, nil
}

// UpdateInitialTransaction deletes the existing initial transaction and
// re-posts from the document's current totals, keeping the original posting
// date.
func (s *postingService) UpdateInitialTransaction(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Transaction, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	existing, err := s.transactionRepo.FindInitialTransaction(ctx, companyID, doc.Type, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find initial transaction for document %s: %w", documentID, err)
	}

	txn, err := s.buildInitialTransaction(ctx, doc, existing.PostedAt, creatorUserID)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, companyID, existing.TransactionID); err != nil {
		return nil, fmt.Errorf("failed to delete initial transaction %s: %w", existing.TransactionID, err)
	}
	if err := s.transactionRepo.SaveTransaction(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to save initial transaction: %w", err)
	}
	return txn, nil
}

// buildInitialTransaction assembles the balanced entry set for a document's
// recognition. Entries are built in the document currency, converted to the
// company default per entry, then the last entry of the deficient side
// absorbs any conversion rounding drift before the balance check.
func (s *postingService) buildInitialTransaction(ctx context.Context, doc *domain.Document, postedAt time.Time, creatorUserID string) (*domain.Transaction, error) {
	controlAccount, err := s.accountRepo.FindAccountByRole(ctx, doc.CompanyID, doc.Type.ControlAccountRole())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s account: %w", doc.Type.ControlAccountRole(), err)
	}

	defaultCurrency, err := s.companySvc.DefaultCurrency(ctx, doc.CompanyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	// Payables credit the control account and debit the lines; receivables
	// mirror every side.
	controlSide, lineSide := domain.CreditEntry, domain.DebitEntry
	if !doc.Type.IsPayable() {
		controlSide, lineSide = domain.DebitEntry, domain.CreditEntry
	}

	builder := &entryBuilder{
		transactionID: transactionID,
		companyID:     doc.CompanyID,
		audit:         audit,
	}

	builder.add(controlSide, controlAccount.AccountID, doc.Total,
		fmt.Sprintf("Recognition of %s", doc.DocumentNumber))

	for i := range doc.LineItems {
		li := &doc.LineItems[i]

		// Non-recoverable purchase taxes capitalize into the expense line
		// instead of posting to a tax account.
		lineAmount := li.Subtotal
		for _, adj := range li.Taxes {
			amount := li.AdjustmentAmount(adj)
			if doc.Type.IsPayable() && adj.IsNonRecoverablePurchaseTax() {
				lineAmount += amount
				continue
			}
			builder.add(controlSide.Opposite(), adj.AccountID, amount,
				fmt.Sprintf("%s on %s", adj.Name, li.Name))
		}
		builder.add(lineSide, li.AccountID, lineAmount, li.Name)

		if !doc.DiscountMethod.IsPerDocument() {
			for _, adj := range li.Discounts {
				accountID, err := s.discountAccountID(ctx, doc, adj)
				if err != nil {
					return nil, err
				}
				builder.add(lineSide.Opposite(), accountID, li.AdjustmentAmount(adj),
					fmt.Sprintf("%s on %s", adj.Name, li.Name))
			}
		}
	}

	// Document-level discounts are allocated across lines proportionally to
	// their subtotals, the last line absorbing the rounding remainder.
	if doc.DiscountMethod.IsPerDocument() && doc.DiscountTotal != 0 {
		discountAccount, err := s.accountRepo.FindAccountByRole(ctx, doc.CompanyID, doc.Type.DiscountAccountRole())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s account: %w", doc.Type.DiscountAccountRole(), err)
		}
		for i, allocated := range doc.AllocateDocumentDiscount() {
			builder.add(lineSide.Opposite(), discountAccount.AccountID, allocated,
				fmt.Sprintf("Discount on %s", doc.LineItems[i].Name))
		}
	}

	entries := builder.entries
	if doc.CurrencyCode != defaultCurrency {
		for i := range entries {
			converted, err := s.exchangeRateSvc.Convert(ctx, entries[i].Amount, doc.CurrencyCode, defaultCurrency)
			if err != nil {
				return nil, err
			}
			entries[i].Amount = converted
		}
		entries, err = accounting.CorrectRoundingImbalance(entries)
		if err != nil {
			return nil, err
		}
	}

	if err := accounting.ValidateBalanced(entries); err != nil {
		return nil, err
	}

	return &domain.Transaction{
		TransactionID: transactionID,
		CompanyID:     doc.CompanyID,
		DocumentType:  doc.Type,
		DocumentID:    doc.DocumentID,
		Type:          domain.Journal,
		IsPayment:     false,
		PostedAt:      postedAt,
		Amount:        accounting.SumDebits(entries),
		CurrencyCode:  defaultCurrency,
		AccountID:     controlAccount.AccountID,
		Description:   fmt.Sprintf("Recognition of %s %s", doc.Type, doc.DocumentNumber),
		Entries:       entries,
		AuditFields:   audit,
	}, nil
}

// discountAccountID resolves where a line-level discount posts: its own
// account when configured, otherwise the type's discount contra account.
func (s *postingService) discountAccountID(ctx context.Context, doc *domain.Document, adj domain.Adjustment) (string, error) {
	if adj.AccountID != "" {
		return adj.AccountID, nil
	}
	account, err := s.accountRepo.FindAccountByRole(ctx, doc.CompanyID, doc.Type.DiscountAccountRole())
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s account: %w", doc.Type.DiscountAccountRole(), err)
	}
	return account.AccountID, nil
}

// RecordPayment posts a payment against a document's outstanding balance:
// bills withdraw from the bank account, invoices deposit into it. The
// transaction amount is carried in the bank account's currency; the journal
// entries in the company default. Payments in a currency other than the
// bank's retain the original document-currency amount in the meta.
func (s *postingService) RecordPayment(ctx context.Context, companyID, documentID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if !doc.CanRecordPayment() {
		return nil, fmt.Errorf("%w: cannot record a payment against a %s in status %s", apperrors.ErrInvalidStateTransition, doc.Type, doc.Status)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidAmount)
	}
	// Invoices may run past the due amount into OVERPAID; bills have no
	// overpaid state, so a payable payment is capped at the outstanding due.
	if doc.Type.IsPayable() && req.Amount > doc.AmountDue() {
		return nil, fmt.Errorf("%w: payment of %d exceeds the %d due on %s", apperrors.ErrInvalidAmount, req.Amount, doc.AmountDue(), doc.DocumentNumber)
	}

	bankAccount, err := s.accountRepo.FindAccountByID(ctx, companyID, req.BankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bank account %s: %w", req.BankAccountID, err)
	}
	if bankAccount.Role != domain.RoleBankAccount {
		return nil, fmt.Errorf("%w: account %s is not a bank account", apperrors.ErrValidation, req.BankAccountID)
	}

	controlAccount, err := s.accountRepo.FindAccountByRole(ctx, companyID, doc.Type.ControlAccountRole())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s account: %w", doc.Type.ControlAccountRole(), err)
	}

	defaultCurrency, err := s.companySvc.DefaultCurrency(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// req.Amount is in the document currency. The transaction carries the
	// bank-currency amount, the entries the default-currency amount.
	bankAmount, err := s.exchangeRateSvc.Convert(ctx, req.Amount, doc.CurrencyCode, bankAccount.CurrencyCode)
	if err != nil {
		return nil, err
	}
	entryAmount, err := s.exchangeRateSvc.Convert(ctx, req.Amount, doc.CurrencyCode, defaultCurrency)
	if err != nil {
		return nil, err
	}

	transactionType := domain.Deposit
	bankSide, controlSide := domain.DebitEntry, domain.CreditEntry
	if doc.Type.IsPayable() {
		transactionType = domain.Withdrawal
		bankSide, controlSide = domain.CreditEntry, domain.DebitEntry
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	builder := &entryBuilder{
		transactionID: transactionID,
		companyID:     companyID,
		audit:         audit,
	}
	description := fmt.Sprintf("Payment for %s", doc.DocumentNumber)
	builder.add(controlSide, controlAccount.AccountID, entryAmount, description)
	builder.add(bankSide, bankAccount.AccountID, entryAmount, description)

	if err := accounting.ValidateBalanced(builder.entries); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: transactionID,
		CompanyID:     companyID,
		DocumentType:  doc.Type,
		DocumentID:    documentID,
		Type:          transactionType,
		IsPayment:     true,
		PostedAt:      req.PostedAt,
		Amount:        bankAmount,
		CurrencyCode:  bankAccount.CurrencyCode,
		BankAccountID: bankAccount.AccountID,
		AccountID:     controlAccount.AccountID,
		PaymentMethod: req.PaymentMethod,
		Description:   description,
		Notes:         req.Notes,
		Entries:       builder.entries,
		AuditFields:   audit,
	}
	if bankAccount.CurrencyCode != doc.CurrencyCode {
		txn.Meta = domain.PaymentMeta{
			OriginalCurrencyCode: doc.CurrencyCode,
			OriginalAmount:       req.Amount,
		}
	}

	doc.AmountPaid += req.Amount
	doc.ApplyPaymentStatus(req.PostedAt, today())
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = creatorUserID

	if err := s.transactionRepo.SaveTransactionAndDocument(ctx, txn, *doc); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("payment recorded",
		slog.String("document_id", documentID),
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("amount", req.Amount),
		slog.String("new_status", string(doc.Status)),
	)
	return &txn, nil
}

func (s *postingService) ListDocumentTransactions(ctx context.Context, companyID, documentID string) ([]domain.Transaction, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	txns, err := s.transactionRepo.ListTransactionsByDocument(ctx, companyID, doc.Type, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for document %s: %w", documentID, err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// entryBuilder accumulates journal entries for one transaction, skipping
// zero amounts so optional components never produce empty entries.
type entryBuilder struct {
	transactionID string
	companyID     string
	audit         domain.AuditFields
	entries       []domain.JournalEntry
}

func (b *entryBuilder) add(side domain.JournalEntryType, accountID string, amount int64, description string) {
	if amount == 0 {
		return
	}
	b.entries = append(b.entries, domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TransactionID: b.transactionID,
		CompanyID:     b.companyID,
		Type:          side,
		AccountID:     accountID,
		Amount:        amount,
		Description:   description,
		AuditFields:   b.audit,
	})
}
