package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// AllocateNextDocumentNumber increments and returns the formatted next number
// for (companyID, docType). The counter row is taken under FOR UPDATE NOWAIT
// so two concurrent allocations never observe the same number; a lost lock
// surfaces as apperrors.ErrConcurrentNumberAllocation.
func (r *PgxDocumentRepository) AllocateNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	defaults, err := r.numberDefaults(ctx, tx, companyID, docType)
	if err != nil {
		return "", err
	}

	var lastNumber int64
	lockQuery := `
		SELECT last_number FROM document_number_counters
		WHERE company_id = $1 AND document_type = $2
		FOR UPDATE NOWAIT;
	`
	err = tx.QueryRow(ctx, lockQuery, companyID, docType).Scan(&lastNumber)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// First allocation for this type; seed the counter from the defaults.
		insertQuery := `
			INSERT INTO document_number_counters (company_id, document_type, last_number)
			VALUES ($1, $2, $3)
			ON CONFLICT (company_id, document_type) DO NOTHING;
		`
		if _, err := tx.Exec(ctx, insertQuery, companyID, docType, defaults.BaseNumber-1); err != nil {
			return "", fmt.Errorf("failed to seed document number counter: %w", err)
		}
		err = tx.QueryRow(ctx, lockQuery, companyID, docType).Scan(&lastNumber)
		if err != nil {
			return "", wrapNumberLockErr(err)
		}
	case err != nil:
		return "", wrapNumberLockErr(err)
	}

	next := lastNumber + 1
	updateQuery := `
		UPDATE document_number_counters SET last_number = $3
		WHERE company_id = $1 AND document_type = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery, companyID, docType, next); err != nil {
		return "", fmt.Errorf("failed to advance document number counter: %w", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return defaults.FormatNumber(next), nil
}

// PeekNextDocumentNumber returns the number the next allocation would produce
// without consuming it or taking the lock.
func (r *PgxDocumentRepository) PeekNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	defaults, err := r.numberDefaults(ctx, r.Pool, companyID, docType)
	if err != nil {
		return "", err
	}

	var lastNumber int64
	query := `
		SELECT last_number FROM document_number_counters
		WHERE company_id = $1 AND document_type = $2;
	`
	err = r.Pool.QueryRow(ctx, query, companyID, docType).Scan(&lastNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaults.FormatNumber(defaults.BaseNumber), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document number counter: %w", err)
	}
	return defaults.FormatNumber(lastNumber + 1), nil
}

// numberDefaults loads the company's numbering settings for the type, falling
// back to type-derived defaults when none are configured.
func (r *PgxDocumentRepository) numberDefaults(ctx context.Context, q querier, companyID string, docType domain.DocumentType) (domain.DocumentDefaults, error) {
	var defaults domain.DocumentDefaults
	query := `
		SELECT company_id, document_type, number_prefix, number_digits, base_number
		FROM document_defaults
		WHERE company_id = $1 AND document_type = $2;
	`
	err := q.QueryRow(ctx, query, companyID, docType).Scan(
		&defaults.CompanyID,
		&defaults.DocumentType,
		&defaults.NumberPrefix,
		&defaults.NumberDigits,
		&defaults.BaseNumber,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return fallbackNumberDefaults(companyID, docType), nil
	}
	if err != nil {
		return defaults, fmt.Errorf("failed to read document defaults: %w", err)
	}
	if defaults.BaseNumber <= 0 {
		defaults.BaseNumber = 1
	}
	return defaults, nil
}

func fallbackNumberDefaults(companyID string, docType domain.DocumentType) domain.DocumentDefaults {
	prefixes := map[domain.DocumentType]string{
		domain.Bill:             "BILL-",
		domain.Invoice:          "INV-",
		domain.Estimate:         "EST-",
		domain.RecurringInvoice: "RINV-",
	}
	return domain.DocumentDefaults{
		CompanyID:    companyID,
		DocumentType: docType,
		NumberPrefix: prefixes[docType],
		NumberDigits: 5,
		BaseNumber:   1,
	}
}

func wrapNumberLockErr(err error) error {
	var pgErr *pgconn.PgError
	// 55P03 lock_not_available: another request holds the counter row.
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
		return apperrors.ErrConcurrentNumberAllocation
	}
	return fmt.Errorf("failed to lock document number counter: %w", err)
}
