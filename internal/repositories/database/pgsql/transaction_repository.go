package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, company_id, document_type, document_id,
	type, is_payment, posted_at, amount, currency_code,
	bank_account_id, account_id, payment_method, description, notes, meta,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var metaJSON []byte
	err := row.Scan(
		&txn.TransactionID,
		&txn.CompanyID,
		&txn.DocumentType,
		&txn.DocumentID,
		&txn.Type,
		&txn.IsPayment,
		&txn.PostedAt,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.BankAccountID,
		&txn.AccountID,
		&txn.PaymentMethod,
		&txn.Description,
		&txn.Notes,
		&metaJSON,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return txn, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &txn.Meta); err != nil {
			return txn, fmt.Errorf("failed to unmarshal meta for transaction %s: %w", txn.TransactionID, err)
		}
	}
	return txn, nil
}

// FindTransactionByID retrieves a transaction with its journal entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND transaction_id = $2;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := r.loadEntries(ctx, companyID, []string{txn.TransactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entries[txn.TransactionID]
	return &txn, nil
}

// FindInitialTransaction retrieves the Journal-type transaction created by a
// document's initial recognition.
func (r *PgxTransactionRepository) FindInitialTransaction(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE company_id = $1 AND document_type = $2 AND document_id = $3
			AND type = $4 AND is_payment = FALSE;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, companyID, docType, documentID, domain.Journal))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find initial transaction for document %s: %w", documentID, err)
	}

	entries, err := r.loadEntries(ctx, companyID, []string{txn.TransactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entries[txn.TransactionID]
	return &txn, nil
}

// ListTransactionsByDocument retrieves all transactions referencing a
// document, entries included, ordered by posting time.
func (r *PgxTransactionRepository) ListTransactionsByDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE company_id = $1 AND document_type = $2 AND document_id = $3
		ORDER BY posted_at, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, docType, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for document %s: %w", documentID, err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction rows: %w", err)
	}
	if len(txns) == 0 {
		return txns, nil
	}

	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TransactionID
	}
	entries, err := r.loadEntries(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	for i := range txns {
		txns[i].Entries = entries[txns[i].TransactionID]
	}
	return txns, nil
}

// HasPayments reports whether any payment transaction exists for the document.
func (r *PgxTransactionRepository) HasPayments(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE company_id = $1 AND document_type = $2 AND document_id = $3 AND is_payment = TRUE
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, docType, documentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payments for document %s: %w", documentID, err)
	}
	return exists, nil
}

// SaveTransaction persists a transaction and its journal entries atomically.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransactionAndDocument persists a transaction with its entries and the
// document's updated payment state in one database transaction.
func (r *PgxTransactionRepository) SaveTransactionAndDocument(ctx context.Context, txn domain.Transaction, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	if err := updateDocumentPayment(ctx, tx, doc); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a transaction; its journal entries cascade.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, companyID, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE company_id = $1 AND transaction_id = $2;`, companyID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertTransaction(ctx context.Context, q querier, txn domain.Transaction) error {
	metaJSON, err := json.Marshal(txn.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta for transaction %s: %w", txn.TransactionID, err)
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = q.Exec(ctx, query,
		txn.TransactionID, txn.CompanyID, txn.DocumentType, txn.DocumentID,
		txn.Type, txn.IsPayment, txn.PostedAt, txn.Amount, txn.CurrencyCode,
		txn.BankAccountID, txn.AccountID, txn.PaymentMethod, txn.Description, txn.Notes, metaJSON,
		txn.CreatedAt, txn.CreatedBy, txn.LastUpdatedAt, txn.LastUpdatedBy,
	)
	if err != nil {
		return wrapTransactionInsertErr(txn.TransactionID, err)
	}

	// line_no preserves the posting order across reloads; entries of one
	// transaction share a created_at, which cannot order them.
	entryQuery := `
		INSERT INTO journal_entries (entry_id, transaction_id, company_id, type, account_id, line_no, amount, description,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for lineNo, entry := range txn.Entries {
		_, err := q.Exec(ctx, entryQuery,
			entry.EntryID, entry.TransactionID, entry.CompanyID, entry.Type,
			entry.AccountID, lineNo, entry.Amount, entry.Description,
			entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
		}
	}
	return nil
}

func wrapTransactionInsertErr(transactionID string, err error) error {
	var pgErr *pgconn.PgError
	// 23505 on the initial-posting index: a concurrent insert won the race
	// that the preceding FindInitialTransaction check cannot close.
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_transactions_initial" {
		return apperrors.ErrDuplicateInitialTransaction
	}
	return fmt.Errorf("failed to insert transaction %s: %w", transactionID, err)
}

const loadEntriesQuery = `
	SELECT entry_id, transaction_id, company_id, type, account_id, amount, description,
		created_at, created_by, last_updated_at, last_updated_by
	FROM journal_entries
	WHERE company_id = $1 AND transaction_id = ANY($2)
	ORDER BY transaction_id, line_no;
`

func (r *PgxTransactionRepository) loadEntries(ctx context.Context, companyID string, transactionIDs []string) (map[string][]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, loadEntriesQuery, companyID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	byTransaction := make(map[string][]domain.JournalEntry)
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TransactionID,
			&entry.CompanyID,
			&entry.Type,
			&entry.AccountID,
			&entry.Amount,
			&entry.Description,
			&entry.CreatedAt,
			&entry.CreatedBy,
			&entry.LastUpdatedAt,
			&entry.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		byTransaction[entry.TransactionID] = append(byTransaction[entry.TransactionID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal entry rows: %w", err)
	}
	return byTransaction, nil
}
