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
	"github.com/finbooks/finbooks_app/internal/utils/pagination"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the same
// statement helpers run inside and outside explicit transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, company_id, type, partner_id, partner_name, document_number, order_number,
	date, due_date, paid_at, approved_at, last_sent_at, currency_code,
	discount_method, discount_computation, discount_rate,
	subtotal, tax_total, discount_total, total, amount_paid,
	status, notes, schedule,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (domain.Document, error) {
	var doc domain.Document
	var scheduleJSON []byte
	err := row.Scan(
		&doc.DocumentID,
		&doc.CompanyID,
		&doc.Type,
		&doc.PartnerID,
		&doc.PartnerName,
		&doc.DocumentNumber,
		&doc.OrderNumber,
		&doc.Date,
		&doc.DueDate,
		&doc.PaidAt,
		&doc.ApprovedAt,
		&doc.LastSentAt,
		&doc.CurrencyCode,
		&doc.DiscountMethod,
		&doc.DiscountComputation,
		&doc.DiscountRate,
		&doc.Subtotal,
		&doc.TaxTotal,
		&doc.DiscountTotal,
		&doc.Total,
		&doc.AmountPaid,
		&doc.Status,
		&doc.Notes,
		&scheduleJSON,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return doc, err
	}
	if len(scheduleJSON) > 0 {
		var schedule domain.Schedule
		if err := json.Unmarshal(scheduleJSON, &schedule); err != nil {
			return doc, fmt.Errorf("failed to unmarshal schedule for document %s: %w", doc.DocumentID, err)
		}
		doc.Schedule = &schedule
	}
	return doc, nil
}

func marshalSchedule(schedule *domain.Schedule) ([]byte, error) {
	if schedule == nil {
		return nil, nil
	}
	data, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}
	return data, nil
}

// FindDocumentByID retrieves a document with its line items and their
// adjustments loaded.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, companyID, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1 AND document_id = $2;`
	doc, err := scanDocument(r.Pool.QueryRow(ctx, query, companyID, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	lineItems, err := r.loadLineItems(ctx, companyID, documentID)
	if err != nil {
		return nil, err
	}
	doc.LineItems = lineItems
	return &doc, nil
}

func (r *PgxDocumentRepository) loadLineItems(ctx context.Context, companyID, documentID string) ([]domain.LineItem, error) {
	query := `
		SELECT line_item_id, document_id, offering_id, name, description, account_id,
			quantity, unit_price, subtotal, tax_total, discount_total, total,
			created_at, created_by, last_updated_at, last_updated_by
		FROM line_items
		WHERE document_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for document %s: %w", documentID, err)
	}
	defer rows.Close()

	lineItems, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LineItem, error) {
		var li domain.LineItem
		err := row.Scan(
			&li.LineItemID,
			&li.DocumentID,
			&li.OfferingID,
			&li.Name,
			&li.Description,
			&li.AccountID,
			&li.Quantity,
			&li.UnitPrice,
			&li.Subtotal,
			&li.TaxTotal,
			&li.DiscountTotal,
			&li.Total,
			&li.CreatedAt,
			&li.CreatedBy,
			&li.LastUpdatedAt,
			&li.LastUpdatedBy,
		)
		return li, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect line item rows: %w", err)
	}

	if err := r.attachAdjustments(ctx, companyID, documentID, lineItems); err != nil {
		return nil, err
	}
	return lineItems, nil
}

// attachAdjustments loads every adjustment linked to the document's line
// items and splits them into taxes and discounts per line.
func (r *PgxDocumentRepository) attachAdjustments(ctx context.Context, companyID, documentID string, lineItems []domain.LineItem) error {
	if len(lineItems) == 0 {
		return nil
	}

	query := `
		SELECT lia.line_item_id, ` + adjustmentColumnsPrefixed("a") + `
		FROM line_item_adjustments lia
		JOIN adjustments a ON a.adjustment_id = lia.adjustment_id
		JOIN line_items li ON li.line_item_id = lia.line_item_id
		WHERE li.document_id = $1 AND a.company_id = $2
		ORDER BY lia.position;
	`
	rows, err := r.Pool.Query(ctx, query, documentID, companyID)
	if err != nil {
		return fmt.Errorf("failed to query line item adjustments for document %s: %w", documentID, err)
	}
	defer rows.Close()

	byLineItem := make(map[string]*domain.LineItem, len(lineItems))
	for i := range lineItems {
		byLineItem[lineItems[i].LineItemID] = &lineItems[i]
	}

	for rows.Next() {
		var lineItemID string
		var adj domain.Adjustment
		if err := rows.Scan(
			&lineItemID,
			&adj.AdjustmentID,
			&adj.CompanyID,
			&adj.Name,
			&adj.Category,
			&adj.Computation,
			&adj.Rate,
			&adj.AccountID,
			&adj.NonRecoverable,
			&adj.IsActive,
			&adj.CreatedAt,
			&adj.CreatedBy,
			&adj.LastUpdatedAt,
			&adj.LastUpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to scan line item adjustment row: %w", err)
		}

		li, ok := byLineItem[lineItemID]
		if !ok {
			continue
		}
		if adj.IsDiscount() {
			li.Discounts = append(li.Discounts, adj)
		} else {
			li.Taxes = append(li.Taxes, adj)
		}
	}
	return rows.Err()
}

// ListDocumentsByCompany retrieves a keyset-paginated page of documents. The
// token encodes the last row's (date, created_at); ordering is newest first.
// Line items are not loaded for listings.
func (r *PgxDocumentRepository) ListDocumentsByCompany(ctx context.Context, companyID string, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []any{companyID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	statuses := filter.Statuses
	if filter.UnpaidOnly {
		statuses = []domain.DocumentStatus{domain.StatusOpen, domain.StatusPartial, domain.StatusOverdue}
	}
	if len(statuses) > 0 {
		args = append(args, statuses)
		query += fmt.Sprintf(` AND status = ANY($%d)`, len(args))
	}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, tokenDate)
		dateArg := len(args)
		args = append(args, tokenCreatedAt)
		createdArg := len(args)
		query += fmt.Sprintf(` AND (date, created_at) < ($%d, $%d)`, dateArg, createdArg)
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect document rows: %w", err)
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		encoded := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &encoded
	}
	return docs, token, nil
}

// SaveDocument persists a document and its line items atomically.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}
	if err := insertLineItems(ctx, tx, doc.LineItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDocument rewrites the document header, totals and status, and
// replaces its line items, atomically.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	scheduleJSON, err := marshalSchedule(doc.Schedule)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents SET
			partner_id = $3, partner_name = $4, document_number = $5, order_number = $6,
			date = $7, due_date = $8, paid_at = $9, approved_at = $10, last_sent_at = $11,
			currency_code = $12, discount_method = $13, discount_computation = $14, discount_rate = $15,
			subtotal = $16, tax_total = $17, discount_total = $18, total = $19, amount_paid = $20,
			status = $21, notes = $22, schedule = $23,
			last_updated_at = $24, last_updated_by = $25
		WHERE company_id = $1 AND document_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		doc.CompanyID, doc.DocumentID,
		doc.PartnerID, doc.PartnerName, doc.DocumentNumber, doc.OrderNumber,
		doc.Date, doc.DueDate, doc.PaidAt, doc.ApprovedAt, doc.LastSentAt,
		doc.CurrencyCode, doc.DiscountMethod, doc.DiscountComputation, doc.DiscountRate,
		doc.Subtotal, doc.TaxTotal, doc.DiscountTotal, doc.Total, doc.AmountPaid,
		doc.Status, doc.Notes, scheduleJSON,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Replace line items wholesale; the join rows go with them.
	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE document_id = $1;`, doc.DocumentID); err != nil {
		return fmt.Errorf("failed to clear line items for document %s: %w", doc.DocumentID, err)
	}
	if err := insertLineItems(ctx, tx, doc.LineItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDocumentPayment adjusts amount_paid, paid_at and status.
func (r *PgxDocumentRepository) UpdateDocumentPayment(ctx context.Context, doc domain.Document) error {
	return updateDocumentPayment(ctx, r.Pool, doc)
}

// DeleteDocument removes a document; line items, their adjustment links,
// transactions and journal entries cascade at the schema level.
func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, companyID, documentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM documents WHERE company_id = $1 AND document_id = $2;`, companyID, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertDocument(ctx context.Context, q querier, doc domain.Document) error {
	scheduleJSON, err := marshalSchedule(doc.Schedule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28);
	`
	_, err = q.Exec(ctx, query,
		doc.DocumentID, doc.CompanyID, doc.Type, doc.PartnerID, doc.PartnerName,
		doc.DocumentNumber, doc.OrderNumber,
		doc.Date, doc.DueDate, doc.PaidAt, doc.ApprovedAt, doc.LastSentAt, doc.CurrencyCode,
		doc.DiscountMethod, doc.DiscountComputation, doc.DiscountRate,
		doc.Subtotal, doc.TaxTotal, doc.DiscountTotal, doc.Total, doc.AmountPaid,
		doc.Status, doc.Notes, scheduleJSON,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", doc.DocumentID, err)
	}
	return nil
}

func insertLineItems(ctx context.Context, q querier, lineItems []domain.LineItem) error {
	lineItemQuery := `
		INSERT INTO line_items (line_item_id, document_id, offering_id, name, description, account_id,
			quantity, unit_price, subtotal, tax_total, discount_total, total, position,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	joinQuery := `
		INSERT INTO line_item_adjustments (line_item_id, adjustment_id, position)
		VALUES ($1, $2, $3);
	`

	for position, li := range lineItems {
		_, err := q.Exec(ctx, lineItemQuery,
			li.LineItemID, li.DocumentID, li.OfferingID, li.Name, li.Description, li.AccountID,
			li.Quantity, li.UnitPrice, li.Subtotal, li.TaxTotal, li.DiscountTotal, li.Total, position,
			li.CreatedAt, li.CreatedBy, li.LastUpdatedAt, li.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item %s: %w", li.LineItemID, err)
		}

		joinPosition := 0
		for _, adj := range li.Taxes {
			if _, err := q.Exec(ctx, joinQuery, li.LineItemID, adj.AdjustmentID, joinPosition); err != nil {
				return fmt.Errorf("failed to link adjustment %s to line item %s: %w", adj.AdjustmentID, li.LineItemID, err)
			}
			joinPosition++
		}
		for _, adj := range li.Discounts {
			if _, err := q.Exec(ctx, joinQuery, li.LineItemID, adj.AdjustmentID, joinPosition); err != nil {
				return fmt.Errorf("failed to link adjustment %s to line item %s: %w", adj.AdjustmentID, li.LineItemID, err)
			}
			joinPosition++
		}
	}
	return nil
}

func updateDocumentPayment(ctx context.Context, q querier, doc domain.Document) error {
	query := `
		UPDATE documents SET
			amount_paid = $3, paid_at = $4, status = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE company_id = $1 AND document_id = $2;
	`
	tag, err := q.Exec(ctx, query,
		doc.CompanyID, doc.DocumentID,
		doc.AmountPaid, doc.PaidAt, doc.Status,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment state for document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
