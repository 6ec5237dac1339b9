package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
)

const adjustmentColumns = `adjustment_id, company_id, name, category, computation, rate,
	account_id, non_recoverable, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// adjustmentColumnsPrefixed qualifies the adjustment column list with a table
// alias for use in joins.
func adjustmentColumnsPrefixed(alias string) string {
	return fmt.Sprintf(`%[1]s.adjustment_id, %[1]s.company_id, %[1]s.name, %[1]s.category, %[1]s.computation, %[1]s.rate,
	%[1]s.account_id, %[1]s.non_recoverable, %[1]s.is_active,
	%[1]s.created_at, %[1]s.created_by, %[1]s.last_updated_at, %[1]s.last_updated_by`, alias)
}

func scanAdjustment(row pgx.Row) (domain.Adjustment, error) {
	var adj domain.Adjustment
	err := row.Scan(
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
	)
	return adj, err
}

// SaveAdjustment persists a new tax or discount definition.
func (r *PgxDocumentRepository) SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error {
	query := `
		INSERT INTO adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		adjustment.AdjustmentID,
		adjustment.CompanyID,
		adjustment.Name,
		adjustment.Category,
		adjustment.Computation,
		adjustment.Rate,
		adjustment.AccountID,
		adjustment.NonRecoverable,
		adjustment.IsActive,
		adjustment.CreatedAt,
		adjustment.CreatedBy,
		adjustment.LastUpdatedAt,
		adjustment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment %s: %w", adjustment.AdjustmentID, err)
	}
	return nil
}

// FindAdjustmentsByIDs resolves adjustments by ID, keyed by ID. Returns
// apperrors.ErrNotFound when any requested ID is missing.
func (r *PgxDocumentRepository) FindAdjustmentsByIDs(ctx context.Context, companyID string, adjustmentIDs []string) (map[string]domain.Adjustment, error) {
	result := make(map[string]domain.Adjustment, len(adjustmentIDs))
	if len(adjustmentIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE company_id = $1 AND adjustment_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, companyID, adjustmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	adjustments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Adjustment, error) {
		return scanAdjustment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect adjustment rows: %w", err)
	}

	for _, adj := range adjustments {
		result[adj.AdjustmentID] = adj
	}
	for _, id := range adjustmentIDs {
		if _, ok := result[id]; !ok {
			return nil, fmt.Errorf("%w: adjustment %s", apperrors.ErrNotFound, id)
		}
	}
	return result, nil
}

// ListAdjustmentsByCompany retrieves all active adjustments for a company.
func (r *PgxDocumentRepository) ListAdjustmentsByCompany(ctx context.Context, companyID string) ([]domain.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE company_id = $1 AND is_active = TRUE ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	adjustments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Adjustment, error) {
		return scanAdjustment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect adjustment rows: %w", err)
	}
	return adjustments, nil
}
