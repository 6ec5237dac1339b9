package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
)

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for vendor/client data.
func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

const partnerColumns = `partner_id, company_id, name, kind, currency_code, email, created_at, created_by, last_updated_at, last_updated_by`

func scanPartner(row pgx.Row) (domain.Partner, error) {
	var partner domain.Partner
	err := row.Scan(
		&partner.PartnerID,
		&partner.CompanyID,
		&partner.Name,
		&partner.Kind,
		&partner.CurrencyCode,
		&partner.Email,
		&partner.CreatedAt,
		&partner.CreatedBy,
		&partner.LastUpdatedAt,
		&partner.LastUpdatedBy,
	)
	return partner, err
}

// SavePartner inserts a new partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		partner.PartnerID,
		partner.CompanyID,
		partner.Name,
		partner.Kind,
		partner.CurrencyCode,
		partner.Email,
		partner.CreatedAt,
		partner.CreatedBy,
		partner.LastUpdatedAt,
		partner.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save partner %s: %w", partner.PartnerID, err)
	}
	return nil
}

// UpdatePartner rewrites a partner's mutable fields.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	query := `
		UPDATE partners SET
			name = $3, kind = $4, currency_code = $5, email = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND partner_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		partner.CompanyID,
		partner.PartnerID,
		partner.Name,
		partner.Kind,
		partner.CurrencyCode,
		partner.Email,
		partner.LastUpdatedAt,
		partner.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner %s: %w", partner.PartnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPartnerByID retrieves a partner by its unique identifier.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, companyID, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE company_id = $1 AND partner_id = $2;`
	partner, err := scanPartner(r.Pool.QueryRow(ctx, query, companyID, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	return &partner, nil
}

// ListPartnersByCompany retrieves a company's partners, optionally filtered
// by kind.
func (r *PgxPartnerRepository) ListPartnersByCompany(ctx context.Context, companyID string, kind *domain.PartnerKind) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE company_id = $1`
	args := []any{companyID}
	if kind != nil {
		query += ` AND kind = $2`
		args = append(args, *kind)
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	partners, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Partner, error) {
		return scanPartner(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect partner rows: %w", err)
	}
	return partners, nil
}
