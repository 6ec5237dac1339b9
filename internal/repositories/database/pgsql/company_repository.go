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

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// SaveCompany inserts or updates a company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	query := `
		INSERT INTO companies (company_id, name, default_currency_code, api_key_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			name = EXCLUDED.name,
			default_currency_code = EXCLUDED.default_currency_code,
			api_key_hash = EXCLUDED.api_key_hash,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.DefaultCurrencyCode,
		company.APIKeyHash,
		company.CreatedAt,
		company.CreatedBy,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", company.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a company by its unique identifier.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, default_currency_code, api_key_hash, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var company domain.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&company.CompanyID,
		&company.Name,
		&company.DefaultCurrencyCode,
		&company.APIKeyHash,
		&company.CreatedAt,
		&company.CreatedBy,
		&company.LastUpdatedAt,
		&company.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return &company, nil
}

// SaveDocumentDefaults inserts or updates the numbering settings for a
// company and document type.
func (r *PgxCompanyRepository) SaveDocumentDefaults(ctx context.Context, defaults domain.DocumentDefaults) error {
	query := `
		INSERT INTO document_defaults (company_id, document_type, number_prefix, number_digits, base_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, document_type) DO UPDATE SET
			number_prefix = EXCLUDED.number_prefix,
			number_digits = EXCLUDED.number_digits,
			base_number = EXCLUDED.base_number;
	`
	_, err := r.Pool.Exec(ctx, query,
		defaults.CompanyID,
		defaults.DocumentType,
		defaults.NumberPrefix,
		defaults.NumberDigits,
		defaults.BaseNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to save document defaults for %s/%s: %w", defaults.CompanyID, defaults.DocumentType, err)
	}
	return nil
}

// FindDocumentDefaults retrieves the numbering settings for a company and
// document type.
func (r *PgxCompanyRepository) FindDocumentDefaults(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.DocumentDefaults, error) {
	query := `
		SELECT company_id, document_type, number_prefix, number_digits, base_number
		FROM document_defaults
		WHERE company_id = $1 AND document_type = $2;
	`
	var defaults domain.DocumentDefaults
	err := r.Pool.QueryRow(ctx, query, companyID, docType).Scan(
		&defaults.CompanyID,
		&defaults.DocumentType,
		&defaults.NumberPrefix,
		&defaults.NumberDigits,
		&defaults.BaseNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document defaults for %s/%s: %w", companyID, docType, err)
	}
	return &defaults, nil
}
