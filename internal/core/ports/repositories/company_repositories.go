package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// CompanyReader defines read operations for companies.
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindDocumentDefaults retrieves the numbering settings for a company and
	// document type. Returns apperrors.ErrNotFound when none are configured.
	FindDocumentDefaults(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.DocumentDefaults, error)
}

// CompanyWriter defines write operations for companies.
type CompanyWriter interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	SaveDocumentDefaults(ctx context.Context, defaults domain.DocumentDefaults) error
}

// CompanyRepositoryFacade combines all company repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
