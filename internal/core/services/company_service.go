package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
)

// companyService exposes the tenant registry.
type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", companyID, err)
	}
	return company, nil
}

// DefaultCurrency returns the currency code all of the company's journal
// entries are stored in.
func (s *companyService) DefaultCurrency(ctx context.Context, companyID string) (string, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to get company %s: %w", companyID, err)
	}
	return company.DefaultCurrencyCode, nil
}

// VerifyAPIKey checks a presented API key against the stored bcrypt hash.
func (s *companyService) VerifyAPIKey(ctx context.Context, companyID, apiKey string) error {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to get company %s: %w", companyID, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(company.APIKeyHash), []byte(apiKey)); err != nil {
		return fmt.Errorf("%w: invalid API key", apperrors.ErrForbidden)
	}
	return nil
}
