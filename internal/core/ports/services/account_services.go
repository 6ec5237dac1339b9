package services

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	GetAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AdjustmentSvcFacade manages tax and discount definitions.
type AdjustmentSvcFacade interface {
	CreateAdjustment(ctx context.Context, companyID string, req dto.CreateAdjustmentRequest, creatorUserID string) (*domain.Adjustment, error)
	ListAdjustments(ctx context.Context, companyID string) ([]domain.Adjustment, error)
}

// PartnerSvcFacade manages vendors and clients.
type PartnerSvcFacade interface {
	CreatePartner(ctx context.Context, companyID string, req dto.CreatePartnerRequest, creatorUserID string) (*domain.Partner, error)
	GetPartner(ctx context.Context, companyID, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context, companyID string, kind *domain.PartnerKind) ([]domain.Partner, error)
}

// CompanySvcFacade exposes the company registry (default currency lookup,
// API credential verification).
type CompanySvcFacade interface {
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)

	// DefaultCurrency returns the company's default currency code, in which
	// all journal entries are stored.
	DefaultCurrency(ctx context.Context, companyID string) (string, error)

	// VerifyAPIKey checks a presented API key against the stored hash.
	VerifyAPIKey(ctx context.Context, companyID, apiKey string) error
}
