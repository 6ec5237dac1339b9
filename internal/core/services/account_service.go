package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if req.Role == domain.RoleBankAccount && req.CurrencyCode == "" {
		return nil, fmt.Errorf("%w: bank accounts require a currency", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		CFID:            req.CFID,
		Name:            req.Name,
		AccountType:     req.AccountType,
		Role:            req.Role,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByRole(ctx, companyID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s account: %w", role, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	accountList, err := s.accountRepo.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accountList == nil {
		return []domain.Account{}, nil
	}
	return accountList, nil
}
