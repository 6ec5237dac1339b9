package repositories

import (
	"context"

	"github.com/finbooks/finbooks_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs
	// surface as apperrors.ErrNotFound.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByRole locates a special-purpose account (payable/receivable
	// control, discount contra) for a company.
	FindAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error)

	// ListAccountsByCompany retrieves all active accounts for a company.
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
