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

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, company_id, cfid, name, account_type, role, currency_code, parent_account_id, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.CompanyID,
		&account.CFID,
		&account.Name,
		&account.AccountType,
		&account.Role,
		&account.CurrencyCode,
		&account.ParentAccountID,
		&account.Description,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	return account, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.CompanyID,
		account.CFID,
		account.Name,
		account.AccountType,
		account.Role,
		account.CurrencyCode,
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccount rewrites an account's mutable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts SET
			cfid = $3, name = $4, account_type = $5, role = $6, currency_code = $7,
			parent_account_id = $8, description = $9, is_active = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE company_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.CompanyID,
		account.AccountID,
		account.CFID,
		account.Name,
		account.AccountType,
		account.Role,
		account.CurrencyCode,
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = $2;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs
// surface as apperrors.ErrNotFound.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}

	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// FindAccountByRole locates a special-purpose account for a company.
func (r *PgxAccountRepository) FindAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND role = $2 AND is_active = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s account configured", apperrors.ErrNotFound, role)
		}
		return nil, fmt.Errorf("failed to find %s account: %w", role, err)
	}
	return &account, nil
}

// ListAccountsByCompany retrieves all active accounts for a company.
func (r *PgxAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect account rows: %w", err)
	}
	return accounts, nil
}
