package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over a shared connection
// pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:      newPgxCompanyRepository(pool),
		PartnerRepo:      newPgxPartnerRepository(pool),
		AccountRepo:      newPgxAccountRepository(pool),
		CurrencyRepo:     newPgxCurrencyRepository(pool),
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
		DocumentRepo:     newPgxDocumentRepository(pool),
		TransactionRepo:  newPgxTransactionRepository(pool),
	}
}
