package services

import (
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency and exchange rates first, the posting engine depends on both.
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency, cfg.BaseCurrencyCode)

	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Partner = NewPartnerService(repos.PartnerRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Adjustment = NewAdjustmentService(repos.DocumentRepo, repos.AccountRepo)

	container.Document = NewDocumentService(
		repos.DocumentRepo,
		repos.TransactionRepo,
		repos.PartnerRepo,
		repos.AccountRepo,
		container.Currency,
	)
	container.Posting = NewPostingService(
		repos.TransactionRepo,
		repos.DocumentRepo,
		repos.AccountRepo,
		container.Company,
		container.ExchangeRate,
	)
	container.Schedule = NewScheduleService(repos.DocumentRepo)

	return container
}
