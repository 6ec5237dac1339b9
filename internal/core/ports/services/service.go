package services

// ServiceContainer holds all service facades needed by the handlers. This
// makes passing dependencies through route registration cleaner.
type ServiceContainer struct {
	Company      CompanySvcFacade
	Partner      PartnerSvcFacade
	Account      AccountSvcFacade
	Adjustment   AdjustmentSvcFacade
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Document     DocumentSvcFacade
	Posting      PostingSvcFacade
	Schedule     ScheduleSvcFacade
}
