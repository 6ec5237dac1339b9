package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
)

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindDocumentDefaults(ctx context.Context, companyID string, docType domain.DocumentType) (*domain.DocumentDefaults, error) {
	args := m.Called(ctx, companyID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentDefaults), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) SaveDocumentDefaults(ctx context.Context, defaults domain.DocumentDefaults) error {
	args := m.Called(ctx, defaults)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepositoryFacade = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByRole(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock PartnerRepository ---

type MockPartnerRepository struct {
	mock.Mock
}

var _ portsrepo.PartnerRepositoryFacade = (*MockPartnerRepository)(nil)

func (m *MockPartnerRepository) FindPartnerByID(ctx context.Context, companyID, partnerID string) (*domain.Partner, error) {
	args := m.Called(ctx, companyID, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockPartnerRepository) ListPartnersByCompany(ctx context.Context, companyID string, kind *domain.PartnerKind) ([]domain.Partner, error) {
	args := m.Called(ctx, companyID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partner), args.Error(1)
}

func (m *MockPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryWithTx = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, companyID, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocumentsByCompany(ctx context.Context, companyID string, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.Document), token, args.Error(2)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentPayment(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, companyID, documentID string) error {
	args := m.Called(ctx, companyID, documentID)
	return args.Error(0)
}

func (m *MockDocumentRepository) AllocateNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, companyID, docType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) PeekNextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, companyID, docType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) FindAdjustmentsByIDs(ctx context.Context, companyID string, adjustmentIDs []string) (map[string]domain.Adjustment, error) {
	args := m.Called(ctx, companyID, adjustmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Adjustment), args.Error(1)
}

func (m *MockDocumentRepository) ListAdjustmentsByCompany(ctx context.Context, companyID string) ([]domain.Adjustment, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Adjustment), args.Error(1)
}

func (m *MockDocumentRepository) SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockDocumentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockDocumentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDocumentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryWithTx = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindInitialTransaction(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByDocument(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) HasPayments(ctx context.Context, companyID string, docType domain.DocumentType, documentID string) (bool, error) {
	args := m.Called(ctx, companyID, docType, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveTransactionAndDocument(ctx context.Context, txn domain.Transaction, doc domain.Document) error {
	args := m.Called(ctx, txn, doc)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, companyID, transactionID string) error {
	args := m.Called(ctx, companyID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock CompanyService ---

type MockCompanyService struct {
	mock.Mock
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

func (m *MockCompanyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) DefaultCurrency(ctx context.Context, companyID string) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

func (m *MockCompanyService) VerifyAPIKey(ctx context.Context, companyID, apiKey string) error {
	args := m.Called(ctx, companyID, apiKey)
	return args.Error(0)
}

// --- Mock CurrencyService ---

type MockCurrencyService struct {
	mock.Mock
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ToCents(ctx context.Context, amount string, currencyCode string) (int64, error) {
	args := m.Called(ctx, amount, currencyCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCurrencyService) ToDecimalString(ctx context.Context, cents int64, currencyCode string) (string, error) {
	args := m.Called(ctx, cents, currencyCode)
	return args.String(0), args.Error(1)
}

// --- Mock ExchangeRateService ---

type MockExchangeRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, cents int64, fromCode, toCode string) (int64, error) {
	args := m.Called(ctx, cents, fromCode, toCode)
	return args.Get(0).(int64), args.Error(1)
}

func timePtr(t time.Time) *time.Time { return &t }
