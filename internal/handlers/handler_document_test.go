package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_app/internal/apperrors"
	"github.com/finbooks/finbooks_app/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/handlers"
	"github.com/finbooks/finbooks_app/internal/middleware"
	"github.com/finbooks/finbooks_app/pkg/config"
)

// --- Mock DocumentService ---

type MockDocumentService struct {
	mock.Mock
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

func (m *MockDocumentService) CreateDocument(ctx context.Context, companyID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, companyID, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, companyID string, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
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

func (m *MockDocumentService) DeleteDocument(ctx context.Context, companyID, documentID string) error {
	args := m.Called(ctx, companyID, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) RecalculateTotals(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) UpdateDueDate(ctx context.Context, companyID, documentID string, req dto.UpdateDueDateRequest, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Approve(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, at, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Send(ctx context.Context, companyID, documentID string, at *time.Time, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, at, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) MarkViewed(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) MarkAccepted(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) MarkDeclined(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) VoidDocument(ctx context.Context, companyID, documentID string, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ConvertEstimate(ctx context.Context, companyID, estimateID string, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, estimateID, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Replicate(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) NextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, companyID, docType)
	return args.String(0), args.Error(1)
}

// --- Mock PostingService ---

type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) CreateInitialTransaction(ctx context.Context, companyID, documentID string, postedAt *time.Time, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, documentID, postedAt, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPostingService) UpdateInitialTransaction(ctx context.Context, companyID, documentID string, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, documentID, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPostingService) RecordPayment(ctx context.Context, companyID, documentID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, documentID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPostingService) ListDocumentTransactions(ctx context.Context, companyID, documentID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, companyID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock ScheduleService ---

type MockScheduleService struct {
	mock.Mock
}

var _ portssvc.ScheduleSvcFacade = (*MockScheduleService)(nil)

func (m *MockScheduleService) NextOccurrence(schedule domain.Schedule, from time.Time) (time.Time, bool) {
	args := m.Called(schedule, from)
	return args.Get(0).(time.Time), args.Bool(1)
}

func (m *MockScheduleService) PreviewOccurrences(schedule domain.Schedule, from time.Time, count int) []time.Time {
	args := m.Called(schedule, from, count)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]time.Time)
}

func (m *MockScheduleService) AdvanceSchedule(ctx context.Context, companyID, documentID string, asOf time.Time, updaterUserID string) (*domain.Document, error) {
	args := m.Called(ctx, companyID, documentID, asOf, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// --- Test Suite ---

type DocumentHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockDocumentService *MockDocumentService
	mockPostingService  *MockPostingService
	mockScheduleService *MockScheduleService
	jwtSecret           string

	companyID string
	userID    string
}

// generateTestToken creates a company-scoped JWT for testing.
func (suite *DocumentHandlerTestSuite) generateTestToken(companyID, userID string) string {
	claims := middleware.CompanyClaims{
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "finbooks-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *DocumentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockDocumentService = new(MockDocumentService)
	suite.mockPostingService = new(MockPostingService)
	suite.mockScheduleService = new(MockScheduleService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skips swagger registration
		RateLimit:    "100-M",
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Document: suite.mockDocumentService,
		Posting:  suite.mockPostingService,
		Schedule: suite.mockScheduleService,
	})
}

func (suite *DocumentHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.companyID, suite.userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DocumentHandlerTestSuite) TestGetDocument_Success() {
	doc := &domain.Document{
		DocumentID:     uuid.NewString(),
		CompanyID:      suite.companyID,
		Type:           domain.Invoice,
		DocumentNumber: "INV-00001",
		CurrencyCode:   "USD",
		Status:         domain.StatusSent,
		Total:          3300,
	}

	suite.mockDocumentService.On("GetDocument", mock.Anything, suite.companyID, doc.DocumentID).
		Return(doc, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s", doc.DocumentID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(doc.DocumentID, body.DocumentID)
	suite.Equal("INV-00001", body.DocumentNumber)
	suite.Equal(int64(3300), body.Total)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_NotFound() {
	documentID := uuid.NewString()
	suite.mockDocumentService.On("GetDocument", mock.Anything, suite.companyID, documentID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s", documentID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/documents/%s", uuid.NewString()), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "GetDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentHandlerTestSuite) TestRecordPayment_Success() {
	documentID := uuid.NewString()
	paymentReq := dto.RecordPaymentRequest{
		BankAccountID: uuid.NewString(),
		Amount:        4000,
		PostedAt:      time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "BANK_TRANSFER",
	}
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		CompanyID:     suite.companyID,
		DocumentType:  domain.Invoice,
		DocumentID:    documentID,
		Type:          domain.Deposit,
		IsPayment:     true,
		Amount:        4000,
		CurrencyCode:  "USD",
	}

	suite.mockPostingService.On("RecordPayment",
		mock.Anything,
		suite.companyID,
		documentID,
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.Amount == 4000 && req.BankAccountID == paymentReq.BankAccountID
		}),
		suite.userID,
	).Return(txn, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/payments", documentID), paymentReq)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(txn.TransactionID, body.TransactionID)
	suite.True(body.IsPayment)
	suite.mockPostingService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestRecordPayment_InvalidBody() {
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/payments", uuid.NewString()), gin.H{"amount": "not-a-number"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPostingService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentHandlerTestSuite) TestCreateInitialTransaction_AlreadyPosted() {
	documentID := uuid.NewString()
	suite.mockPostingService.On("CreateInitialTransaction", mock.Anything, suite.companyID, documentID, (*time.Time)(nil), suite.userID).
		Return(nil, apperrors.ErrDuplicateInitialTransaction).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/transactions/initial", documentID), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestVoidDocument_InvalidTransition() {
	documentID := uuid.NewString()
	suite.mockDocumentService.On("VoidDocument", mock.Anything, suite.companyID, documentID, suite.userID).
		Return(nil, apperrors.ErrInvalidStateTransition).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/documents/%s/void", documentID), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DocumentHandlerTestSuite) TestListDocuments_FilterAndPagination() {
	docs := []domain.Document{{
		DocumentID:     uuid.NewString(),
		CompanyID:      suite.companyID,
		Type:           domain.Bill,
		DocumentNumber: "BILL-00003",
		Status:         domain.StatusOpen,
		Total:          1200,
	}}

	suite.mockDocumentService.On("ListDocuments",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(filter portsrepo.DocumentFilter) bool {
			return filter.Type != nil && *filter.Type == domain.Bill && filter.UnpaidOnly
		}),
		10,
		(*string)(nil),
	).Return(docs, "next-page-token", nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/documents?type=BILL&unpaid=true&limit=10", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListDocumentsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body.Documents, 1)
	suite.Equal("BILL-00003", body.Documents[0].DocumentNumber)
	suite.Require().NotNil(body.NextToken)
	suite.Equal("next-page-token", *body.NextToken)
}

func TestDocumentHandler(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}
