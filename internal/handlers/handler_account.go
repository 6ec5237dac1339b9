package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts and
// adjustment definitions.
type accountHandler struct {
	accountService    portssvc.AccountSvcFacade
	adjustmentService portssvc.AdjustmentSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade, adjustmentService portssvc.AdjustmentSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService, adjustmentService: adjustmentService}
}

// createAccount godoc
// @Summary Add an account to the chart of accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), companyID, c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the company's accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createAdjustment godoc
// @Summary Register a tax or discount definition
// @Tags adjustments
// @Accept json
// @Produce json
// @Param adjustment body dto.CreateAdjustmentRequest true "Adjustment"
// @Success 201 {object} domain.Adjustment
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /adjustments [post]
func (h *accountHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	adjustment, err := h.adjustmentService.CreateAdjustment(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create adjustment")
		return
	}
	c.JSON(http.StatusCreated, adjustment)
}

// listAdjustments godoc
// @Summary List the company's tax and discount definitions
// @Tags adjustments
// @Produce json
// @Success 200 {array} domain.Adjustment
// @Router /adjustments [get]
func (h *accountHandler) listAdjustments(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	adjustments, err := h.adjustmentService.ListAdjustments(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err, "Failed to list adjustments")
		return
	}
	c.JSON(http.StatusOK, adjustments)
}

// registerAccountRoutes registers account and adjustment specific routes.
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountSvcFacade, adjustmentService portssvc.AdjustmentSvcFacade) {
	handler := newAccountHandler(accountService, adjustmentService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", handler.createAccount)
		accounts.GET("", handler.listAccounts)
		accounts.GET("/:accountID", handler.getAccount)
	}

	adjustments := group.Group("/adjustments")
	{
		adjustments.POST("", handler.createAdjustment)
		adjustments.GET("", handler.listAdjustments)
	}
}
