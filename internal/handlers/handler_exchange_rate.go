package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// exchangeRateHandler handles HTTP requests for exchange rates and
// conversions.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(exchangeRateService portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: exchangeRateService}
}

// createExchangeRate godoc
// @Summary Configure an exchange rate
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Exchange rate"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _, ok := requestScope(c)
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List configured exchange rates
// @Tags exchange-rates
// @Produce json
// @Success 200 {array} dto.ExchangeRateResponse
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	rateList, err := h.exchangeRateService.ListExchangeRates(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}

	responses := make([]dto.ExchangeRateResponse, len(rateList))
	for i := range rateList {
		responses[i] = dto.ToExchangeRateResponse(&rateList[i])
	}
	c.JSON(http.StatusOK, responses)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts integer cents using the configured rates, rounding half-up
// @Tags exchange-rates
// @Produce json
// @Param amount query int true "Amount in minor units"
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 422 {object} map[string]string "No rate configured"
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be an integer"})
		return
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to currency codes are required"})
		return
	}

	converted, err := h.exchangeRateService.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": converted})
}

// registerExchangeRateRoutes registers exchange rate specific routes.
func registerExchangeRateRoutes(group *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	handler := newExchangeRateHandler(exchangeRateService)

	exchangeRates := group.Group("/exchange-rates")
	{
		exchangeRates.POST("", handler.createExchangeRate)
		exchangeRates.GET("", handler.listExchangeRates)
		exchangeRates.GET("/convert", handler.convert)
	}
}
