package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// currencyHandler handles HTTP requests for the currency registry.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(currencyService portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: currencyService}
}

// createCurrency godoc
// @Summary Register a currency
// @Description Adds a currency with its symbol and minor unit precision
// @Tags currencies
// @Accept json
// @Produce json
// @Param currency body dto.CreateCurrencyRequest true "Currency"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, _, ok := requestScope(c)
	if !ok {
		return
	}

	currency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create currency")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(currency))
}

// getCurrency godoc
// @Summary Get a currency by code
// @Tags currencies
// @Produce json
// @Param currencyCode path string true "Currency code"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Router /currencies/{currencyCode} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), c.Param("currencyCode"))
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List registered currencies
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}

	responses := make([]dto.CurrencyResponse, len(currencies))
	for i := range currencies {
		responses[i] = dto.ToCurrencyResponse(&currencies[i])
	}
	c.JSON(http.StatusOK, responses)
}

// registerCurrencyRoutes registers currency specific routes.
func registerCurrencyRoutes(group *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	handler := newCurrencyHandler(currencyService)

	currencies := group.Group("/currencies")
	{
		currencies.POST("", handler.createCurrency)
		currencies.GET("", handler.listCurrencies)
		currencies.GET("/:currencyCode", handler.getCurrency)
	}
}
