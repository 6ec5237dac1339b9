package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks_app/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/dto"
	"github.com/finbooks/finbooks_app/internal/middleware"
)

// partnerHandler handles HTTP requests for vendors and clients.
type partnerHandler struct {
	partnerService portssvc.PartnerSvcFacade
}

func newPartnerHandler(partnerService portssvc.PartnerSvcFacade) *partnerHandler {
	return &partnerHandler{partnerService: partnerService}
}

// createPartner godoc
// @Summary Register a vendor or client
// @Tags partners
// @Accept json
// @Produce json
// @Param partner body dto.CreatePartnerRequest true "Partner"
// @Success 201 {object} dto.PartnerResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPartner", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create partner")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

// getPartner godoc
// @Summary Get a partner by ID
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} dto.PartnerResponse
// @Failure 404 {object} map[string]string "Partner not found"
// @Router /partners/{partnerID} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.GetPartner(c.Request.Context(), companyID, c.Param("partnerID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve partner")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// listPartners godoc
// @Summary List the company's partners
// @Tags partners
// @Produce json
// @Param kind query string false "Filter by kind (VENDOR or CLIENT)"
// @Success 200 {array} dto.PartnerResponse
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	_, companyID, ok := requestScope(c)
	if !ok {
		return
	}

	var kind *domain.PartnerKind
	if kindParam := c.Query("kind"); kindParam != "" {
		k := domain.PartnerKind(kindParam)
		if k != domain.Vendor && k != domain.Client {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be VENDOR or CLIENT"})
			return
		}
		kind = &k
	}

	partners, err := h.partnerService.ListPartners(c.Request.Context(), companyID, kind)
	if err != nil {
		respondError(c, err, "Failed to list partners")
		return
	}

	responses := make([]dto.PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = dto.ToPartnerResponse(&partners[i])
	}
	c.JSON(http.StatusOK, responses)
}

// registerPartnerRoutes registers partner specific routes.
func registerPartnerRoutes(group *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade) {
	handler := newPartnerHandler(partnerService)

	partners := group.Group("/partners")
	{
		partners.POST("", handler.createPartner)
		partners.GET("", handler.listPartners)
		partners.GET("/:partnerID", handler.getPartner)
	}
}
