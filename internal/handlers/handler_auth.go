package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/finbooks/finbooks_app/internal/core/ports/services"
	"github.com/finbooks/finbooks_app/internal/middleware"
	"github.com/finbooks/finbooks_app/pkg/config"
)

// authHandler issues company-scoped access tokens against API key
// credentials.
type authHandler struct {
	cfg        *config.Config
	companySvc portssvc.CompanySvcFacade
}

func newAuthHandler(cfg *config.Config, companySvc portssvc.CompanySvcFacade) *authHandler {
	return &authHandler{cfg: cfg, companySvc: companySvc}
}

// LoginRequest exchanges a company API key for a bearer token. UserID
// identifies the caller for audit trails.
type LoginRequest struct {
	CompanyID string `json:"companyID" binding:"required"`
	UserID    string `json:"userID" binding:"required"`
	APIKey    string `json:"apiKey" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// login godoc
// @Summary Exchange a company API key for an access token
// @Description Verifies the API key and issues a company-scoped JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.companySvc.VerifyAPIKey(c.Request.Context(), req.CompanyID, req.APIKey); err != nil {
		respondError(c, err, "Failed to verify credentials")
		return
	}

	now := time.Now().UTC()
	expiresAt := now.Add(h.cfg.JWTExpiryDuration)
	claims := middleware.CompanyClaims{
		CompanyID: req.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.UserID,
			Issuer:    h.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Info("Access token issued", slog.String("company_id", req.CompanyID), slog.String("user_id", req.UserID))
	c.JSON(http.StatusOK, LoginResponse{AccessToken: token, ExpiresAt: expiresAt})
}

// registerAuthRoutes registers the public authentication routes. Login is
// rate limited per client IP since it is the only unauthenticated surface.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	handler := newAuthHandler(cfg, services.Company)

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	auth.POST("/login", middleware.RateLimit(ipLimiter), handler.login)
}
