package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
	"github.com/ledgerly/ledgerly_backend/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.TokenService, cfg)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login) // Apply rate limiting middleware here
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}

	registerGoogleOAuthRoutes(auth, h, services)
}

// Register godoc
// @Summary Register a new org
// @Description Creates a new org together with its first admin user and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Org and admin details"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterOrg(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to register org")
		return
	}

	logger.Info("Org registered", slog.String("org_id", user.OrgID), slog.String("user_id", user.UserID))
	h.issueTokens(c, logger, user, http.StatusCreated)
}

// Login godoc
// @Summary User login
// @Description Authenticates a user by email and password and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Same message for unknown email and wrong password
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid email or password"})
		return
	}

	h.issueTokens(c, logger, user, http.StatusOK)
}

// Refresh godoc
// @Summary Refresh the access token
// @Description Exchanges the refresh token cookie for a new token pair. The old refresh token is rotated out.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, rawToken, ok := h.refreshTokenFromCookie(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Refresh token missing or malformed"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), userID, rawToken)
	if err != nil {
		logger.Warn("Refresh token rejected", slog.String("user_id", userID), slog.String("error", err.Error()))
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid or expired refresh token"})
		return
	}

	h.issueTokens(c, logger, user, http.StatusOK)
}

// Logout godoc
// @Summary Log out
// @Description Clears the refresh token cookie and invalidates the stored refresh token.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if userID, _, ok := h.refreshTokenFromCookie(c); ok {
		if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
			logger.Warn("Failed to clear stored refresh token", slog.String("user_id", userID), slog.String("error", err.Error()))
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// issueTokens generates an access and refresh token pair for the user,
// persists the refresh token hash and sets the refresh cookie. The access
// token goes in the response body.
func (h *AuthHandler) issueTokens(c *gin.Context, logger *slog.Logger, user *domain.User, status int) {
	ctx := c.Request.Context()

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Failed to generate token"})
		return
	}

	rawRefresh, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Failed to generate token"})
		return
	}

	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(rawRefresh), refreshExpiry); err != nil {
		logger.Error("Failed to persist refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Failed to generate token"})
		return
	}

	h.setRefreshCookie(c, user.UserID, rawRefresh)

	c.JSON(status, dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   accessExpiry,
	})
}

// The refresh cookie value is "{userID}.{token}". The token is hex encoded
// so the first dot is an unambiguous separator.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, userID, rawToken string) {
	maxAge := int(h.cfg.RefreshTokenExpiryDuration.Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, userID+"."+rawToken, maxAge, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}

func (h *AuthHandler) refreshTokenFromCookie(c *gin.Context) (userID, rawToken string, ok bool) {
	value, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || value == "" {
		return "", "", false
	}
	userID, rawToken, found := strings.Cut(value, ".")
	if !found || userID == "" || rawToken == "" {
		return "", "", false
	}
	return userID, rawToken, true
}
