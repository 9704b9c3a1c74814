package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
	"github.com/expensehq/expense_mgmt_app/internal/platform/config"
)

// GoogleOAuthHandler exchanges Google authorization codes for application JWTs.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	frontendBaseURL    string
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
	frontendBaseURL string,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
		frontendBaseURL:    frontendBaseURL,
	}
}

const oauthStateCookie = "oauth_state"

// registerGoogleOAuthRoutes registers the public Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.GoogleOAuthHandler, services.User, services.TokenService, cfg.FrontendBaseURL)
	googleRoutes := rg.Group("/api/v1/auth/google")
	{
		googleRoutes.GET("/login", h.LoginGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// LoginGoogle godoc
// @Summary Start the Google OAuth login flow
// @Description Redirects the browser to Google's consent page. The CSRF state is kept in a short-lived cookie.
// @Tags oauth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start login"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// CallbackGoogle godoc
// @Summary Google OAuth callback
// @Description Verifies the CSRF state, exchanges the code, signs in the matching account and redirects to the frontend with the token.
// @Tags oauth
// @Success 307
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No account for this Google identity"
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	wantState, err := c.Cookie(oauthStateCookie)
	if err != nil || wantState == "" || c.Query("state") != wantState {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code missing"})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange callback code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	info, err := h.googleOAuthService.GetUserInfo(ctx, oauth2Token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch user info from Google"})
		return
	}
	if info.Email == "" || !info.VerifiedEmail {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account email is missing or unverified"})
		return
	}

	token, ok := h.signInByEmail(c, info.Email)
	if !ok {
		return
	}

	if h.frontendBaseURL != "" {
		c.Redirect(http.StatusTemporaryRedirect, h.frontendBaseURL+"/oauth/complete#token="+token)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ExchangeCodeRequest defines the JSON body of the exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for an access token
// @Description Validates the Google ID token and signs in the matching account. Accounts are provisioned by a company admin; an unknown email is rejected.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No account for this Google identity"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token missing from Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account email is missing or unverified"})
		return
	}

	token, ok := h.signInByEmail(c, email)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// signInByEmail maps a verified Google identity onto an existing account.
// Accounts are provisioned by the company admin, never auto-created here.
func (h *GoogleOAuthHandler) signInByEmail(c *gin.Context, email string) (string, bool) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "No account exists for this email"})
			return "", false
		}
		logger.Error("Failed to look up user for OAuth login", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign in"})
		return "", false
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Account is deactivated"})
		return "", false
	}

	token, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return "", false
	}

	logger.Info("User signed in via Google OAuth", slog.String("user_id", user.UserID))
	return token, true
}
