package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/services"
	"circuithub_backend/internal/services/dto"
	"circuithub_backend/pkg/apperrors"
)

const (
	ssoStateCookie  = "sso_state"
	ssoReturnCookie = "sso_return"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/sso/login", h.SSOLogin)
		auth.GET("/sso/callback", h.SSOCallback)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// SSOLogin starts the authorization-code flow. The state nonce and the
// caller's redirectTo both travel in short-lived cookies so the callback can
// verify and restore them.
func (h *AuthHandler) SSOLogin(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	authURL, err := h.authService.SSOAuthURL(state)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetCookie(ssoStateCookie, state, 600, "/", "", false, true)
	if returnPath := c.Query("redirectTo"); returnPath != "" {
		c.SetCookie(ssoReturnCookie, returnPath, 600, "/", "", false, true)
	}

	c.Redirect(http.StatusFound, authURL)
}

// SSOCallback completes the flow. Failures never surface as JSON here: the
// browser is mid-redirect, so every outcome is a 302.
func (h *AuthHandler) SSOCallback(c *gin.Context) {
	ctx := c.Request.Context()

	state := c.Query("state")
	wantState, err := c.Cookie(ssoStateCookie)
	if err != nil || state == "" || state != wantState {
		logger.CtxWarn(ctx, "SSO callback state mismatch", "ip", c.ClientIP())
		c.Redirect(http.StatusFound, "/auth/error?code=callback_error")
		return
	}
	c.SetCookie(ssoStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/auth/error?code=callback_error")
		return
	}

	returnPath, _ := c.Cookie(ssoReturnCookie)
	c.SetCookie(ssoReturnCookie, "", -1, "/", "", false, true)

	result, err := h.authService.HandleSSOCallback(ctx, code, returnPath)
	if err != nil {
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) && appErr.Code == apperrors.CodeExternalServiceError {
			logger.CtxWithError(ctx, "SSO code exchange failed", err)
			c.Redirect(http.StatusFound, "/auth/error?code=callback_error")
			return
		}
		logger.CtxWithError(ctx, "SSO callback failed", err)
		c.Redirect(http.StatusFound, "/auth/error?code=unexpected_error")
		return
	}

	c.SetCookie("access_token", result.AccessToken, 3600, "/", "", false, true)
	c.SetCookie("refresh_token", result.RefreshToken, 7*24*3600, "/", "", false, true)
	c.Redirect(http.StatusFound, safeRedirectPath(result.RedirectPath))
}

// safeRedirectPath keeps redirects on-site. Anything absolute or
// protocol-relative falls back to the dashboard.
func safeRedirectPath(path string) string {
	if path == "" {
		return "/dashboard"
	}
	u, err := url.Parse(path)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/dashboard"
	}
	if path[0] != '/' {
		return "/dashboard"
	}
	return path
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
