package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/response"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.countSignIn(err)
		response.Error(c, err)
		return
	}
	h.countSignIn(nil)
	response.OK(c, result)
}

// OAuthSignIn godoc
// @Summary Complete a provider-confirmed OAuth sign-in
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.OAuthSignInRequest true "Verified identity"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/oauth [post]
func (h *AuthHandler) OAuthSignIn(c *gin.Context) {
	var req models.OAuthSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.OAuthSignIn(c.Request.Context(), req)
	if err != nil {
		h.countSignIn(err)
		response.Error(c, err)
		return
	}
	h.countSignIn(nil)
	response.OK(c, result)
}

// Refresh godoc
// @Summary Exchange a refresh token for new tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Logout godoc
// @Summary Revoke the presented refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	if err := h.auth.Logout(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"changed": true})
}

// Session godoc
// @Summary Probe the current session
// @Description Returns the signed-in user, or authenticated=false when the
// @Description session is absent or no longer valid. The browser route guard
// @Description polls this endpoint.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.OK(c, models.SessionInfo{Authenticated: false})
		return
	}
	if !claims.Active {
		response.OK(c, models.SessionInfo{Authenticated: false, ErrorCode: appErrors.ErrAccountDisabled.Code})
		return
	}
	response.OK(c, models.SessionInfo{
		Authenticated: true,
		User: &models.UserInfo{
			ID:       claims.UserID,
			Email:    claims.Email,
			FullName: claims.FullName,
			Role:     claims.Role,
			Active:   claims.Active,
		},
	})
}

func (h *AuthHandler) countSignIn(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case err == nil:
		h.metrics.CountSignIn("success")
	case appErrors.FromError(err).Code == appErrors.ErrAccountDisabled.Code:
		h.metrics.CountSignIn("disabled")
	default:
		h.metrics.CountSignIn("invalid")
	}
}
