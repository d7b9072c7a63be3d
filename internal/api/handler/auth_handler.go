package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/service"
	"propertycare/backend/pkg/response"
)

// AuthHandler serves registration, login and token endpoints.
type AuthHandler struct {
	svc    service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, 11001, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 11002, err.Error())
		default:
			h.logger.Error("register failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, profile)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 11003, err.Error())
		default:
			h.logger.Error("login failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tokens)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			response.Unauthorized(c, 11004, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			response.Unauthorized(c, 11004, "refresh token is invalid")
		default:
			h.logger.Error("refresh failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tokens)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), currentTokenJTI(c), currentTokenExpiry(c))
	if err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.svc.GetCurrentProfile(c.Request.Context(), currentProfileID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			response.NotFound(c, 11005, err.Error())
		default:
			h.logger.Error("get current profile failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, profile)
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), currentProfileID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.BadRequest(c, 11006, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			response.NotFound(c, 11005, err.Error())
		default:
			h.logger.Error("change password failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
