package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/service"
	pkgerrors "propertycare/backend/pkg/errors"
	"propertycare/backend/pkg/response"
)

// TenancyHandler serves tenant management endpoints (agent only,
// except profile self-edit).
type TenancyHandler struct {
	svc    service.TenancyService
	logger *zap.Logger
}

// NewTenancyHandler creates the TenancyHandler.
func NewTenancyHandler(svc service.TenancyService, logger *zap.Logger) *TenancyHandler {
	return &TenancyHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/tenants.
func (h *TenancyHandler) List(c *gin.Context) {
	var req dto.TenantListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid query parameters", err.Error())
		return
	}

	list, total, err := h.svc.ListTenants(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// Get handles GET /api/v1/tenants/:id.
func (h *TenancyHandler) Get(c *gin.Context) {
	tenant, err := h.svc.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, tenant)
}

// UpdateProfile handles PUT /api/v1/profiles/me.
func (h *TenancyHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	profileID := currentProfileID(c)
	profile, err := h.svc.UpdateProfile(c.Request.Context(), profileID, &req, profileID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, profile)
}

// Assign handles POST /api/v1/tenants/:id/assign.
func (h *TenancyHandler) Assign(c *gin.Context) {
	var req dto.AssignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	tenant, err := h.svc.AssignTenant(c.Request.Context(), c.Param("id"), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, tenant)
}

// MoveOut handles POST /api/v1/tenants/:id/move-out.
func (h *TenancyHandler) MoveOut(c *gin.Context) {
	tenant, err := h.svc.MoveOut(c.Request.Context(), c.Param("id"), currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, tenant)
}

// Delete handles DELETE /api/v1/tenants/:id.
func (h *TenancyHandler) Delete(c *gin.Context) {
	err := h.svc.DeleteTenant(c.Request.Context(), c.Param("id"), currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *TenancyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrNotATenant):
		response.BadRequest(c, 13002, err.Error())
	case errors.Is(err, service.ErrPropertyNotFound):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrPropertyOccupied):
		response.Conflict(c, 13003, err.Error())
	case errors.Is(err, service.ErrInvalidLease):
		response.BadRequest(c, 13004, err.Error())
	case errors.Is(err, service.ErrNotAssigned):
		response.BadRequest(c, 13005, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13006, err.Error())
	default:
		h.logger.Error("tenancy request failed", zap.Error(err))
		response.InternalError(c)
	}
}
