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

// PropertyHandler serves the property portfolio endpoints (agent only).
type PropertyHandler struct {
	svc    service.PropertyService
	logger *zap.Logger
}

// NewPropertyHandler creates the PropertyHandler.
func NewPropertyHandler(svc service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	property, err := h.svc.Create(c.Request.Context(), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, property)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, property)
}

// Update handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	property, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, property)
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	var req dto.PropertyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid query parameters", err.Error())
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *PropertyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPropertyNotFound):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrLandlordNotFound):
		response.NotFound(c, 15002, err.Error())
	case errors.Is(err, service.ErrNotALandlordProfile):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrPropertyHasTenant):
		response.Conflict(c, 15004, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15005, err.Error())
	default:
		h.logger.Error("property request failed", zap.Error(err))
		response.InternalError(c)
	}
}
