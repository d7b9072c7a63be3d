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

// WorkerHandler serves the worker roster endpoints (agent only).
type WorkerHandler struct {
	svc    service.WorkerService
	logger *zap.Logger
}

// NewWorkerHandler creates the WorkerHandler.
func NewWorkerHandler(svc service.WorkerService, logger *zap.Logger) *WorkerHandler {
	return &WorkerHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/workers.
func (h *WorkerHandler) Create(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	worker, err := h.svc.Create(c.Request.Context(), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, worker)
}

// Get handles GET /api/v1/workers/:id.
func (h *WorkerHandler) Get(c *gin.Context) {
	worker, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, worker)
}

// Update handles PUT /api/v1/workers/:id.
func (h *WorkerHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	worker, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, worker)
}

// SetFavorite handles PUT /api/v1/workers/:id/favorite.
func (h *WorkerHandler) SetFavorite(c *gin.Context) {
	var req dto.SetFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	worker, err := h.svc.SetFavorite(c.Request.Context(), c.Param("id"), req.Favorite, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, worker)
}

// List handles GET /api/v1/workers.
func (h *WorkerHandler) List(c *gin.Context) {
	var req dto.WorkerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid query parameters", err.Error())
		return
	}

	workers, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, workers)
}

// Delete handles DELETE /api/v1/workers/:id.
func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *WorkerHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14002, err.Error())
	case errors.Is(err, service.ErrWorkerInUse):
		response.Conflict(c, 14003, err.Error())
	default:
		h.logger.Error("worker request failed", zap.Error(err))
		response.InternalError(c)
	}
}
