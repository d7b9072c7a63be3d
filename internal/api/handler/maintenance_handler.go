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

// MaintenanceHandler serves the request-lifecycle endpoints.
type MaintenanceHandler struct {
	svc    service.MaintenanceService
	logger *zap.Logger
}

// NewMaintenanceHandler creates the MaintenanceHandler.
func NewMaintenanceHandler(svc service.MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc, logger: logger}
}

// Submit handles POST /api/v1/requests (tenant).
func (h *MaintenanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), currentProfileID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, result)
}

// List handles GET /api/v1/requests. Results are scoped by role.
func (h *MaintenanceHandler) List(c *gin.Context) {
	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid query parameters", err.Error())
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), currentProfileID(c), currentRole(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// Get handles GET /api/v1/requests/:id.
func (h *MaintenanceHandler) Get(c *gin.Context) {
	result, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), currentProfileID(c), currentRole(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Claim handles POST /api/v1/requests/:id/claim (agent).
func (h *MaintenanceHandler) Claim(c *gin.Context) {
	result, err := h.svc.Claim(c.Request.Context(), c.Param("id"), currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// AssignWorker handles POST /api/v1/requests/:id/assign (agent).
func (h *MaintenanceHandler) AssignWorker(c *gin.Context) {
	var req dto.AssignWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	result, err := h.svc.AssignWorker(c.Request.Context(), c.Param("id"), req.WorkerID, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// QuickAssign handles POST /api/v1/requests/:id/quick-assign (agent).
func (h *MaintenanceHandler) QuickAssign(c *gin.Context) {
	result, err := h.svc.QuickAssign(c.Request.Context(), c.Param("id"), currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// SubmitQuote handles POST /api/v1/requests/:id/quote (agent).
func (h *MaintenanceHandler) SubmitQuote(c *gin.Context) {
	var req dto.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	result, err := h.svc.SubmitQuote(c.Request.Context(), c.Param("id"), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Approve handles POST /api/v1/requests/:id/approve (landlord).
func (h *MaintenanceHandler) Approve(c *gin.Context) {
	result, err := h.svc.Approve(c.Request.Context(), c.Param("id"), currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject handles POST /api/v1/requests/:id/reject (landlord).
func (h *MaintenanceHandler) Reject(c *gin.Context) {
	var req dto.RejectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	result, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.Reason, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Complete handles POST /api/v1/requests/:id/complete (agent).
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req dto.CompleteRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), c.Param("id"), &req, currentProfileID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, result)
}

// Rate handles POST /api/v1/requests/:id/rate (tenant or landlord).
func (h *MaintenanceHandler) Rate(c *gin.Context) {
	var req dto.RateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
		return
	}

	err := h.svc.Rate(c.Request.Context(), c.Param("id"), currentProfileID(c), currentRole(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListInvoices handles GET /api/v1/invoices (landlord, agent).
func (h *MaintenanceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.svc.ListInvoices(c.Request.Context(), currentProfileID(c), currentRole(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, invoices)
}

// writeError maps lifecycle errors to the response envelope.
func (h *MaintenanceHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 12002, err.Error())
	case errors.Is(err, service.ErrAlreadyClaimed):
		response.Conflict(c, 12003, err.Error())
	case errors.Is(err, service.ErrCategoryMismatch):
		response.BadRequest(c, 12004, err.Error())
	case errors.Is(err, service.ErrNoWorkerInCategory):
		response.NotFound(c, 12005, err.Error())
	case errors.Is(err, service.ErrQuoteCostRequired):
		response.BadRequest(c, 12006, err.Error())
	case errors.Is(err, service.ErrRejectReasonRequired):
		response.BadRequest(c, 12007, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrNoQuoteToApprove):
		response.Conflict(c, 12008, err.Error())
	case errors.Is(err, service.ErrNotRequestOwner), errors.Is(err, service.ErrNotRequestLandlord):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, service.ErrNotCompleted):
		response.Conflict(c, 12009, err.Error())
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12010, err.Error())
	default:
		h.logger.Error("maintenance request failed", zap.Error(err))
		response.InternalError(c)
	}
}
