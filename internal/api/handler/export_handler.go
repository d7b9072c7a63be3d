package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"propertycare/backend/internal/service"
	"propertycare/backend/pkg/response"
)

// ExportHandler serves file downloads.
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(svc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// InvoicesXLSX handles GET /api/v1/invoices/export.
func (h *ExportHandler) InvoicesXLSX(c *gin.Context) {
	data, filename, err := h.svc.InvoicesXLSX(c.Request.Context(), currentProfileID(c), currentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToExport):
			response.NotFound(c, 16001, err.Error())
		default:
			h.logger.Error("invoice export failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// WorkerCalendar handles GET /api/v1/workers/:id/calendar.
func (h *ExportHandler) WorkerCalendar(c *gin.Context) {
	ical, err := h.svc.WorkerCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkerNotFound):
			response.NotFound(c, 14001, err.Error())
		default:
			h.logger.Error("calendar export failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="appointments.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}
