package handler

import (
	"go.uber.org/zap"

	"propertycare/backend/internal/service"
)

// Handler aggregates the HTTP handlers.
type Handler struct {
	Auth        *AuthHandler
	Maintenance *MaintenanceHandler
	Tenancy     *TenancyHandler
	Worker      *WorkerHandler
	Property    *PropertyHandler
	Export      *ExportHandler
}

// NewHandler wires the handler implementations.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, logger),
		Maintenance: NewMaintenanceHandler(svc.Maintenance, logger),
		Tenancy:     NewTenancyHandler(svc.Tenancy, logger),
		Worker:      NewWorkerHandler(svc.Worker, logger),
		Property:    NewPropertyHandler(svc.Property, logger),
		Export:      NewExportHandler(svc.Export, logger),
	}
}
