package service

import (
	"context"

	"go.uber.org/zap"

	"propertycare/backend/config"
	"propertycare/backend/internal/queue"
	"propertycare/backend/internal/repository"
	"propertycare/backend/pkg/jwt"
	"propertycare/backend/pkg/redis"
)

// EventPublisher emits lifecycle events. A nil publisher disables
// notifications without changing any behavior.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.RequestEvent) error
}

// Service aggregates all business-logic interfaces.
type Service struct {
	Auth        AuthService
	Maintenance MaintenanceService
	Tenancy     TenancyService
	Worker      WorkerService
	Property    PropertyService
	Export      ExportService
}

// NewService wires the service implementations.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	events EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Maintenance: NewMaintenanceService(repo, events, logger),
		Tenancy:     NewTenancyService(repo, logger),
		Worker:      NewWorkerService(repo, logger),
		Property:    NewPropertyService(repo, logger),
		Export:      NewExportService(repo, logger),
	}
}
