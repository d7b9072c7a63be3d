package repository

import (
	"context"

	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	pkgerrors "propertycare/backend/pkg/errors"
)

// RequestListFilters narrow the maintenance-request listing.
type RequestListFilters struct {
	TenantID   string
	LandlordID string // via tenant -> landlord chain
	WorkerID   string
	Status     model.RequestStatus
	Category   string
}

// MaintenanceRequestRepository is the data-access interface for
// maintenance requests. Update writes the full lifecycle state under
// the optimistic-lock version so concurrent transitions lose cleanly.
type MaintenanceRequestRepository interface {
	Create(ctx context.Context, request *model.MaintenanceRequest) error
	GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error)
	Update(ctx context.Context, request *model.MaintenanceRequest) error
	List(ctx context.Context, filters *RequestListFilters, offset, limit int) ([]model.MaintenanceRequest, int64, error)
	// ListCompleted returns completed requests ordered by completion
	// time, which is the invoice listing.
	ListCompleted(ctx context.Context, landlordID string) ([]model.MaintenanceRequest, error)
	ListByWorker(ctx context.Context, workerID string) ([]model.MaintenanceRequest, error)
	CountByWorker(ctx context.Context, workerID string) (int64, error)
	DeleteByTenant(ctx context.Context, tenantID string) error
}

type maintenanceRequestRepo struct {
	db *gorm.DB
}

// NewMaintenanceRequestRepo creates the GORM-backed repository.
func NewMaintenanceRequestRepo(db *gorm.DB) MaintenanceRequestRepository {
	return &maintenanceRequestRepo{db: db}
}

func (r *maintenanceRequestRepo) Create(ctx context.Context, request *model.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *maintenanceRequestRepo) GetByID(ctx context.Context, id string) (*model.MaintenanceRequest, error) {
	var request model.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Tenant").Preload("Tenant.Property").
		Preload("Worker").
		Where("request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *maintenanceRequestRepo) Update(ctx context.Context, request *model.MaintenanceRequest) error {
	oldVersion := request.Version
	result := r.db.WithContext(ctx).
		Model(request).
		Where("request_id = ? AND version = ?", request.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"assigned_worker_id":          request.AssignedWorkerID,
			"claimed_by":                  request.ClaimedBy,
			"status":                      request.Status,
			"estimated_cost":              request.EstimatedCost,
			"estimated_time":              request.EstimatedTime,
			"quote_description":           request.QuoteDescription,
			"additional_cost":             request.AdditionalCost,
			"additional_cost_description": request.AdditionalCostDescription,
			"actual_cost":                 request.ActualCost,
			"agent_notes":                 request.AgentNotes,
			"landlord_notes":              request.LandlordNotes,
			"completed_at":                request.CompletedAt,
			"updated_by":                  request.UpdatedBy,
			"version":                     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	request.Version = oldVersion + 1
	return nil
}

func (r *maintenanceRequestRepo) List(ctx context.Context, filters *RequestListFilters, offset, limit int) ([]model.MaintenanceRequest, int64, error) {
	var requests []model.MaintenanceRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.MaintenanceRequest{})
	if filters != nil {
		if filters.TenantID != "" {
			db = db.Where("tenant_id = ?", filters.TenantID)
		}
		if filters.LandlordID != "" {
			db = db.Where("tenant_id IN (?)",
				r.db.Model(&model.Profile{}).
					Select("profile_id").
					Where("landlord_id = ?", filters.LandlordID))
		}
		if filters.WorkerID != "" {
			db = db.Where("assigned_worker_id = ?", filters.WorkerID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Category != "" {
			db = db.Where("category = ?", filters.Category)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Tenant").Preload("Worker").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *maintenanceRequestRepo) ListCompleted(ctx context.Context, landlordID string) ([]model.MaintenanceRequest, error) {
	var requests []model.MaintenanceRequest
	db := r.db.WithContext(ctx).
		Preload("Tenant").Preload("Tenant.Property").
		Preload("Worker").
		Where("status = ?", model.StatusCompleted)
	if landlordID != "" {
		db = db.Where("tenant_id IN (?)",
			r.db.Model(&model.Profile{}).
				Select("profile_id").
				Where("landlord_id = ?", landlordID))
	}
	err := db.Order("completed_at DESC").Find(&requests).Error
	return requests, err
}

func (r *maintenanceRequestRepo) ListByWorker(ctx context.Context, workerID string) ([]model.MaintenanceRequest, error) {
	var requests []model.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Tenant").Preload("Tenant.Property").
		Where("assigned_worker_id = ? AND status NOT IN ?",
			workerID, []model.RequestStatus{model.StatusCompleted, model.StatusRejected}).
		Order("preferred_date ASC NULLS LAST").
		Find(&requests).Error
	return requests, err
}

func (r *maintenanceRequestRepo) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MaintenanceRequest{}).
		Where("assigned_worker_id = ?", workerID).
		Count(&count).Error
	return count, err
}

func (r *maintenanceRequestRepo) DeleteByTenant(ctx context.Context, tenantID string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&model.MaintenanceRequest{}).Error
}
