package repository

import (
	"context"

	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	pkgerrors "propertycare/backend/pkg/errors"
)

// WorkerRepository is the data-access interface for workers.
// Category matching happens in the service via NormalizeCategory, so
// listings return all workers rather than filtering by raw strings.
type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	GetByID(ctx context.Context, id string) (*model.Worker, error)
	Update(ctx context.Context, worker *model.Worker) error
	List(ctx context.Context) ([]model.Worker, error)
	Delete(ctx context.Context, id string) error
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo creates the GORM-backed WorkerRepository.
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *workerRepo) GetByID(ctx context.Context, id string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", id).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) Update(ctx context.Context, worker *model.Worker) error {
	oldVersion := worker.Version
	result := r.db.WithContext(ctx).
		Model(worker).
		Where("worker_id = ? AND version = ?", worker.WorkerID, oldVersion).
		Updates(map[string]interface{}{
			"name":        worker.Name,
			"initials":    worker.Initials,
			"specialty":   worker.Specialty,
			"category":    worker.Category,
			"phone":       worker.Phone,
			"rating":      worker.Rating,
			"description": worker.Description,
			"favorite":    worker.Favorite,
			"updated_by":  worker.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	worker.Version = oldVersion + 1
	return nil
}

func (r *workerRepo) List(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("worker_id = ?", id).
		Delete(&model.Worker{}).Error
}
