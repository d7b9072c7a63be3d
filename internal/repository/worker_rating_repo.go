package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propertycare/backend/internal/model"
)

// WorkerRatingRepository is the data-access interface for ratings.
type WorkerRatingRepository interface {
	// Upsert inserts or replaces the rating for (request_id, rater_id).
	Upsert(ctx context.Context, rating *model.WorkerRating) error
	GetByRequestAndRater(ctx context.Context, requestID, raterID string) (*model.WorkerRating, error)
	ListByWorker(ctx context.Context, workerID string) ([]model.WorkerRating, error)
	DeleteByRater(ctx context.Context, raterID string) error
}

type workerRatingRepo struct {
	db *gorm.DB
}

// NewWorkerRatingRepo creates the GORM-backed WorkerRatingRepository.
func NewWorkerRatingRepo(db *gorm.DB) WorkerRatingRepository {
	return &workerRatingRepo{db: db}
}

func (r *workerRatingRepo) Upsert(ctx context.Context, rating *model.WorkerRating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "request_id"}, {Name: "rater_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"rating", "comment", "rater_type", "updated_at",
			}),
		}).
		Create(rating).Error
}

func (r *workerRatingRepo) GetByRequestAndRater(ctx context.Context, requestID, raterID string) (*model.WorkerRating, error) {
	var rating model.WorkerRating
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND rater_id = ?", requestID, raterID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *workerRatingRepo) ListByWorker(ctx context.Context, workerID string) ([]model.WorkerRating, error) {
	var ratings []model.WorkerRating
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *workerRatingRepo) DeleteByRater(ctx context.Context, raterID string) error {
	return r.db.WithContext(ctx).
		Where("rater_id = ?", raterID).
		Delete(&model.WorkerRating{}).Error
}
