package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
)

// ── worker errors ──

var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrWorkerInUse    = errors.New("worker is assigned to maintenance requests")
)

// WorkerService manages the tradesperson roster and the per-category
// favorite flag.
type WorkerService interface {
	Create(ctx context.Context, req *dto.CreateWorkerRequest, agentID string) (*dto.WorkerResponse, error)
	GetByID(ctx context.Context, workerID string) (*dto.WorkerResponse, error)
	Update(ctx context.Context, workerID string, req *dto.UpdateWorkerRequest, agentID string) (*dto.WorkerResponse, error)
	// SetFavorite clears any existing favorite in the same normalized
	// category before setting the flag, so at most one favorite exists
	// per category. The partial unique index backstops the race.
	SetFavorite(ctx context.Context, workerID string, favorite bool, agentID string) (*dto.WorkerResponse, error)
	List(ctx context.Context, req *dto.WorkerListRequest) ([]dto.WorkerResponse, error)
	Delete(ctx context.Context, workerID string) error
}

type workerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkerService creates the WorkerService.
func NewWorkerService(repo *repository.Repository, logger *zap.Logger) WorkerService {
	return &workerService{repo: repo, logger: logger}
}

func (s *workerService) Create(ctx context.Context, req *dto.CreateWorkerRequest, agentID string) (*dto.WorkerResponse, error) {
	worker := &model.Worker{
		Name:        req.Name,
		Initials:    req.Initials,
		Specialty:   req.Specialty,
		Category:    req.Category,
		Phone:       req.Phone,
		Description: req.Description,
	}
	worker.CreatedBy = &agentID
	worker.UpdatedBy = &agentID

	if err := s.repo.Worker.Create(ctx, worker); err != nil {
		s.logger.Error("create worker failed", zap.Error(err))
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func (s *workerService) GetByID(ctx context.Context, workerID string) (*dto.WorkerResponse, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func (s *workerService) Update(ctx context.Context, workerID string, req *dto.UpdateWorkerRequest, agentID string) (*dto.WorkerResponse, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Initials != nil {
		worker.Initials = *req.Initials
	}
	if req.Specialty != nil {
		worker.Specialty = *req.Specialty
	}
	if req.Category != nil && model.NormalizeCategory(*req.Category) != model.NormalizeCategory(worker.Category) {
		// A favorite flag never follows the worker into a new category.
		worker.Category = *req.Category
		worker.Favorite = false
	} else if req.Category != nil {
		worker.Category = *req.Category
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.Description != nil {
		worker.Description = *req.Description
	}
	worker.UpdatedBy = &agentID

	if err := s.repo.Worker.Update(ctx, worker); err != nil {
		s.logger.Error("update worker failed", zap.String("id", workerID), zap.Error(err))
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func (s *workerService) SetFavorite(ctx context.Context, workerID string, favorite bool, agentID string) (*dto.WorkerResponse, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if favorite && !worker.Favorite {
		workers, err := s.repo.Worker.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range workers {
			w := &workers[i]
			if w.WorkerID != workerID && w.Favorite && model.CategoriesMatch(w.Category, worker.Category) {
				w.Favorite = false
				w.UpdatedBy = &agentID
				if err := s.repo.Worker.Update(ctx, w); err != nil {
					s.logger.Error("clear previous favorite failed", zap.String("id", w.WorkerID), zap.Error(err))
					return nil, err
				}
			}
		}
	}

	worker.Favorite = favorite
	worker.UpdatedBy = &agentID

	if err := s.repo.Worker.Update(ctx, worker); err != nil {
		s.logger.Error("set favorite failed", zap.String("id", workerID), zap.Error(err))
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func (s *workerService) List(ctx context.Context, req *dto.WorkerListRequest) ([]dto.WorkerResponse, error) {
	workers, err := s.repo.Worker.List(ctx)
	if err != nil {
		s.logger.Error("list workers failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		w := &workers[i]
		if req.Category != "" && !model.CategoriesMatch(w.Category, req.Category) {
			continue
		}
		if req.Favorite != nil && w.Favorite != *req.Favorite {
			continue
		}
		result = append(result, *toWorkerResponse(w))
	}
	return result, nil
}

func (s *workerService) Delete(ctx context.Context, workerID string) error {
	if _, err := s.getWorker(ctx, workerID); err != nil {
		return err
	}

	// Requests keep a foreign key to the worker, including completed
	// ones backing invoices, so a referenced worker cannot go.
	count, err := s.repo.MaintenanceRequest.CountByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("count worker assignments failed", zap.String("id", workerID), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrWorkerInUse
	}

	return s.repo.Worker.Delete(ctx, workerID)
}

// ── helpers ──

func (s *workerService) getWorker(ctx context.Context, workerID string) (*model.Worker, error) {
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("lookup worker failed", zap.String("id", workerID), zap.Error(err))
		return nil, err
	}
	return worker, nil
}

func toWorkerResponse(w *model.Worker) *dto.WorkerResponse {
	return &dto.WorkerResponse{
		ID:          w.WorkerID,
		Name:        w.Name,
		Initials:    w.Initials,
		Specialty:   w.Specialty,
		Category:    w.Category,
		Phone:       w.Phone,
		Rating:      w.Rating,
		Description: w.Description,
		Favorite:    w.Favorite,
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}
}
