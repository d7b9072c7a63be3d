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

// ── property errors ──

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrLandlordNotFound    = errors.New("landlord not found")
	ErrPropertyHasTenant   = errors.New("property still has an active tenant")
	ErrNotALandlordProfile = errors.New("profile is not a landlord")
)

// PropertyService manages the property portfolio. Occupancy status is
// derived from tenancy and never set through this service.
type PropertyService interface {
	Create(ctx context.Context, req *dto.CreatePropertyRequest, agentID string) (*dto.PropertyResponse, error)
	GetByID(ctx context.Context, propertyID string) (*dto.PropertyResponse, error)
	Update(ctx context.Context, propertyID string, req *dto.UpdatePropertyRequest, agentID string) (*dto.PropertyResponse, error)
	List(ctx context.Context, req *dto.PropertyListRequest) ([]dto.PropertyResponse, int64, error)
	// Delete refuses while an active tenant still references the
	// property.
	Delete(ctx context.Context, propertyID string) error
}

type propertyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPropertyService creates the PropertyService.
func NewPropertyService(repo *repository.Repository, logger *zap.Logger) PropertyService {
	return &propertyService{repo: repo, logger: logger}
}

func (s *propertyService) Create(ctx context.Context, req *dto.CreatePropertyRequest, agentID string) (*dto.PropertyResponse, error) {
	landlord, err := s.repo.Profile.GetByID(ctx, req.LandlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLandlordNotFound
		}
		return nil, err
	}
	if landlord.Role != model.RoleLandlord {
		return nil, ErrNotALandlordProfile
	}

	units := req.Units
	if units == 0 {
		units = 1
	}

	property := &model.Property{
		Name:        req.Name,
		Address:     req.Address,
		Type:        req.Type,
		LandlordID:  req.LandlordID,
		Units:       units,
		RentPerUnit: req.RentPerUnit,
		Status:      model.PropertyAvailable,
		Photos:      req.Photos,
	}
	property.CreatedBy = &agentID
	property.UpdatedBy = &agentID

	if err := s.repo.Property.Create(ctx, property); err != nil {
		s.logger.Error("create property failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, property), nil
}

func (s *propertyService) GetByID(ctx context.Context, propertyID string) (*dto.PropertyResponse, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, property), nil
}

func (s *propertyService) Update(ctx context.Context, propertyID string, req *dto.UpdatePropertyRequest, agentID string) (*dto.PropertyResponse, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.Units != nil {
		property.Units = *req.Units
	}
	if req.Photos != nil {
		property.Photos = req.Photos
	}
	property.UpdatedBy = &agentID

	if err := s.repo.Property.Update(ctx, property); err != nil {
		s.logger.Error("update property failed", zap.String("id", propertyID), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, property), nil
}

func (s *propertyService) List(ctx context.Context, req *dto.PropertyListRequest) ([]dto.PropertyResponse, int64, error) {
	filters := &repository.PropertyListFilters{
		LandlordID: req.LandlordID,
		Status:     req.Status,
	}
	offset := (req.Page - 1) * req.PageSize
	properties, total, err := s.repo.Property.List(ctx, filters, offset, req.PageSize)
	if err != nil {
		s.logger.Error("list properties failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		result = append(result, *s.toResponse(ctx, &properties[i]))
	}
	return result, total, nil
}

func (s *propertyService) Delete(ctx context.Context, propertyID string) error {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return err
	}

	occupants, err := s.repo.Profile.ListActiveTenantsByProperty(ctx, property.PropertyID)
	if err != nil {
		return err
	}
	if len(occupants) > 0 {
		return ErrPropertyHasTenant
	}

	return s.repo.Property.Delete(ctx, propertyID)
}

// ── helpers ──

func (s *propertyService) getProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.repo.Property.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("lookup property failed", zap.String("id", propertyID), zap.Error(err))
		return nil, err
	}
	return property, nil
}

func (s *propertyService) toResponse(ctx context.Context, p *model.Property) *dto.PropertyResponse {
	resp := &dto.PropertyResponse{
		ID:          p.PropertyID,
		Name:        p.Name,
		Address:     p.Address,
		Type:        p.Type,
		LandlordID:  p.LandlordID,
		Units:       p.Units,
		RentPerUnit: p.RentPerUnit,
		Status:      p.Status,
		Occupied:    p.Status == model.PropertyOccupied,
		Photos:      p.Photos,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Occupied {
		if occupants, err := s.repo.Profile.ListActiveTenantsByProperty(ctx, p.PropertyID); err == nil && len(occupants) > 0 {
			resp.TenantName = occupants[0].Name
		}
	}
	return resp
}
