package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
)

// ── tenancy errors ──

var (
	ErrNotATenant       = errors.New("profile is not a tenant")
	ErrPropertyOccupied = errors.New("property already has an active tenant")
	ErrInvalidLease     = errors.New("lease_end must be after lease_start")
	ErrNotAssigned      = errors.New("tenant is not assigned to a property")
)

// TenancyService manages tenant-property assignment. A property holds
// at most one active tenant; the partial unique index on profiles
// backstops concurrent assignments.
type TenancyService interface {
	ListTenants(ctx context.Context, req *dto.TenantListRequest) ([]dto.ProfileResponse, int64, error)
	GetTenant(ctx context.Context, tenantID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, profileID string, req *dto.UpdateProfileRequest, actorID string) (*dto.ProfileResponse, error)
	AssignTenant(ctx context.Context, tenantID string, req *dto.AssignTenantRequest, agentID string) (*dto.ProfileResponse, error)
	MoveOut(ctx context.Context, tenantID, agentID string) (*dto.ProfileResponse, error)
	// DeleteTenant removes the profile together with its maintenance
	// requests and ratings, then vacates the property if needed.
	DeleteTenant(ctx context.Context, tenantID, agentID string) error
}

type tenancyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTenancyService creates the TenancyService.
func NewTenancyService(repo *repository.Repository, logger *zap.Logger) TenancyService {
	return &tenancyService{repo: repo, logger: logger}
}

func (s *tenancyService) ListTenants(ctx context.Context, req *dto.TenantListRequest) ([]dto.ProfileResponse, int64, error) {
	filters := &repository.ProfileListFilters{
		Role:         model.RoleTenant,
		TenantStatus: req.Status,
	}
	offset := (req.Page - 1) * req.PageSize
	profiles, total, err := s.repo.Profile.List(ctx, filters, offset, req.PageSize)
	if err != nil {
		s.logger.Error("list tenants failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toProfileResponse(&profiles[i]))
	}
	return result, total, nil
}

func (s *tenancyService) GetTenant(ctx context.Context, tenantID string) (*dto.ProfileResponse, error) {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(tenant), nil
}

func (s *tenancyService) UpdateProfile(ctx context.Context, profileID string, req *dto.UpdateProfileRequest, actorID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.EmergencyContactName != nil {
		profile.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		profile.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	profile.UpdatedBy = &actorID

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		s.logger.Error("update profile failed", zap.String("id", profileID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *tenancyService) AssignTenant(ctx context.Context, tenantID string, req *dto.AssignTenantRequest, agentID string) (*dto.ProfileResponse, error) {
	leaseStart, err := time.Parse("2006-01-02", req.LeaseStart)
	if err != nil {
		return nil, fmt.Errorf("%w: bad lease_start %q", ErrInvalidLease, req.LeaseStart)
	}
	leaseEnd, err := time.Parse("2006-01-02", req.LeaseEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: bad lease_end %q", ErrInvalidLease, req.LeaseEnd)
	}
	if !leaseEnd.After(leaseStart) {
		return nil, ErrInvalidLease
	}

	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("lookup property failed", zap.String("id", req.PropertyID), zap.Error(err))
		return nil, err
	}

	// Occupancy pre-check. The error names the occupant so the agent
	// can resolve the conflict; the partial unique index catches the
	// race this read cannot.
	occupants, err := s.repo.Profile.ListActiveTenantsByProperty(ctx, property.PropertyID)
	if err != nil {
		return nil, err
	}
	for _, o := range occupants {
		if o.ProfileID != tenantID {
			return nil, fmt.Errorf("%w: occupied by %s", ErrPropertyOccupied, o.Name)
		}
	}

	previousPropertyID := tenant.PropertyID

	tenant.PropertyID = &property.PropertyID
	tenant.LandlordID = &property.LandlordID
	tenant.LeaseStart = &leaseStart
	tenant.LeaseEnd = &leaseEnd
	tenant.MonthlyRent = &req.MonthlyRent
	tenant.TenantStatus = model.TenantActive
	tenant.UpdatedBy = &agentID

	if err := s.repo.Profile.Update(ctx, tenant); err != nil {
		s.logger.Error("assign tenant failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}

	if err := s.recomputePropertyStatus(ctx, property.PropertyID, agentID); err != nil {
		return nil, err
	}
	if previousPropertyID != nil && *previousPropertyID != property.PropertyID {
		if err := s.recomputePropertyStatus(ctx, *previousPropertyID, agentID); err != nil {
			return nil, err
		}
	}

	tenant.Property = property
	return toProfileResponse(tenant), nil
}

func (s *tenancyService) MoveOut(ctx context.Context, tenantID, agentID string) (*dto.ProfileResponse, error) {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PropertyID == nil {
		return nil, ErrNotAssigned
	}
	vacatedPropertyID := *tenant.PropertyID

	tenant.PropertyID = nil
	tenant.LandlordID = nil
	tenant.LeaseStart = nil
	tenant.LeaseEnd = nil
	tenant.MonthlyRent = nil
	tenant.TenantStatus = model.TenantInactive
	tenant.UpdatedBy = &agentID

	if err := s.repo.Profile.Update(ctx, tenant); err != nil {
		s.logger.Error("move out failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}

	if err := s.recomputePropertyStatus(ctx, vacatedPropertyID, agentID); err != nil {
		return nil, err
	}

	tenant.Property = nil
	return toProfileResponse(tenant), nil
}

func (s *tenancyService) DeleteTenant(ctx context.Context, tenantID, agentID string) error {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.repo.MaintenanceRequest.DeleteByTenant(ctx, tenantID); err != nil {
		s.logger.Error("delete tenant requests failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return err
	}
	if err := s.repo.WorkerRating.DeleteByRater(ctx, tenantID); err != nil {
		s.logger.Error("delete tenant ratings failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return err
	}
	if err := s.repo.Profile.Delete(ctx, tenantID); err != nil {
		s.logger.Error("delete tenant failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return err
	}

	if tenant.PropertyID != nil {
		return s.recomputePropertyStatus(ctx, *tenant.PropertyID, agentID)
	}
	return nil
}

// ── helpers ──

func (s *tenancyService) getTenant(ctx context.Context, tenantID string) (*model.Profile, error) {
	profile, err := s.repo.Profile.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("lookup tenant failed", zap.String("id", tenantID), zap.Error(err))
		return nil, err
	}
	if profile.Role != model.RoleTenant {
		return nil, ErrNotATenant
	}
	return profile, nil
}

// recomputePropertyStatus derives the property's occupancy from the
// active tenants referencing it. Rent per unit mirrors the occupant's
// monthly rent and drops to zero when vacant.
func (s *tenancyService) recomputePropertyStatus(ctx context.Context, propertyID, actorID string) error {
	property, err := s.repo.Property.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // property deleted concurrently, nothing to derive
		}
		return err
	}

	occupants, err := s.repo.Profile.ListActiveTenantsByProperty(ctx, propertyID)
	if err != nil {
		return err
	}

	if len(occupants) > 0 {
		property.Status = model.PropertyOccupied
		if occupants[0].MonthlyRent != nil {
			property.RentPerUnit = *occupants[0].MonthlyRent
		}
	} else {
		property.Status = model.PropertyAvailable
		property.RentPerUnit = 0
	}
	property.UpdatedBy = &actorID

	if err := s.repo.Property.Update(ctx, property); err != nil {
		s.logger.Error("recompute property status failed", zap.String("property_id", propertyID), zap.Error(err))
		return err
	}
	return nil
}
