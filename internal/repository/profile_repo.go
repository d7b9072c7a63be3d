package repository

import (
	"context"

	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	pkgerrors "propertycare/backend/pkg/errors"
)

// ProfileListFilters narrow the profile listing.
type ProfileListFilters struct {
	Role         string
	TenantStatus string
	PropertyID   string
}

// ProfileRepository is the data-access interface for identity rows.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	List(ctx context.Context, filters *ProfileListFilters, offset, limit int) ([]model.Profile, int64, error)
	// ListActiveTenantsByProperty returns the active tenants referencing
	// a property. Used for the occupancy pre-check and status recompute.
	ListActiveTenantsByProperty(ctx context.Context, propertyID string) ([]model.Profile, error)
	Delete(ctx context.Context, id string) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo creates the GORM-backed ProfileRepository.
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("profile_id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.Profile) error {
	oldVersion := profile.Version
	result := r.db.WithContext(ctx).
		Model(profile).
		Where("profile_id = ? AND version = ?", profile.ProfileID, oldVersion).
		Updates(map[string]interface{}{
			"name":                    profile.Name,
			"phone":                   profile.Phone,
			"password_hash":           profile.PasswordHash,
			"property_id":             profile.PropertyID,
			"landlord_id":             profile.LandlordID,
			"lease_start":             profile.LeaseStart,
			"lease_end":               profile.LeaseEnd,
			"monthly_rent":            profile.MonthlyRent,
			"tenant_status":           profile.TenantStatus,
			"emergency_contact_name":  profile.EmergencyContactName,
			"emergency_contact_phone": profile.EmergencyContactPhone,
			"updated_by":              profile.UpdatedBy,
			"version":                 oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version = oldVersion + 1
	return nil
}

func (r *profileRepo) List(ctx context.Context, filters *ProfileListFilters, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Profile{})
	if filters != nil {
		if filters.Role != "" {
			db = db.Where("role = ?", filters.Role)
		}
		if filters.TenantStatus != "" {
			db = db.Where("tenant_status = ?", filters.TenantStatus)
		}
		if filters.PropertyID != "" {
			db = db.Where("property_id = ?", filters.PropertyID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Property").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepo) ListActiveTenantsByProperty(ctx context.Context, propertyID string) ([]model.Profile, error) {
	var tenants []model.Profile
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND tenant_status = ? AND role = ?",
			propertyID, model.TenantActive, model.RoleTenant).
		Order("name ASC").
		Find(&tenants).Error
	return tenants, err
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ?", id).
		Delete(&model.Profile{}).Error
}
