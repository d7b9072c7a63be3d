package repository

import (
	"context"

	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	pkgerrors "propertycare/backend/pkg/errors"
)

// PropertyListFilters narrow the property listing.
type PropertyListFilters struct {
	LandlordID string
	Status     string
}

// PropertyRepository is the data-access interface for properties.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	Update(ctx context.Context, property *model.Property) error
	List(ctx context.Context, filters *PropertyListFilters, offset, limit int) ([]model.Property, int64, error)
	Delete(ctx context.Context, id string) error
}

type propertyRepo struct {
	db *gorm.DB
}

// NewPropertyRepo creates the GORM-backed PropertyRepository.
func NewPropertyRepo(db *gorm.DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepo) GetByID(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).
		Preload("Landlord").
		Where("property_id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepo) Update(ctx context.Context, property *model.Property) error {
	oldVersion := property.Version
	result := r.db.WithContext(ctx).
		Model(property).
		Where("property_id = ? AND version = ?", property.PropertyID, oldVersion).
		Updates(map[string]interface{}{
			"name":          property.Name,
			"address":       property.Address,
			"type":          property.Type,
			"units":         property.Units,
			"rent_per_unit": property.RentPerUnit,
			"status":        property.Status,
			"photos":        property.Photos,
			"updated_by":    property.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	property.Version = oldVersion + 1
	return nil
}

func (r *propertyRepo) List(ctx context.Context, filters *PropertyListFilters, offset, limit int) ([]model.Property, int64, error) {
	var properties []model.Property
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Property{})
	if filters != nil {
		if filters.LandlordID != "" {
			db = db.Where("landlord_id = ?", filters.LandlordID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Landlord").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

func (r *propertyRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("property_id = ?", id).
		Delete(&model.Property{}).Error
}
