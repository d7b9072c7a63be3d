package dto

// ProfileResponse is the public view of a profile row.
type ProfileResponse struct {
	ID                    string   `json:"id"`
	Role                  string   `json:"role"`
	Name                  string   `json:"name"`
	Username              string   `json:"username"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone,omitempty"`
	PropertyID            *string  `json:"property_id,omitempty"`
	PropertyName          string   `json:"property_name,omitempty"`
	LandlordID            *string  `json:"landlord_id,omitempty"`
	LeaseStart            string   `json:"lease_start,omitempty"`
	LeaseEnd              string   `json:"lease_end,omitempty"`
	MonthlyRent           *float64 `json:"monthly_rent,omitempty"`
	TenantStatus          string   `json:"tenant_status,omitempty"`
	EmergencyContactName  string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string   `json:"emergency_contact_phone,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

// TenantListRequest filters the tenant listing.
type TenantListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// AssignTenantRequest moves a tenant into a property.
type AssignTenantRequest struct {
	PropertyID  string  `json:"property_id"  binding:"required,uuid"`
	LeaseStart  string  `json:"lease_start"  binding:"required"` // 2006-01-02
	LeaseEnd    string  `json:"lease_end"    binding:"required"`
	MonthlyRent float64 `json:"monthly_rent" binding:"required,gt=0"`
}

// UpdateProfileRequest edits contact details.
type UpdateProfileRequest struct {
	Name                  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Phone                 *string `json:"phone"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}
