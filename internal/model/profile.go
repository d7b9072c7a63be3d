package model

import "time"

// Profile roles.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAgent    = "agent"
)

// Tenant statuses. Empty for non-tenant profiles.
const (
	TenantActive   = "active"
	TenantInactive = "inactive"
)

// Profile is the shared identity row for tenants, landlords and
// agents, discriminated by Role. The tenancy columns are only
// populated for tenant rows.
type Profile struct {
	ProfileID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	Role         string `gorm:"type:varchar(20);not null"                      json:"role"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username     string `gorm:"type:varchar(50);not null;unique"               json:"username"`
	Email        string `gorm:"type:varchar(255);not null;unique"              json:"email"`
	Phone        string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`

	// tenancy (tenant rows only)
	PropertyID            *string    `gorm:"type:uuid"                        json:"property_id,omitempty"`
	LandlordID            *string    `gorm:"type:uuid"                        json:"landlord_id,omitempty"`
	LeaseStart            *time.Time `gorm:"type:date"                        json:"lease_start,omitempty"`
	LeaseEnd              *time.Time `gorm:"type:date"                        json:"lease_end,omitempty"`
	MonthlyRent           *float64   `gorm:"type:numeric(10,2)"               json:"monthly_rent,omitempty"`
	TenantStatus          string     `gorm:"type:varchar(20);not null;default:''" json:"tenant_status,omitempty"`
	EmergencyContactName  string     `gorm:"type:varchar(100)"                json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `gorm:"type:varchar(30)"                 json:"emergency_contact_phone,omitempty"`
	VersionedModel

	Property *Property `gorm:"foreignKey:PropertyID;references:PropertyID" json:"property,omitempty"`
	Landlord *Profile  `gorm:"foreignKey:LandlordID;references:ProfileID"  json:"landlord,omitempty"`
}

func (Profile) TableName() string { return "profiles" }

// IsActiveTenant reports whether this profile currently occupies a property.
func (p *Profile) IsActiveTenant() bool {
	return p.Role == RoleTenant && p.TenantStatus == TenantActive && p.PropertyID != nil
}
