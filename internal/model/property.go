package model

// Property statuses. "active" means occupied, "inactive" available;
// the value is derived from tenant assignment, never set directly.
const (
	PropertyOccupied  = "active"
	PropertyAvailable = "inactive"
)

// Property is a lettable unit owned by a landlord.
type Property struct {
	PropertyID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"property_id"`
	Name        string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Address     string      `gorm:"type:varchar(255);not null"                     json:"address"`
	Type        string      `gorm:"type:varchar(30);not null"                      json:"type"` // apartment | house | condo | ...
	LandlordID  string      `gorm:"type:uuid;not null"                             json:"landlord_id"`
	Units       int         `gorm:"not null;default:1"                             json:"units"`
	RentPerUnit float64     `gorm:"type:numeric(10,2);not null;default:0"          json:"rent_per_unit"`
	Status      string      `gorm:"type:varchar(20);not null;default:'inactive'"   json:"status"`
	Photos      StringArray `gorm:"type:text[];not null;default:'{}'"              json:"photos"`
	VersionedModel

	Landlord *Profile `gorm:"foreignKey:LandlordID;references:ProfileID" json:"landlord,omitempty"`
}

func (Property) TableName() string { return "properties" }
