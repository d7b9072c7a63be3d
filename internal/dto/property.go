package dto

// CreatePropertyRequest registers a new property.
type CreatePropertyRequest struct {
	Name        string   `json:"name"        binding:"required,min=2,max=100"`
	Address     string   `json:"address"     binding:"required,min=5,max=255"`
	Type        string   `json:"type"        binding:"required,oneof=apartment house condo studio other"`
	LandlordID  string   `json:"landlord_id" binding:"required,uuid"`
	Units       int      `json:"units"       binding:"omitempty,min=1"`
	RentPerUnit float64  `json:"rent_per_unit" binding:"omitempty,gte=0"`
	Photos      []string `json:"photos"`
}

// UpdatePropertyRequest edits property attributes. Status is derived
// from tenancy and cannot be set here.
type UpdatePropertyRequest struct {
	Name    *string  `json:"name"    binding:"omitempty,min=2,max=100"`
	Address *string  `json:"address" binding:"omitempty,min=5,max=255"`
	Type    *string  `json:"type"    binding:"omitempty,oneof=apartment house condo studio other"`
	Units   *int     `json:"units"   binding:"omitempty,min=1"`
	Photos  []string `json:"photos"`
}

// PropertyListRequest filters the property listing.
type PropertyListRequest struct {
	LandlordID string `form:"landlord_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=active inactive"`
	Page       int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// PropertyResponse is the public view of a property.
type PropertyResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Type        string   `json:"type"`
	LandlordID  string   `json:"landlord_id"`
	Units       int      `json:"units"`
	RentPerUnit float64  `json:"rent_per_unit"`
	Status      string   `json:"status"`
	Occupied    bool     `json:"occupied"`
	TenantName  string   `json:"tenant_name,omitempty"`
	Photos      []string `json:"photos"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
