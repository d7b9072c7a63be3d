package dto

// CreateWorkerRequest registers a new tradesperson.
type CreateWorkerRequest struct {
	Name        string `json:"name"      binding:"required,min=2,max=100"`
	Initials    string `json:"initials"  binding:"required,min=1,max=5"`
	Specialty   string `json:"specialty" binding:"omitempty,max=100"`
	Category    string `json:"category"  binding:"required,min=2,max=50"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// UpdateWorkerRequest edits worker attributes. Favorite has its own
// endpoint because it must clear the previous favorite first.
type UpdateWorkerRequest struct {
	Name        *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Initials    *string `json:"initials"  binding:"omitempty,min=1,max=5"`
	Specialty   *string `json:"specialty" binding:"omitempty,max=100"`
	Category    *string `json:"category"  binding:"omitempty,min=2,max=50"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

// SetFavoriteRequest toggles the per-category favorite flag.
type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// WorkerListRequest filters the worker listing.
type WorkerListRequest struct {
	Category string `form:"category"`
	Favorite *bool  `form:"favorite"`
}

// WorkerResponse is the public view of a worker.
type WorkerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Initials    string  `json:"initials"`
	Specialty   string  `json:"specialty,omitempty"`
	Category    string  `json:"category"`
	Phone       string  `json:"phone,omitempty"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`
	Favorite    bool    `json:"favorite"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
