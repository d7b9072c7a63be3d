package dto

// SubmitRequestRequest opens a new maintenance request (tenant).
type SubmitRequestRequest struct {
	Title              string   `json:"title"       binding:"required,min=3,max=200"`
	Description        string   `json:"description" binding:"required,min=3"`
	Category           string   `json:"category"    binding:"required,min=2,max=50"`
	Subcategory        string   `json:"subcategory" binding:"omitempty,max=50"`
	Priority           string   `json:"priority"    binding:"required,oneof=urgent high medium low"`
	Room               string   `json:"room"`
	PreferredDate      string   `json:"preferred_date"` // 2006-01-02
	PreferredTimeSlots []string `json:"preferred_time_slots"`
	Photos             []string `json:"photos"`
	QuickFixes         []string `json:"quick_fixes"`
}

// AssignWorkerRequest hands the ticket to a specific worker (agent).
type AssignWorkerRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
}

// SubmitQuoteRequest records the worker's cost estimate (agent).
type SubmitQuoteRequest struct {
	EstimatedCost    float64 `json:"estimated_cost" binding:"required,gt=0"`
	EstimatedTime    string  `json:"estimated_time" binding:"omitempty,max=50"`
	QuoteDescription string  `json:"quote_description"`
}

// RejectQuoteRequest declines a quote with a reason (landlord).
type RejectQuoteRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// CompleteRequestRequest finalizes the work (agent).
type CompleteRequestRequest struct {
	AdditionalCost            float64 `json:"additional_cost" binding:"omitempty,gte=0"`
	AdditionalCostDescription string  `json:"additional_cost_description"`
}

// RateWorkerRequest records a 1-5 star review (tenant or landlord).
type RateWorkerRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RequestListRequest filters the maintenance-request listing.
type RequestListRequest struct {
	Status   string `form:"status"   binding:"omitempty,oneof=submitted claimed quote_submitted pending_approval in_process rejected completed"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// MaintenanceRequestResponse is the public view of a request.
type MaintenanceRequestResponse struct {
	ID                 string   `json:"id"`
	TenantID           string   `json:"tenant_id"`
	TenantName         string   `json:"tenant_name,omitempty"`
	AssignedWorkerID   *string  `json:"assigned_worker_id,omitempty"`
	WorkerName         string   `json:"worker_name,omitempty"`
	ClaimedBy          *string  `json:"claimed_by,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Subcategory        string   `json:"subcategory,omitempty"`
	Priority           string   `json:"priority"`
	Status             string   `json:"status"`
	Room               string   `json:"room,omitempty"`
	PreferredDate      string   `json:"preferred_date,omitempty"`
	PreferredTimeSlots []string `json:"preferred_time_slots,omitempty"`
	Photos             []string `json:"photos,omitempty"`
	QuickFixes         []string `json:"quick_fixes,omitempty"`
	EstimatedCost      *float64 `json:"estimated_cost,omitempty"`
	EstimatedTime      *string  `json:"estimated_time,omitempty"`
	QuoteDescription   *string  `json:"quote_description,omitempty"`
	AdditionalCost     float64  `json:"additional_cost"`
	ActualCost         *float64 `json:"actual_cost,omitempty"`
	AgentNotes         []string `json:"agent_notes,omitempty"`
	LandlordNotes      string   `json:"landlord_notes,omitempty"`
	CompletedAt        string   `json:"completed_at,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// InvoiceResponse is the invoice view of a completed request.
type InvoiceResponse struct {
	RequestID    string  `json:"request_id"`
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	TenantName   string  `json:"tenant_name"`
	PropertyName string  `json:"property_name,omitempty"`
	WorkerName   string  `json:"worker_name,omitempty"`
	Amount       float64 `json:"amount"`
	CompletedAt  string  `json:"completed_at"`
}
