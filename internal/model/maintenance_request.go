package model

import "time"

// RequestStatus is the closed status enum of a maintenance request.
type RequestStatus string

const (
	StatusSubmitted       RequestStatus = "submitted"
	StatusClaimed         RequestStatus = "claimed"
	StatusQuoteSubmitted  RequestStatus = "quote_submitted"
	StatusPendingApproval RequestStatus = "pending_approval"
	StatusInProcess       RequestStatus = "in_process"
	StatusRejected        RequestStatus = "rejected"
	StatusCompleted       RequestStatus = "completed"
)

// transitions is the single authoritative transition table.
// Status strings are never written outside CanTransitionTo checks.
var transitions = map[RequestStatus][]RequestStatus{
	StatusSubmitted:       {StatusClaimed},
	StatusClaimed:         {StatusQuoteSubmitted},
	StatusQuoteSubmitted:  {StatusPendingApproval},
	StatusPendingApproval: {StatusInProcess, StatusRejected},
	StatusRejected:        {StatusQuoteSubmitted},
	StatusInProcess:       {StatusCompleted},
	StatusCompleted:       {}, // terminal
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s RequestStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Request priorities.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// MaintenanceRequest is a tenant-reported issue tracked from
// submission through quoting and approval to completion, at which
// point it becomes an invoice.
type MaintenanceRequest struct {
	RequestID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	TenantID         string  `gorm:"type:uuid;not null"                             json:"tenant_id"`
	AssignedWorkerID *string `gorm:"type:uuid"                                      json:"assigned_worker_id,omitempty"`
	ClaimedBy        *string `gorm:"type:uuid"                                      json:"claimed_by,omitempty"`

	Title       string        `gorm:"type:varchar(200);not null"                   json:"title"`
	Description string        `gorm:"type:text;not null"                           json:"description"`
	Category    string        `gorm:"type:varchar(50);not null"                    json:"category"`
	Subcategory string        `gorm:"type:varchar(50)"                             json:"subcategory,omitempty"`
	Priority    string        `gorm:"type:varchar(10);not null"                    json:"priority"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`

	Room               string      `gorm:"type:varchar(100)"                 json:"room,omitempty"`
	PreferredDate      *time.Time  `gorm:"type:date"                         json:"preferred_date,omitempty"`
	PreferredTimeSlots StringArray `gorm:"type:text[];not null;default:'{}'" json:"preferred_time_slots"`
	Photos             StringArray `gorm:"type:text[];not null;default:'{}'" json:"photos"`
	QuickFixes         StringArray `gorm:"type:text[];not null;default:'{}'" json:"quick_fixes"`

	// quote fields, set by the agent on the worker's behalf
	EstimatedCost    *float64 `gorm:"type:numeric(10,2)" json:"estimated_cost,omitempty"`
	EstimatedTime    *string  `gorm:"type:varchar(50)"   json:"estimated_time,omitempty"`
	QuoteDescription *string  `gorm:"type:text"          json:"quote_description,omitempty"`

	// completion fields
	AdditionalCost            float64  `gorm:"type:numeric(10,2);not null;default:0" json:"additional_cost"`
	AdditionalCostDescription string   `gorm:"type:text"                             json:"additional_cost_description,omitempty"`
	ActualCost                *float64 `gorm:"type:numeric(10,2)"                    json:"actual_cost,omitempty"`

	AgentNotes    StringArray `gorm:"type:text[];not null;default:'{}'" json:"agent_notes"`
	LandlordNotes string      `gorm:"type:text"                         json:"landlord_notes,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	VersionedModel

	Tenant *Profile `gorm:"foreignKey:TenantID;references:ProfileID"        json:"tenant,omitempty"`
	Worker *Worker  `gorm:"foreignKey:AssignedWorkerID;references:WorkerID" json:"worker,omitempty"`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// AppendAgentNote adds a timestamped line to the append-only agent log.
func (r *MaintenanceRequest) AppendAgentNote(at time.Time, agentID, note string) {
	r.AgentNotes = append(r.AgentNotes, at.UTC().Format(time.RFC3339)+" ["+agentID+"] "+note)
}

// ClearQuote wipes the worker quote fields. Used when a rejected
// request is handed to a different worker.
func (r *MaintenanceRequest) ClearQuote() {
	r.EstimatedCost = nil
	r.EstimatedTime = nil
	r.QuoteDescription = nil
}
