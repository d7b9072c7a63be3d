// Package queue publishes lifecycle events to an AMQP broker so
// notification channels can react without querying the database.
package queue

import "time"

// Event types emitted by the maintenance lifecycle.
const (
	EventRequestSubmitted = "request.submitted"
	EventRequestClaimed   = "request.claimed"
	EventWorkerAssigned   = "request.worker_assigned"
	EventQuotePending     = "quote.pending_approval"
	EventQuoteApproved    = "quote.approved"
	EventQuoteRejected    = "quote.rejected"
	EventRequestCompleted = "request.completed"
)

// RequestEvent is the payload published on every lifecycle transition.
type RequestEvent struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	TenantID   string    `json:"tenant_id"`
	WorkerID   string    `json:"worker_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	Status     string    `json:"status"`
	Title      string    `json:"title"`
	ActualCost float64   `json:"actual_cost,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
