package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/queue"
	"propertycare/backend/internal/repository"
)

// ── lifecycle errors ──

var (
	ErrRequestNotFound      = errors.New("maintenance request not found")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrAlreadyClaimed       = errors.New("request has already been claimed")
	ErrCategoryMismatch     = errors.New("worker category does not match the request")
	ErrNoWorkerInCategory   = errors.New("no worker available in this category")
	ErrQuoteCostRequired    = errors.New("estimated cost must be greater than zero")
	ErrRejectReasonRequired = errors.New("a rejection reason is required")
	ErrNotRequestOwner      = errors.New("request belongs to a different tenant")
	ErrNotRequestLandlord   = errors.New("request belongs to a different landlord")
	ErrNotCompleted         = errors.New("request is not completed yet")
	ErrNoQuoteToApprove     = errors.New("request has no quote on file")
	ErrInvalidDate          = errors.New("date must use the YYYY-MM-DD format")
)

// MaintenanceService is the single authority over the request
// lifecycle. Every status change goes through applyTransition; no
// other code writes status values.
type MaintenanceService interface {
	Submit(ctx context.Context, tenantID string, req *dto.SubmitRequestRequest) (*dto.MaintenanceRequestResponse, error)
	Claim(ctx context.Context, requestID, agentID string) (*dto.MaintenanceRequestResponse, error)
	AssignWorker(ctx context.Context, requestID, workerID, agentID string) (*dto.MaintenanceRequestResponse, error)
	// QuickAssign picks the favorite worker in the request's category,
	// falling back to the highest-rated match.
	QuickAssign(ctx context.Context, requestID, agentID string) (*dto.MaintenanceRequestResponse, error)
	SubmitQuote(ctx context.Context, requestID string, req *dto.SubmitQuoteRequest, agentID string) (*dto.MaintenanceRequestResponse, error)
	Approve(ctx context.Context, requestID, landlordID string) (*dto.MaintenanceRequestResponse, error)
	Reject(ctx context.Context, requestID, reason, landlordID string) (*dto.MaintenanceRequestResponse, error)
	Complete(ctx context.Context, requestID string, req *dto.CompleteRequestRequest, agentID string) (*dto.MaintenanceRequestResponse, error)
	// Rate upserts a worker review on a completed request and refreshes
	// the worker's average rating.
	Rate(ctx context.Context, requestID, raterID, raterRole string, req *dto.RateWorkerRequest) error
	// GetByID returns a single request, scoped to the actor: tenants may
	// only read their own tickets, landlords their tenants' tickets.
	GetByID(ctx context.Context, requestID, actorID, actorRole string) (*dto.MaintenanceRequestResponse, error)
	// List scopes results by role: tenants see their own requests,
	// landlords their tenants' requests, agents everything.
	List(ctx context.Context, actorID, actorRole string, req *dto.RequestListRequest) ([]dto.MaintenanceRequestResponse, int64, error)
	ListInvoices(ctx context.Context, actorID, actorRole string) ([]dto.InvoiceResponse, error)
}

type maintenanceService struct {
	repo   *repository.Repository
	events EventPublisher
	logger *zap.Logger
}

// NewMaintenanceService creates the MaintenanceService.
func NewMaintenanceService(repo *repository.Repository, events EventPublisher, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{repo: repo, events: events, logger: logger}
}

// applyTransition validates the move against the transition table.
func (s *maintenanceService) applyTransition(r *model.MaintenanceRequest, next model.RequestStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	return nil
}

// ────────────────────── Submit ──────────────────────

func (s *maintenanceService) Submit(ctx context.Context, tenantID string, req *dto.SubmitRequestRequest) (*dto.MaintenanceRequestResponse, error) {
	request := &model.MaintenanceRequest{
		TenantID:           tenantID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Subcategory:        req.Subcategory,
		Priority:           req.Priority,
		Status:             model.StatusSubmitted,
		Room:               req.Room,
		PreferredTimeSlots: req.PreferredTimeSlots,
		Photos:             req.Photos,
		QuickFixes:         req.QuickFixes,
		AgentNotes:         model.StringArray{},
	}
	if req.PreferredDate != "" {
		d, err := time.Parse("2006-01-02", req.PreferredDate)
		if err != nil {
			return nil, fmt.Errorf("%w: preferred_date %q", ErrInvalidDate, req.PreferredDate)
		}
		request.PreferredDate = &d
	}
	request.CreatedBy = &tenantID
	request.UpdatedBy = &tenantID

	if err := s.repo.MaintenanceRequest.Create(ctx, request); err != nil {
		s.logger.Error("create request failed", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventRequestSubmitted, request, tenantID)

	return toRequestResponse(request), nil
}

// ────────────────────── Claim ──────────────────────

func (s *maintenanceService) Claim(ctx context.Context, requestID, agentID string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ClaimedBy != nil {
		return nil, ErrAlreadyClaimed
	}
	if err := s.applyTransition(request, model.StatusClaimed); err != nil {
		return nil, err
	}

	request.ClaimedBy = &agentID
	request.AppendAgentNote(time.Now(), agentID, "claimed")
	request.UpdatedBy = &agentID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("claim request failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventRequestClaimed, request, agentID)

	return toRequestResponse(request), nil
}

// ────────────────────── AssignWorker ──────────────────────

func (s *maintenanceService) AssignWorker(ctx context.Context, requestID, workerID, agentID string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("lookup worker failed", zap.String("id", workerID), zap.Error(err))
		return nil, err
	}

	if !model.CategoriesMatch(worker.Category, request.Category) {
		return nil, ErrCategoryMismatch
	}

	return s.assign(ctx, request, worker, agentID)
}

// ────────────────────── QuickAssign ──────────────────────

func (s *maintenanceService) QuickAssign(ctx context.Context, requestID, agentID string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	workers, err := s.repo.Worker.List(ctx)
	if err != nil {
		s.logger.Error("list workers failed", zap.Error(err))
		return nil, err
	}

	var matches []model.Worker
	for _, w := range workers {
		if model.CategoriesMatch(w.Category, request.Category) {
			matches = append(matches, w)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoWorkerInCategory
	}

	// Favorite first; otherwise highest rating, then name. List order
	// from the store is never relied on.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Favorite != matches[j].Favorite {
			return matches[i].Favorite
		}
		if matches[i].Rating != matches[j].Rating {
			return matches[i].Rating > matches[j].Rating
		}
		return matches[i].Name < matches[j].Name
	})

	return s.assign(ctx, request, &matches[0], agentID)
}

// assign is the shared tail of AssignWorker and QuickAssign.
func (s *maintenanceService) assign(ctx context.Context, request *model.MaintenanceRequest, worker *model.Worker, agentID string) (*dto.MaintenanceRequestResponse, error) {
	reassignment := request.Status == model.StatusRejected

	if err := s.applyTransition(request, model.StatusQuoteSubmitted); err != nil {
		return nil, err
	}

	if reassignment {
		// Stale quote data from the rejected worker must not leak into
		// the new quote.
		request.ClearQuote()
	}

	request.AssignedWorkerID = &worker.WorkerID
	request.AppendAgentNote(time.Now(), agentID, "assigned worker "+worker.Name)
	request.UpdatedBy = &agentID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("assign worker failed", zap.String("id", request.RequestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventWorkerAssigned, request, agentID)

	request.Worker = worker
	return toRequestResponse(request), nil
}

// ────────────────────── SubmitQuote ──────────────────────

func (s *maintenanceService) SubmitQuote(ctx context.Context, requestID string, req *dto.SubmitQuoteRequest, agentID string) (*dto.MaintenanceRequestResponse, error) {
	if req.EstimatedCost <= 0 {
		return nil, ErrQuoteCostRequired
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.applyTransition(request, model.StatusPendingApproval); err != nil {
		return nil, err
	}

	request.EstimatedCost = &req.EstimatedCost
	if req.EstimatedTime != "" {
		request.EstimatedTime = &req.EstimatedTime
	}
	if req.QuoteDescription != "" {
		request.QuoteDescription = &req.QuoteDescription
	}
	request.AppendAgentNote(time.Now(), agentID, fmt.Sprintf("quote submitted: %.2f", req.EstimatedCost))
	request.UpdatedBy = &agentID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("submit quote failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventQuotePending, request, agentID)

	return toRequestResponse(request), nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *maintenanceService) Approve(ctx context.Context, requestID, landlordID string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLandlord(request, landlordID); err != nil {
		return nil, err
	}
	if request.EstimatedCost == nil {
		return nil, ErrNoQuoteToApprove
	}

	if err := s.applyTransition(request, model.StatusInProcess); err != nil {
		return nil, err
	}
	request.UpdatedBy = &landlordID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("approve quote failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventQuoteApproved, request, landlordID)

	return toRequestResponse(request), nil
}

func (s *maintenanceService) Reject(ctx context.Context, requestID, reason, landlordID string) (*dto.MaintenanceRequestResponse, error) {
	if reason == "" {
		return nil, ErrRejectReasonRequired
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLandlord(request, landlordID); err != nil {
		return nil, err
	}

	if err := s.applyTransition(request, model.StatusRejected); err != nil {
		return nil, err
	}
	request.LandlordNotes = reason
	request.UpdatedBy = &landlordID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("reject quote failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventQuoteRejected, request, landlordID)

	return toRequestResponse(request), nil
}

// ────────────────────── Complete ──────────────────────

func (s *maintenanceService) Complete(ctx context.Context, requestID string, req *dto.CompleteRequestRequest, agentID string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.EstimatedCost == nil {
		return nil, ErrNoQuoteToApprove
	}

	if err := s.applyTransition(request, model.StatusCompleted); err != nil {
		return nil, err
	}

	// completed_at and actual_cost are written here and nowhere else.
	now := time.Now()
	actual := *request.EstimatedCost + req.AdditionalCost
	request.CompletedAt = &now
	request.ActualCost = &actual
	request.AdditionalCost = req.AdditionalCost
	request.AdditionalCostDescription = req.AdditionalCostDescription
	request.AppendAgentNote(now, agentID, fmt.Sprintf("completed, actual cost %.2f", actual))
	request.UpdatedBy = &agentID

	if err := s.repo.MaintenanceRequest.Update(ctx, request); err != nil {
		s.logger.Error("complete request failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, queue.EventRequestCompleted, request, agentID)

	return toRequestResponse(request), nil
}

// ────────────────────── Rate ──────────────────────

func (s *maintenanceService) Rate(ctx context.Context, requestID, raterID, raterRole string, req *dto.RateWorkerRequest) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if request.Status != model.StatusCompleted {
		return ErrNotCompleted
	}
	if request.AssignedWorkerID == nil {
		return ErrWorkerNotFound
	}

	var raterType string
	switch raterRole {
	case model.RoleTenant:
		if request.TenantID != raterID {
			return ErrNotRequestOwner
		}
		raterType = model.RaterTenant
	case model.RoleLandlord:
		if err := s.checkLandlord(request, raterID); err != nil {
			return err
		}
		raterType = model.RaterLandlord
	default:
		return ErrNotRequestOwner
	}

	rating := &model.WorkerRating{
		RequestID: requestID,
		WorkerID:  *request.AssignedWorkerID,
		RaterID:   raterID,
		RaterType: raterType,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.WorkerRating.Upsert(ctx, rating); err != nil {
		s.logger.Error("upsert rating failed", zap.String("request_id", requestID), zap.Error(err))
		return err
	}

	return s.refreshWorkerRating(ctx, *request.AssignedWorkerID, raterID)
}

// refreshWorkerRating recomputes the worker's average from all stored
// reviews.
func (s *maintenanceService) refreshWorkerRating(ctx context.Context, workerID, callerID string) error {
	ratings, err := s.repo.WorkerRating.ListByWorker(ctx, workerID)
	if err != nil {
		return err
	}
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		return err
	}

	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	if len(ratings) > 0 {
		worker.Rating = float64(sum) / float64(len(ratings))
	} else {
		worker.Rating = 0
	}
	worker.UpdatedBy = &callerID

	return s.repo.Worker.Update(ctx, worker)
}

// ────────────────────── Queries ──────────────────────

func (s *maintenanceService) GetByID(ctx context.Context, requestID, actorID, actorRole string) (*dto.MaintenanceRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case model.RoleTenant:
		if request.TenantID != actorID {
			return nil, ErrNotRequestOwner
		}
	case model.RoleLandlord:
		if err := s.checkLandlord(request, actorID); err != nil {
			return nil, err
		}
	}

	return toRequestResponse(request), nil
}

func (s *maintenanceService) List(ctx context.Context, actorID, actorRole string, req *dto.RequestListRequest) ([]dto.MaintenanceRequestResponse, int64, error) {
	filters := &repository.RequestListFilters{
		Status:   model.RequestStatus(req.Status),
		Category: req.Category,
	}
	switch actorRole {
	case model.RoleTenant:
		filters.TenantID = actorID
	case model.RoleLandlord:
		filters.LandlordID = actorID
	}

	offset := (req.Page - 1) * req.PageSize
	requests, total, err := s.repo.MaintenanceRequest.List(ctx, filters, offset, req.PageSize)
	if err != nil {
		s.logger.Error("list requests failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MaintenanceRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toRequestResponse(&requests[i]))
	}
	return result, total, nil
}

func (s *maintenanceService) ListInvoices(ctx context.Context, actorID, actorRole string) ([]dto.InvoiceResponse, error) {
	landlordID := ""
	if actorRole == model.RoleLandlord {
		landlordID = actorID
	}

	requests, err := s.repo.MaintenanceRequest.ListCompleted(ctx, landlordID)
	if err != nil {
		s.logger.Error("list invoices failed", zap.Error(err))
		return nil, err
	}

	invoices := make([]dto.InvoiceResponse, 0, len(requests))
	for i := range requests {
		invoices = append(invoices, toInvoiceResponse(&requests[i]))
	}
	return invoices, nil
}

// ── helpers ──

func (s *maintenanceService) getRequest(ctx context.Context, requestID string) (*model.MaintenanceRequest, error) {
	request, err := s.repo.MaintenanceRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("lookup request failed", zap.String("id", requestID), zap.Error(err))
		return nil, err
	}
	return request, nil
}

// checkLandlord verifies the acting landlord owns the request via the
// tenant -> landlord chain.
func (s *maintenanceService) checkLandlord(request *model.MaintenanceRequest, landlordID string) error {
	if request.Tenant == nil || request.Tenant.LandlordID == nil || *request.Tenant.LandlordID != landlordID {
		return ErrNotRequestLandlord
	}
	return nil
}

// publish emits a lifecycle event, best effort.
func (s *maintenanceService) publish(ctx context.Context, eventType string, request *model.MaintenanceRequest, actorID string) {
	if s.events == nil {
		return
	}
	event := queue.RequestEvent{
		Type:       eventType,
		RequestID:  request.RequestID,
		TenantID:   request.TenantID,
		ActorID:    actorID,
		Status:     string(request.Status),
		Title:      request.Title,
		OccurredAt: time.Now().UTC(),
	}
	if request.AssignedWorkerID != nil {
		event.WorkerID = *request.AssignedWorkerID
	}
	if request.ActualCost != nil {
		event.ActualCost = *request.ActualCost
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish lifecycle event failed", zap.String("type", eventType), zap.Error(err))
	}
}

func toRequestResponse(r *model.MaintenanceRequest) *dto.MaintenanceRequestResponse {
	resp := &dto.MaintenanceRequestResponse{
		ID:                 r.RequestID,
		TenantID:           r.TenantID,
		AssignedWorkerID:   r.AssignedWorkerID,
		ClaimedBy:          r.ClaimedBy,
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Subcategory:        r.Subcategory,
		Priority:           r.Priority,
		Status:             string(r.Status),
		Room:               r.Room,
		PreferredTimeSlots: r.PreferredTimeSlots,
		Photos:             r.Photos,
		QuickFixes:         r.QuickFixes,
		EstimatedCost:      r.EstimatedCost,
		EstimatedTime:      r.EstimatedTime,
		QuoteDescription:   r.QuoteDescription,
		AdditionalCost:     r.AdditionalCost,
		ActualCost:         r.ActualCost,
		AgentNotes:         r.AgentNotes,
		LandlordNotes:      r.LandlordNotes,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PreferredDate != nil {
		resp.PreferredDate = r.PreferredDate.Format("2006-01-02")
	}
	if r.CompletedAt != nil {
		resp.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	if r.Tenant != nil {
		resp.TenantName = r.Tenant.Name
	}
	if r.Worker != nil {
		resp.WorkerName = r.Worker.Name
	}
	return resp
}

func toInvoiceResponse(r *model.MaintenanceRequest) dto.InvoiceResponse {
	inv := dto.InvoiceResponse{
		RequestID: r.RequestID,
		Title:     r.Title,
		Category:  r.Category,
	}
	if r.ActualCost != nil {
		inv.Amount = *r.ActualCost
	}
	if r.CompletedAt != nil {
		inv.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	if r.Tenant != nil {
		inv.TenantName = r.Tenant.Name
		if r.Tenant.Property != nil {
			inv.PropertyName = r.Tenant.Property.Name
		}
	}
	if r.Worker != nil {
		inv.WorkerName = r.Worker.Name
	}
	return inv
}
