package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	"propertycare/backend/internal/queue"
	"propertycare/backend/internal/repository"
	pkgerrors "propertycare/backend/pkg/errors"
)

// memStore backs the in-memory repository mocks used by the service
// tests. Reads hand out copies so state only changes through Update,
// and Update enforces the optimistic-lock version like the real repos.
type memStore struct {
	profiles   map[string]*model.Profile
	properties map[string]*model.Property
	workers    map[string]*model.Worker
	requests   map[string]*model.MaintenanceRequest
	ratings    map[string]*model.WorkerRating // request_id|rater_id
}

func newMemRepository() (*repository.Repository, *memStore) {
	store := &memStore{
		profiles:   make(map[string]*model.Profile),
		properties: make(map[string]*model.Property),
		workers:    make(map[string]*model.Worker),
		requests:   make(map[string]*model.MaintenanceRequest),
		ratings:    make(map[string]*model.WorkerRating),
	}
	return &repository.Repository{
		Profile:            &mockProfileRepo{store},
		Property:           &mockPropertyRepo{store},
		Worker:             &mockWorkerRepo{store},
		MaintenanceRequest: &mockRequestRepo{store},
		WorkerRating:       &mockRatingRepo{store},
	}, store
}

// capturePublisher records lifecycle events for assertions.
type capturePublisher struct {
	events []queue.RequestEvent
}

func (p *capturePublisher) Publish(_ context.Context, event queue.RequestEvent) error {
	p.events = append(p.events, event)
	return nil
}

// ── profiles ──

type mockProfileRepo struct{ s *memStore }

func (r *mockProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if profile.ProfileID == "" {
		profile.ProfileID = uuid.New().String()
	}
	cp := *profile
	r.s.profiles[profile.ProfileID] = &cp
	return nil
}

func (r *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	if cp.PropertyID != nil {
		if prop, ok := r.s.properties[*cp.PropertyID]; ok {
			pc := *prop
			cp.Property = &pc
		}
	}
	return &cp, nil
}

func (r *mockProfileRepo) GetByUsername(_ context.Context, username string) (*model.Profile, error) {
	for _, p := range r.s.profiles {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range r.s.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	current, ok := r.s.profiles[profile.ProfileID]
	if !ok || current.Version != profile.Version {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version++
	cp := *profile
	cp.Property = nil
	cp.Landlord = nil
	r.s.profiles[profile.ProfileID] = &cp
	return nil
}

func (r *mockProfileRepo) List(_ context.Context, filters *repository.ProfileListFilters, offset, limit int) ([]model.Profile, int64, error) {
	var result []model.Profile
	for _, p := range r.s.profiles {
		if filters != nil {
			if filters.Role != "" && p.Role != filters.Role {
				continue
			}
			if filters.TenantStatus != "" && p.TenantStatus != filters.TenantStatus {
				continue
			}
			if filters.PropertyID != "" && (p.PropertyID == nil || *p.PropertyID != filters.PropertyID) {
				continue
			}
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if offset > len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *mockProfileRepo) ListActiveTenantsByProperty(_ context.Context, propertyID string) ([]model.Profile, error) {
	var result []model.Profile
	for _, p := range r.s.profiles {
		if p.Role == model.RoleTenant && p.TenantStatus == model.TenantActive &&
			p.PropertyID != nil && *p.PropertyID == propertyID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *mockProfileRepo) Delete(_ context.Context, id string) error {
	delete(r.s.profiles, id)
	return nil
}

// ── properties ──

type mockPropertyRepo struct{ s *memStore }

func (r *mockPropertyRepo) Create(_ context.Context, property *model.Property) error {
	if property.PropertyID == "" {
		property.PropertyID = uuid.New().String()
	}
	cp := *property
	r.s.properties[property.PropertyID] = &cp
	return nil
}

func (r *mockPropertyRepo) GetByID(_ context.Context, id string) (*model.Property, error) {
	p, ok := r.s.properties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *mockPropertyRepo) Update(_ context.Context, property *model.Property) error {
	current, ok := r.s.properties[property.PropertyID]
	if !ok || current.Version != property.Version {
		return pkgerrors.ErrOptimisticLock
	}
	property.Version++
	cp := *property
	cp.Landlord = nil
	r.s.properties[property.PropertyID] = &cp
	return nil
}

func (r *mockPropertyRepo) List(_ context.Context, filters *repository.PropertyListFilters, offset, limit int) ([]model.Property, int64, error) {
	var result []model.Property
	for _, p := range r.s.properties {
		if filters != nil {
			if filters.LandlordID != "" && p.LandlordID != filters.LandlordID {
				continue
			}
			if filters.Status != "" && p.Status != filters.Status {
				continue
			}
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if offset > len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *mockPropertyRepo) Delete(_ context.Context, id string) error {
	delete(r.s.properties, id)
	return nil
}

// ── workers ──

type mockWorkerRepo struct{ s *memStore }

func (r *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if worker.WorkerID == "" {
		worker.WorkerID = uuid.New().String()
	}
	cp := *worker
	r.s.workers[worker.WorkerID] = &cp
	return nil
}

func (r *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	w, ok := r.s.workers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *mockWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	current, ok := r.s.workers[worker.WorkerID]
	if !ok || current.Version != worker.Version {
		return pkgerrors.ErrOptimisticLock
	}
	worker.Version++
	cp := *worker
	r.s.workers[worker.WorkerID] = &cp
	return nil
}

func (r *mockWorkerRepo) List(_ context.Context) ([]model.Worker, error) {
	var result []model.Worker
	for _, w := range r.s.workers {
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *mockWorkerRepo) Delete(_ context.Context, id string) error {
	delete(r.s.workers, id)
	return nil
}

// ── maintenance requests ──

type mockRequestRepo struct{ s *memStore }

func (r *mockRequestRepo) Create(_ context.Context, request *model.MaintenanceRequest) error {
	if request.RequestID == "" {
		request.RequestID = uuid.New().String()
	}
	cp := *request
	r.s.requests[request.RequestID] = &cp
	return nil
}

func (r *mockRequestRepo) GetByID(_ context.Context, id string) (*model.MaintenanceRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withAssociations(req), nil
}

func (r *mockRequestRepo) withAssociations(req *model.MaintenanceRequest) *model.MaintenanceRequest {
	cp := *req
	if tenant, ok := r.s.profiles[cp.TenantID]; ok {
		tc := *tenant
		if tc.PropertyID != nil {
			if prop, ok := r.s.properties[*tc.PropertyID]; ok {
				pc := *prop
				tc.Property = &pc
			}
		}
		cp.Tenant = &tc
	}
	if cp.AssignedWorkerID != nil {
		if worker, ok := r.s.workers[*cp.AssignedWorkerID]; ok {
			wc := *worker
			cp.Worker = &wc
		}
	}
	return &cp
}

func (r *mockRequestRepo) Update(_ context.Context, request *model.MaintenanceRequest) error {
	current, ok := r.s.requests[request.RequestID]
	if !ok || current.Version != request.Version {
		return pkgerrors.ErrOptimisticLock
	}
	request.Version++
	cp := *request
	cp.Tenant = nil
	cp.Worker = nil
	r.s.requests[request.RequestID] = &cp
	return nil
}

func (r *mockRequestRepo) List(_ context.Context, filters *repository.RequestListFilters, offset, limit int) ([]model.MaintenanceRequest, int64, error) {
	var result []model.MaintenanceRequest
	for _, req := range r.s.requests {
		if filters != nil {
			if filters.TenantID != "" && req.TenantID != filters.TenantID {
				continue
			}
			if filters.LandlordID != "" {
				tenant, ok := r.s.profiles[req.TenantID]
				if !ok || tenant.LandlordID == nil || *tenant.LandlordID != filters.LandlordID {
					continue
				}
			}
			if filters.WorkerID != "" && (req.AssignedWorkerID == nil || *req.AssignedWorkerID != filters.WorkerID) {
				continue
			}
			if filters.Status != "" && req.Status != filters.Status {
				continue
			}
			if filters.Category != "" && req.Category != filters.Category {
				continue
			}
		}
		result = append(result, *r.withAssociations(req))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	total := int64(len(result))
	if offset > len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *mockRequestRepo) ListCompleted(_ context.Context, landlordID string) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, req := range r.s.requests {
		if req.Status != model.StatusCompleted {
			continue
		}
		if landlordID != "" {
			tenant, ok := r.s.profiles[req.TenantID]
			if !ok || tenant.LandlordID == nil || *tenant.LandlordID != landlordID {
				continue
			}
		}
		result = append(result, *r.withAssociations(req))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, nil
}

func (r *mockRequestRepo) ListByWorker(_ context.Context, workerID string) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, req := range r.s.requests {
		if req.AssignedWorkerID == nil || *req.AssignedWorkerID != workerID {
			continue
		}
		if req.Status == model.StatusCompleted || req.Status == model.StatusRejected {
			continue
		}
		result = append(result, *r.withAssociations(req))
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].PreferredDate, result[j].PreferredDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return result, nil
}

func (r *mockRequestRepo) CountByWorker(_ context.Context, workerID string) (int64, error) {
	var count int64
	for _, req := range r.s.requests {
		if req.AssignedWorkerID != nil && *req.AssignedWorkerID == workerID {
			count++
		}
	}
	return count, nil
}

func (r *mockRequestRepo) DeleteByTenant(_ context.Context, tenantID string) error {
	for id, req := range r.s.requests {
		if req.TenantID == tenantID {
			delete(r.s.requests, id)
		}
	}
	return nil
}

// ── worker ratings ──

type mockRatingRepo struct{ s *memStore }

func ratingKey(requestID, raterID string) string {
	return requestID + "|" + raterID
}

func (r *mockRatingRepo) Upsert(_ context.Context, rating *model.WorkerRating) error {
	if rating.RatingID == "" {
		rating.RatingID = uuid.New().String()
	}
	cp := *rating
	r.s.ratings[ratingKey(rating.RequestID, rating.RaterID)] = &cp
	return nil
}

func (r *mockRatingRepo) GetByRequestAndRater(_ context.Context, requestID, raterID string) (*model.WorkerRating, error) {
	rt, ok := r.s.ratings[ratingKey(requestID, raterID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *mockRatingRepo) ListByWorker(_ context.Context, workerID string) ([]model.WorkerRating, error) {
	var result []model.WorkerRating
	for _, rt := range r.s.ratings {
		if rt.WorkerID == workerID {
			result = append(result, *rt)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.Compare(result[i].RatingID, result[j].RatingID) < 0
	})
	return result, nil
}

func (r *mockRatingRepo) DeleteByRater(_ context.Context, raterID string) error {
	for key, rt := range r.s.ratings {
		if rt.RaterID == raterID {
			delete(r.s.ratings, key)
		}
	}
	return nil
}
