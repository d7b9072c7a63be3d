package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
)

type tenancyFixture struct {
	svc      TenancyService
	repo     *repository.Repository
	store    *memStore
	landlord *model.Profile
	tenant   *model.Profile
	property *model.Property
	agentID  string
}

func newTenancyFixture(t *testing.T) *tenancyFixture {
	t.Helper()
	repo, store := newMemRepository()
	ctx := context.Background()

	landlord := &model.Profile{Role: model.RoleLandlord, Name: "Lana Landlord", Username: "lana", Email: "lana@example.com"}
	if err := repo.Profile.Create(ctx, landlord); err != nil {
		t.Fatalf("create landlord: %v", err)
	}

	tenant := &model.Profile{Role: model.RoleTenant, Name: "Tom Tenant", Username: "tom", Email: "tom@example.com", TenantStatus: model.TenantInactive}
	if err := repo.Profile.Create(ctx, tenant); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	property := &model.Property{
		Name: "12 Rose Lane", Address: "12 Rose Lane, Bristol", Type: "house",
		LandlordID: landlord.ProfileID, Units: 1, Status: model.PropertyAvailable,
	}
	if err := repo.Property.Create(ctx, property); err != nil {
		t.Fatalf("create property: %v", err)
	}

	return &tenancyFixture{
		svc:      NewTenancyService(repo, zap.NewNop()),
		repo:     repo,
		store:    store,
		landlord: landlord,
		tenant:   tenant,
		property: property,
		agentID:  "00000000-0000-0000-0000-00000000a9e1",
	}
}

func (f *tenancyFixture) assign(t *testing.T, tenantID string) {
	t.Helper()
	_, err := f.svc.AssignTenant(context.Background(), tenantID, &dto.AssignTenantRequest{
		PropertyID:  f.property.PropertyID,
		LeaseStart:  "2026-09-01",
		LeaseEnd:    "2027-08-31",
		MonthlyRent: 1250,
	}, f.agentID)
	if err != nil {
		t.Fatalf("assign tenant: %v", err)
	}
}

func TestAssignTenantLinksPropertyAndLandlord(t *testing.T) {
	f := newTenancyFixture(t)
	f.assign(t, f.tenant.ProfileID)

	stored := f.store.profiles[f.tenant.ProfileID]
	if stored.PropertyID == nil || *stored.PropertyID != f.property.PropertyID {
		t.Fatalf("property_id = %v, want assigned property", stored.PropertyID)
	}
	if stored.LandlordID == nil || *stored.LandlordID != f.landlord.ProfileID {
		t.Errorf("landlord_id = %v, want the property's landlord", stored.LandlordID)
	}
	if stored.TenantStatus != model.TenantActive {
		t.Errorf("tenant_status = %q, want active", stored.TenantStatus)
	}
	if stored.MonthlyRent == nil || *stored.MonthlyRent != 1250 {
		t.Errorf("monthly_rent = %v, want 1250", stored.MonthlyRent)
	}
	if stored.LeaseStart == nil || stored.LeaseEnd == nil {
		t.Error("lease dates not recorded")
	}

	prop := f.store.properties[f.property.PropertyID]
	if prop.Status != model.PropertyOccupied {
		t.Errorf("property status = %q, want occupied", prop.Status)
	}
	if prop.RentPerUnit != 1250 {
		t.Errorf("rent_per_unit = %v, want the occupant's rent", prop.RentPerUnit)
	}
}

func TestAssignOccupiedPropertyNamesOccupant(t *testing.T) {
	f := newTenancyFixture(t)
	ctx := context.Background()
	f.assign(t, f.tenant.ProfileID)

	second := &model.Profile{Role: model.RoleTenant, Name: "Nia New", Username: "nia", Email: "nia@example.com", TenantStatus: model.TenantInactive}
	if err := f.repo.Profile.Create(ctx, second); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	_, err := f.svc.AssignTenant(ctx, second.ProfileID, &dto.AssignTenantRequest{
		PropertyID: f.property.PropertyID, LeaseStart: "2026-10-01", LeaseEnd: "2027-09-30", MonthlyRent: 1300,
	}, f.agentID)
	if !errors.Is(err, ErrPropertyOccupied) {
		t.Fatalf("err = %v, want ErrPropertyOccupied", err)
	}
	if !strings.Contains(err.Error(), "Tom Tenant") {
		t.Errorf("error %q does not name the occupant", err.Error())
	}
}

func TestReassignSameTenantIsAllowed(t *testing.T) {
	f := newTenancyFixture(t)
	f.assign(t, f.tenant.ProfileID)

	// Updating the incumbent's lease is not an occupancy conflict.
	_, err := f.svc.AssignTenant(context.Background(), f.tenant.ProfileID, &dto.AssignTenantRequest{
		PropertyID: f.property.PropertyID, LeaseStart: "2027-09-01", LeaseEnd: "2028-08-31", MonthlyRent: 1350,
	}, f.agentID)
	if err != nil {
		t.Fatalf("renew lease: %v", err)
	}
	if got := *f.store.profiles[f.tenant.ProfileID].MonthlyRent; got != 1350 {
		t.Errorf("monthly_rent = %v, want renewed 1350", got)
	}
}

func TestAssignRejectsBadLease(t *testing.T) {
	f := newTenancyFixture(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		start, end string
	}{
		{"end before start", "2027-01-01", "2026-01-01"},
		{"equal dates", "2026-09-01", "2026-09-01"},
		{"malformed start", "tomorrow", "2027-08-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AssignTenant(ctx, f.tenant.ProfileID, &dto.AssignTenantRequest{
				PropertyID: f.property.PropertyID, LeaseStart: tc.start, LeaseEnd: tc.end, MonthlyRent: 1000,
			}, f.agentID)
			if !errors.Is(err, ErrInvalidLease) {
				t.Errorf("err = %v, want ErrInvalidLease", err)
			}
		})
	}
}

func TestAssignNonTenantFails(t *testing.T) {
	f := newTenancyFixture(t)

	_, err := f.svc.AssignTenant(context.Background(), f.landlord.ProfileID, &dto.AssignTenantRequest{
		PropertyID: f.property.PropertyID, LeaseStart: "2026-09-01", LeaseEnd: "2027-08-31", MonthlyRent: 1000,
	}, f.agentID)
	if !errors.Is(err, ErrNotATenant) {
		t.Fatalf("err = %v, want ErrNotATenant", err)
	}
}

func TestMoveOutClearsLeaseAndVacatesProperty(t *testing.T) {
	f := newTenancyFixture(t)
	f.assign(t, f.tenant.ProfileID)

	if _, err := f.svc.MoveOut(context.Background(), f.tenant.ProfileID, f.agentID); err != nil {
		t.Fatalf("move out: %v", err)
	}

	stored := f.store.profiles[f.tenant.ProfileID]
	if stored.PropertyID != nil || stored.LandlordID != nil ||
		stored.LeaseStart != nil || stored.LeaseEnd != nil || stored.MonthlyRent != nil {
		t.Error("lease fields survived move-out")
	}
	if stored.TenantStatus != model.TenantInactive {
		t.Errorf("tenant_status = %q, want inactive", stored.TenantStatus)
	}

	prop := f.store.properties[f.property.PropertyID]
	if prop.Status != model.PropertyAvailable {
		t.Errorf("property status = %q, want available", prop.Status)
	}
	if prop.RentPerUnit != 0 {
		t.Errorf("rent_per_unit = %v, want 0 when vacant", prop.RentPerUnit)
	}
}

func TestMoveOutWithoutAssignmentFails(t *testing.T) {
	f := newTenancyFixture(t)

	_, err := f.svc.MoveOut(context.Background(), f.tenant.ProfileID, f.agentID)
	if !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("err = %v, want ErrNotAssigned", err)
	}
}

func TestDeleteTenantCascades(t *testing.T) {
	f := newTenancyFixture(t)
	ctx := context.Background()
	f.assign(t, f.tenant.ProfileID)

	request := &model.MaintenanceRequest{
		TenantID: f.tenant.ProfileID, Title: "Leak", Description: "Under sink",
		Category: "plumbing", Priority: model.PriorityHigh, Status: model.StatusSubmitted,
	}
	if err := f.repo.MaintenanceRequest.Create(ctx, request); err != nil {
		t.Fatalf("create request: %v", err)
	}
	rating := &model.WorkerRating{
		RequestID: request.RequestID, WorkerID: "w1",
		RaterID: f.tenant.ProfileID, RaterType: model.RaterTenant, Rating: 4,
	}
	if err := f.repo.WorkerRating.Upsert(ctx, rating); err != nil {
		t.Fatalf("create rating: %v", err)
	}

	if err := f.svc.DeleteTenant(ctx, f.tenant.ProfileID, f.agentID); err != nil {
		t.Fatalf("delete tenant: %v", err)
	}

	if _, ok := f.store.profiles[f.tenant.ProfileID]; ok {
		t.Error("profile still present after delete")
	}
	if len(f.store.requests) != 0 {
		t.Errorf("requests remaining = %d, want 0", len(f.store.requests))
	}
	if len(f.store.ratings) != 0 {
		t.Errorf("ratings remaining = %d, want 0", len(f.store.ratings))
	}
	if got := f.store.properties[f.property.PropertyID].Status; got != model.PropertyAvailable {
		t.Errorf("property status = %q, want available after the occupant is deleted", got)
	}
}
