package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
)

func newWorkerFixture(t *testing.T) (WorkerService, *repository.Repository, *memStore) {
	t.Helper()
	repo, store := newMemRepository()
	return NewWorkerService(repo, zap.NewNop()), repo, store
}

const testAgentID = "00000000-0000-0000-0000-00000000a9e1"

func createWorker(t *testing.T, svc WorkerService, name, category string) *dto.WorkerResponse {
	t.Helper()
	worker, err := svc.Create(context.Background(), &dto.CreateWorkerRequest{
		Name: name, Initials: name[:2], Category: category,
	}, testAgentID)
	if err != nil {
		t.Fatalf("create worker %s: %v", name, err)
	}
	return worker
}

func TestSetFavoriteClearsPreviousInCategory(t *testing.T) {
	svc, _, store := newWorkerFixture(t)
	ctx := context.Background()

	// Same category under normalization, different raw spellings.
	first := createWorker(t, svc, "Pat Pipes", "Plumbing")
	second := createWorker(t, svc, "Quinn Quickfix", "plumb-ing")
	other := createWorker(t, svc, "Elle Sparks", "Electrical")

	if _, err := svc.SetFavorite(ctx, first.ID, true, testAgentID); err != nil {
		t.Fatalf("favorite first: %v", err)
	}
	if _, err := svc.SetFavorite(ctx, other.ID, true, testAgentID); err != nil {
		t.Fatalf("favorite electrician: %v", err)
	}
	if _, err := svc.SetFavorite(ctx, second.ID, true, testAgentID); err != nil {
		t.Fatalf("favorite second: %v", err)
	}

	if store.workers[first.ID].Favorite {
		t.Error("previous plumbing favorite not cleared")
	}
	if !store.workers[second.ID].Favorite {
		t.Error("new plumbing favorite not set")
	}
	if !store.workers[other.ID].Favorite {
		t.Error("favorite in an unrelated category was cleared")
	}
}

func TestUnsetFavoriteLeavesOthersAlone(t *testing.T) {
	svc, _, store := newWorkerFixture(t)
	ctx := context.Background()

	w := createWorker(t, svc, "Pat Pipes", "Plumbing")
	if _, err := svc.SetFavorite(ctx, w.ID, true, testAgentID); err != nil {
		t.Fatalf("set favorite: %v", err)
	}
	versionAfterSet := store.workers[w.ID].Version

	if _, err := svc.SetFavorite(ctx, w.ID, false, testAgentID); err != nil {
		t.Fatalf("unset favorite: %v", err)
	}
	if store.workers[w.ID].Favorite {
		t.Error("favorite flag still set")
	}
	// Unsetting touches only this worker.
	if got := store.workers[w.ID].Version; got != versionAfterSet+1 {
		t.Errorf("version = %d, want a single write (%d)", got, versionAfterSet+1)
	}
}

func TestCategoryChangeDropsFavorite(t *testing.T) {
	svc, _, store := newWorkerFixture(t)
	ctx := context.Background()

	w := createWorker(t, svc, "Pat Pipes", "Plumbing")
	if _, err := svc.SetFavorite(ctx, w.ID, true, testAgentID); err != nil {
		t.Fatalf("set favorite: %v", err)
	}

	newCategory := "Electrical"
	if _, err := svc.Update(ctx, w.ID, &dto.UpdateWorkerRequest{Category: &newCategory}, testAgentID); err != nil {
		t.Fatalf("update category: %v", err)
	}
	if store.workers[w.ID].Favorite {
		t.Error("favorite followed the worker into a new category")
	}
}

func TestListFiltersByNormalizedCategory(t *testing.T) {
	svc, _, _ := newWorkerFixture(t)
	ctx := context.Background()

	createWorker(t, svc, "Pat Pipes", "Plumbing")
	createWorker(t, svc, "Quinn Quickfix", "plumb-ing")
	createWorker(t, svc, "Elle Sparks", "Electrical")

	list, err := svc.List(ctx, &dto.WorkerListRequest{Category: "PLUMBING"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("category filter returned %d workers, want 2", len(list))
	}
	for _, w := range list {
		if !model.CategoriesMatch(w.Category, "plumbing") {
			t.Errorf("worker %s leaked into the plumbing filter", w.Name)
		}
	}
}

func TestListFiltersByFavorite(t *testing.T) {
	svc, _, _ := newWorkerFixture(t)
	ctx := context.Background()

	fav := createWorker(t, svc, "Pat Pipes", "Plumbing")
	createWorker(t, svc, "Quinn Quickfix", "Plumbing")
	if _, err := svc.SetFavorite(ctx, fav.ID, true, testAgentID); err != nil {
		t.Fatalf("set favorite: %v", err)
	}

	wantFav := true
	list, err := svc.List(ctx, &dto.WorkerListRequest{Favorite: &wantFav})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != fav.ID {
		t.Errorf("favorite filter returned %d workers, want just the favorite", len(list))
	}
}

func TestDeleteRefusesAssignedWorker(t *testing.T) {
	svc, repo, store := newWorkerFixture(t)
	ctx := context.Background()

	assigned := createWorker(t, svc, "Pat Pipes", "Plumbing")
	idle := createWorker(t, svc, "Quinn Quickfix", "Plumbing")

	request := &model.MaintenanceRequest{
		TenantID:         "some-tenant",
		AssignedWorkerID: &assigned.ID,
		Title:            "Leaking kitchen tap",
		Description:      "Drips constantly",
		Category:         "Plumbing",
		Priority:         model.PriorityHigh,
		Status:           model.StatusQuoteSubmitted,
	}
	if err := repo.MaintenanceRequest.Create(ctx, request); err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := svc.Delete(ctx, assigned.ID); !errors.Is(err, ErrWorkerInUse) {
		t.Errorf("delete assigned worker: err = %v, want ErrWorkerInUse", err)
	}
	if _, ok := store.workers[assigned.ID]; !ok {
		t.Error("assigned worker was deleted anyway")
	}

	if err := svc.Delete(ctx, idle.ID); err != nil {
		t.Fatalf("delete idle worker: %v", err)
	}
	if _, ok := store.workers[idle.ID]; ok {
		t.Error("idle worker still present after delete")
	}
}

func TestWorkerNotFound(t *testing.T) {
	svc, _, _ := newWorkerFixture(t)

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("err = %v, want ErrWorkerNotFound", err)
	}
}
