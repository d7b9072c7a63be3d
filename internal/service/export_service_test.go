package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"propertycare/backend/internal/model"
)

func TestInvoicesXLSX(t *testing.T) {
	repo, _ := newMemRepository()
	svc := NewExportService(repo, zap.NewNop())
	ctx := context.Background()

	if _, _, err := svc.InvoicesXLSX(ctx, "agent", model.RoleAgent); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("empty export: err = %v, want ErrNothingToExport", err)
	}

	estimated, actual := 120.0, 150.0
	completedAt := time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC)
	request := &model.MaintenanceRequest{
		TenantID: "t1", Title: "Leaking kitchen tap", Description: "x",
		Category: "plumbing", Priority: model.PriorityHigh,
		Status:        model.StatusCompleted,
		EstimatedCost: &estimated, AdditionalCost: 30, ActualCost: &actual,
		CompletedAt: &completedAt,
	}
	if err := repo.MaintenanceRequest.Create(ctx, request); err != nil {
		t.Fatalf("create request: %v", err)
	}

	data, filename, err := svc.InvoicesXLSX(ctx, "agent", model.RoleAgent)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want .xlsx suffix", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Invoices", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if title != "Leaking kitchen tap" {
		t.Errorf("B2 = %q, want the request title", title)
	}
	amount, _ := f.GetCellValue("Invoices", "I2")
	if amount != "150" {
		t.Errorf("I2 = %q, want the actual cost", amount)
	}
}

func TestWorkerCalendar(t *testing.T) {
	repo, _ := newMemRepository()
	svc := NewExportService(repo, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.WorkerCalendar(ctx, "missing"); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("missing worker: err = %v, want ErrWorkerNotFound", err)
	}

	worker := &model.Worker{Name: "Pat Pipes", Initials: "PP", Category: "plumbing"}
	if err := repo.Worker.Create(ctx, worker); err != nil {
		t.Fatalf("create worker: %v", err)
	}

	preferred := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	open := &model.MaintenanceRequest{
		TenantID: "t1", Title: "Boiler pressure low", Description: "x",
		Category: "plumbing", Priority: model.PriorityMedium,
		Status: model.StatusInProcess, AssignedWorkerID: &worker.WorkerID,
		PreferredDate: &preferred,
	}
	done := &model.MaintenanceRequest{
		TenantID: "t1", Title: "Old job", Description: "x",
		Category: "plumbing", Priority: model.PriorityLow,
		Status: model.StatusCompleted, AssignedWorkerID: &worker.WorkerID,
	}
	for _, r := range []*model.MaintenanceRequest{open, done} {
		if err := repo.MaintenanceRequest.Create(ctx, r); err != nil {
			t.Fatalf("create request: %v", err)
		}
	}

	ical, err := svc.WorkerCalendar(ctx, worker.WorkerID)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}

	if !strings.Contains(ical, "BEGIN:VCALENDAR") {
		t.Error("output is not an iCal document")
	}
	if !strings.Contains(ical, "Boiler pressure low") {
		t.Error("open appointment missing from feed")
	}
	if strings.Contains(ical, "Old job") {
		t.Error("completed request leaked into the feed")
	}
}
