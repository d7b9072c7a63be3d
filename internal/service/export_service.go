package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
)

// ── export errors ──

var ErrNothingToExport = errors.New("no completed requests to export")

// ExportService produces downloadable artifacts: the invoice workbook
// and the per-worker appointment calendar.
type ExportService interface {
	// InvoicesXLSX renders completed requests as an xlsx workbook.
	// Landlords get their own invoices only; agents get everything.
	InvoicesXLSX(ctx context.Context, actorID, actorRole string) ([]byte, string, error)
	// WorkerCalendar renders the worker's open appointments as an iCal
	// feed keyed on preferred dates.
	WorkerCalendar(ctx context.Context, workerID string) (string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var invoiceHeaders = []string{
	"Invoice ID", "Title", "Category", "Tenant", "Property", "Worker",
	"Estimated Cost", "Additional Cost", "Actual Cost", "Completed At",
}

func (s *exportService) InvoicesXLSX(ctx context.Context, actorID, actorRole string) ([]byte, string, error) {
	landlordID := ""
	if actorRole == model.RoleLandlord {
		landlordID = actorID
	}

	requests, err := s.repo.MaintenanceRequest.ListCompleted(ctx, landlordID)
	if err != nil {
		s.logger.Error("list completed requests failed", zap.Error(err))
		return nil, "", err
	}
	if len(requests) == 0 {
		return nil, "", ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range invoiceHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(invoiceHeaders), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i := range requests {
		r := &requests[i]
		row := i + 2
		values := []interface{}{
			r.RequestID,
			r.Title,
			r.Category,
			"", // tenant
			"", // property
			"", // worker
			floatOrZero(r.EstimatedCost),
			r.AdditionalCost,
			floatOrZero(r.ActualCost),
			"",
		}
		if r.Tenant != nil {
			values[3] = r.Tenant.Name
			if r.Tenant.Property != nil {
				values[4] = r.Tenant.Property.Name
			}
		}
		if r.Worker != nil {
			values[5] = r.Worker.Name
		}
		if r.CompletedAt != nil {
			values[9] = r.CompletedAt.Format("2006-01-02 15:04")
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "F", 24)
	f.SetColWidth(sheet, "G", "J", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("write invoice workbook failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("invoices_%s.xlsx", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func (s *exportService) WorkerCalendar(ctx context.Context, workerID string) (string, error) {
	worker, err := s.repo.Worker.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrWorkerNotFound
		}
		return "", err
	}

	requests, err := s.repo.MaintenanceRequest.ListByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("list worker requests failed", zap.String("worker_id", workerID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//PropertyCare//Maintenance//EN")
	cal.SetName("Appointments: " + worker.Name)

	now := time.Now().UTC()
	for i := range requests {
		r := &requests[i]

		event := cal.AddEvent(r.RequestID + "@propertycare")
		event.SetDtStampTime(now)
		event.SetSummary(r.Title)

		description := r.Description
		if r.Tenant != nil && r.Tenant.Property != nil {
			event.SetLocation(r.Tenant.Property.Address)
		}
		if len(r.PreferredTimeSlots) > 0 {
			description += "\nPreferred slots: " + joinSlots(r.PreferredTimeSlots)
		}
		event.SetDescription(description)

		// Requests without a preferred date land on tomorrow so they
		// still show up in the feed.
		start := now.AddDate(0, 0, 1)
		if r.PreferredDate != nil {
			start = *r.PreferredDate
		}
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
	}

	return cal.Serialize(), nil
}

// ── helpers ──

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func joinSlots(slots []string) string {
	out := ""
	for i, s := range slots {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
