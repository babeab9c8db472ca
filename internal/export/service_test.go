package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"upperroom/internal/bookings/repository"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

type filterRepo struct {
	repository.BookingRepository

	lastFilter model.BookingFilter
	bookings   []*model.Booking
}

func (r *filterRepo) FindWithFilters(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	r.lastFilter = filter
	return r.bookings, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func sampleBookings() []*model.Booking {
	created := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Booking{
		{
			ID:        "b1",
			FullName:  "Jane Doe",
			Role:      model.RolePrayer,
			Date:      "2026-09-02",
			TimeStart: "20:00",
			TimeEnd:   "21:00",
			Status:    model.StatusBooked,
			Notes:     "first time",
			CreatedAt: created,
		},
		{
			ID:        "b2",
			FullName:  "John Smith",
			Role:      model.RoleWorship,
			Date:      "2026-09-03",
			TimeStart: "20:00",
			TimeEnd:   "21:00",
			Status:    model.StatusCancelled,
			CreatedAt: created,
		},
	}
}

func TestCSVExport(t *testing.T) {
	repo := &filterRepo{bookings: sampleBookings()}
	svc := NewExportService(repo, testLogger())

	data, err := svc.CSV(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][1] != "Full Name" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Jane Doe" || records[1][4] != "20:00 - 21:00" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	if records[2][5] != model.StatusCancelled {
		t.Fatalf("expected cancelled status in second row: %v", records[2])
	}
}

func TestCSVExportMonthFilter(t *testing.T) {
	repo := &filterRepo{}
	svc := NewExportService(repo, testLogger())

	if _, err := svc.CSV(context.Background(), 9, 2026); err != nil {
		t.Fatalf("CSV returned error: %v", err)
	}
	if repo.lastFilter.FromDate != "2026-09-01" || repo.lastFilter.ToDate != "2026-10-01" {
		t.Fatalf("unexpected date filter: %+v", repo.lastFilter)
	}
}

func TestCSVExportInvalidMonth(t *testing.T) {
	svc := NewExportService(&filterRepo{}, testLogger())

	if _, err := svc.CSV(context.Background(), 13, 2026); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestExcelExport(t *testing.T) {
	repo := &filterRepo{bookings: sampleBookings()}
	svc := NewExportService(repo, testLogger())

	data, err := svc.Excel(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Excel returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][1] != "Jane Doe" {
		t.Fatalf("unexpected rows: %v", rows[:2])
	}
}
