package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"upperroom/internal/bookings/repository"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/logger"
	"upperroom/pkg/model"
)

var columns = []string{"ID", "Full Name", "Role", "Date", "Time", "Status", "Notes", "Created At"}

const sheetName = "Bookings"

type ExportService struct {
	bookings repository.BookingRepository
	logger   *logger.Logger
}

func NewExportService(bookings repository.BookingRepository, log *logger.Logger) *ExportService {
	return &ExportService{bookings: bookings, logger: log}
}

// load fetches the bookings to export. A zero month exports everything;
// otherwise the result is limited to the given month.
func (s *ExportService) load(ctx context.Context, month, year int) ([]*model.Booking, error) {
	filter := model.BookingFilter{}
	if month != 0 {
		if month < 1 || month > 12 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid month: %d", month))
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		filter.FromDate = start.Format(model.DateLayout)
		filter.ToDate = start.AddDate(0, 1, 0).Format(model.DateLayout)
	}

	bookings, err := s.bookings.FindWithFilters(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for export", err)
	}
	return bookings, nil
}

func row(b *model.Booking) []string {
	return []string{
		b.ID,
		b.FullName,
		b.Role,
		b.Date,
		fmt.Sprintf("%s - %s", b.TimeStart, b.TimeEnd),
		b.Status,
		b.Notes,
		b.CreatedAt.Format(time.RFC3339),
	}
}

// CSV renders the bookings as a CSV document.
func (s *ExportService) CSV(ctx context.Context, month, year int) ([]byte, error) {
	bookings, err := s.load(ctx, month, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, apperrors.Internal("Failed to write CSV header", err)
	}
	for _, b := range bookings {
		if err := writer.Write(row(b)); err != nil {
			return nil, apperrors.Internal("Failed to write CSV row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.Internal("Failed to flush CSV", err)
	}
	return buf.Bytes(), nil
}

// Excel renders the bookings as an xlsx workbook.
func (s *ExportService) Excel(ctx context.Context, month, year int) ([]byte, error) {
	bookings, err := s.load(ctx, month, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, apperrors.Internal("Failed to create sheet", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, apperrors.Internal("Failed to write header row", err)
	}

	for i, b := range bookings {
		values := row(b)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, apperrors.Internal("Failed to write booking row", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Internal("Failed to serialize workbook", err)
	}
	return buf.Bytes(), nil
}
