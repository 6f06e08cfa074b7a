package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/you/leadsvc/domain"
)

const bookingsSheet = "Bookings"

var exportHeaders = []string{
	"Booking ID", "Created At", "Date", "Time", "Name", "Email",
	"Phone", "Gender", "Country", "Services", "User ID",
}

// ExportServiceImpl renders bookings to an xlsx workbook
type ExportServiceImpl struct {
	bookings domain.BookingService
}

// NewExportService creates a new export service
func NewExportService(bookings domain.BookingService) *ExportServiceImpl {
	return &ExportServiceImpl{bookings: bookings}
}

// ExportBookings implements domain.ExportService
func (s *ExportServiceImpl) ExportBookings(ctx context.Context, filter domain.BookingFilter) ([]byte, error) {
	list, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return nil, fmt.Errorf("error renaming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(bookingsSheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(bookingsSheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for r, b := range list {
		row := []interface{}{
			b.BookingID,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.Date,
			b.Time,
			b.Name,
			b.Email,
			b.Phone,
			b.Gender,
			b.Country,
			strings.Join(b.Services, ", "),
			b.UserID,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(bookingsSheet, "A", "K", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var _ domain.ExportService = (*ExportServiceImpl)(nil)
