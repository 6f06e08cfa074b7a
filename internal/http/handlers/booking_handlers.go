package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BookingHandlers serves booking submission and the admin booking views
type BookingHandlers struct {
	bookingSvc domain.BookingService
	exportSvc  domain.ExportService
	logger     *zap.Logger
	now        func() time.Time
}

// NewBookingHandlers creates new booking handlers
func NewBookingHandlers(bookingSvc domain.BookingService, exportSvc domain.ExportService, logger *zap.Logger) *BookingHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandlers{
		bookingSvc: bookingSvc,
		exportSvc:  exportSvc,
		logger:     logger,
		now:        time.Now,
	}
}

// BookingResponse is the JSON view of a booking
type BookingResponse struct {
	BookingID string    `json:"bookingId"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Country   string    `json:"country"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Services  []string  `json:"services"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID: b.BookingID,
		UserID:    b.UserID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Gender:    b.Gender,
		Country:   b.Country,
		Date:      b.Date,
		Time:      b.Time,
		Services:  b.Services,
		CreatedAt: b.CreatedAt,
	}
}

// Create handles POST /api/booking/create
func (h *BookingHandlers) Create(c *gin.Context) {
	var form domain.BookingForm
	if !bindJSON(c, &form) {
		return
	}

	booking, err := h.bookingSvc.Submit(c.Request.Context(), c.GetString(ctxUserID), &form)
	if err != nil {
		h.logger.Info("booking rejected", zap.String("user_id", c.GetString(ctxUserID)), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"booking": toBookingResponse(booking),
	})
}

// List handles GET /api/admin/bookings
func (h *BookingHandlers) List(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(out),
		"bookings": out,
	})
}

// Export handles GET /api/admin/bookings/export
func (h *BookingHandlers) Export(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.ExportBookings(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("booking export failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", h.now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func bookingFilter(c *gin.Context) (domain.BookingFilter, bool) {
	filter := domain.BookingFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return filter, false
		}
		filter.Limit = limit
	}
	return filter, true
}
