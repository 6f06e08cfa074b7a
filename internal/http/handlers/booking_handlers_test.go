package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/mocks"
)

func bookingRouter(bookings *mocks.MockBookingService, export *mocks.MockExportService) (*gin.Engine, *BookingHandlers) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandlers(bookings, export, nil)
	h.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.POST("/booking/create", withIdentity("user-7", "sess-7"), h.Create)
	r.GET("/admin/bookings", h.List)
	r.GET("/admin/bookings/export", h.Export)
	return r, h
}

func validForm() domain.BookingForm {
	return domain.BookingForm{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Phone:    "+91 98765 43210",
		Gender:   "male",
		Country:  "India",
		Date:     "2025-03-01",
		Time:     "10:00 AM",
		Services: []string{"Data Analytics"},
	}
}

func TestBookingHandlers_Create(t *testing.T) {
	tests := []struct {
		name           string
		submitErr      error
		expectedStatus int
		expectedError  string
	}{
		{name: "created", expectedStatus: http.StatusCreated},
		{
			name:           "weekday date",
			submitErr:      domain.NewValidationError("date", "Please select a weekend date (Saturday or Sunday)"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Please select a weekend date (Saturday or Sunday)",
		},
		{
			name:           "id collision",
			submitErr:      domain.ErrBookingExists,
			expectedStatus: http.StatusConflict,
			expectedError:  "Booking already exists, please try again",
		},
		{
			name:           "store failure",
			submitErr:      errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockBookingService()
			var gotUser string
			svc.SubmitFunc = func(ctx context.Context, userID string, form *domain.BookingForm) (*domain.Booking, error) {
				gotUser = userID
				if tt.submitErr != nil {
					return nil, tt.submitErr
				}
				return &domain.Booking{BookingID: "SHREEAI-1700000000000", UserID: userID, Services: form.Services}, nil
			}
			r, _ := bookingRouter(svc, &mocks.MockExportService{})

			w, resp := performJSON(t, r, http.MethodPost, "/booking/create", validForm())

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, false, resp["success"])
				assert.Equal(t, tt.expectedError, resp["error"])
				return
			}
			assert.Equal(t, "user-7", gotUser)
			booking := resp["booking"].(map[string]interface{})
			assert.Equal(t, "SHREEAI-1700000000000", booking["bookingId"])
			assert.Equal(t, []interface{}{"Data Analytics"}, booking["services"])
		})
	}
}

func TestBookingHandlers_List(t *testing.T) {
	svc := mocks.NewMockBookingService()
	var got domain.BookingFilter
	svc.ListFunc = func(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
		got = filter
		return []*domain.Booking{{BookingID: "SHREEAI-2"}, {BookingID: "SHREEAI-1"}}, nil
	}
	r, _ := bookingRouter(svc, &mocks.MockExportService{})

	w, resp := performJSON(t, r, http.MethodGet, "/admin/bookings?from=2025-03-01&to=2025-03-31&limit=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.BookingFilter{From: "2025-03-01", To: "2025-03-31", Limit: 10}, got)
	assert.Equal(t, float64(2), resp["count"])

	w, resp = performJSON(t, r, http.MethodGet, "/admin/bookings?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "limit must be a non-negative integer", resp["error"])
}

func TestBookingHandlers_Export(t *testing.T) {
	export := &mocks.MockExportService{}
	r, _ := bookingRouter(mocks.NewMockBookingService(), export)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bookings-20250301.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", w.Body.String())

	export.ExportBookingsFunc = func(ctx context.Context, filter domain.BookingFilter) ([]byte, error) {
		return nil, errors.New("disk full")
	}
	w, resp := performJSON(t, r, http.MethodGet, "/admin/bookings/export", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", resp["error"])
}
