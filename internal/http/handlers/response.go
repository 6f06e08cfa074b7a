package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/leadsvc/domain"
)

// Context keys set by the auth middleware
const (
	ctxUserID    = "user_id"
	ctxSessionID = "session_id"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func toUserResponse(u *domain.User, withCreated bool) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}
	if withCreated {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// requestCtx carries the caller's session and client details into the services
func requestCtx(c *gin.Context) context.Context {
	return domain.WithRequestMeta(c.Request.Context(), domain.RequestMeta{
		SessionID: c.GetString(ctxSessionID),
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps domain errors to status codes and client messages
func respondServiceError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var wait *domain.ResendWaitError

	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &wait):
		respondError(c, http.StatusTooManyRequests, wait.Error())
	case errors.Is(err, domain.ErrResendTooSoon):
		respondError(c, http.StatusTooManyRequests, "Please wait before requesting a new code")
	case errors.Is(err, domain.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		respondError(c, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, domain.ErrInvalidEmail):
		respondError(c, http.StatusBadRequest, "Please provide a valid email")
	case errors.Is(err, domain.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, domain.ErrPasswordTooLong):
		respondError(c, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, domain.ErrAlreadyVerified):
		respondError(c, http.StatusBadRequest, "Email already verified")
	case errors.Is(err, domain.ErrCodeInvalid):
		respondError(c, http.StatusBadRequest, "Invalid verification code")
	case errors.Is(err, domain.ErrCodeExpired):
		respondError(c, http.StatusBadRequest, "Verification code expired. Please request a new one.")
	case errors.Is(err, domain.ErrSendFailure):
		respondError(c, http.StatusInternalServerError, "Failed to send verification email. Please try again.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrEmailNotVerified):
		respondError(c, http.StatusUnauthorized, "Please verify your email first")
	case errors.Is(err, domain.ErrIncorrectPassword):
		respondError(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, domain.ErrBookingExists):
		respondError(c, http.StatusConflict, "Booking already exists, please try again")
	default:
		respondError(c, http.StatusInternalServerError, "Server Error")
	}
}
