package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/leadsvc/domain"
)

// AuthHandlers handles the /api/auth endpoints
type AuthHandlers struct {
	authSvc domain.AuthService
	logger  *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, logger *zap.Logger) *AuthHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandlers{authSvc: authSvc, logger: logger}
}

// SignupRequest represents registration request
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents sign-in request
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest carries the code mailed at signup
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EmailRequest is used by resend-code and send-code
type EmailRequest struct {
	Email string `json:"email"`
}

// UpdateProfileRequest represents profile update request
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// ChangePasswordRequest represents password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// Signup handles POST /api/auth/signup
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Name, req.Email, req.Password) {
		respondError(c, http.StatusBadRequest, "Please provide name, email and password")
		return
	}

	user, err := h.authSvc.Signup(requestCtx(c), req.Name, req.Email, req.Password)
	if err != nil {
		h.logFailure("signup", req.Email, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully. Please check your email for verification code.",
		"userId":  user.ID,
	})
}

// Verify handles POST /api/auth/verify
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Email, req.Code) {
		respondError(c, http.StatusBadRequest, "Please provide email and verification code")
		return
	}

	result, err := h.authSvc.VerifyEmail(requestCtx(c), req.Email, strings.TrimSpace(req.Code))
	if err != nil {
		h.logFailure("verify", req.Email, err)
		respondServiceError(c, err)
		return
	}

	h.respondAuth(c, "Email verified successfully", result)
}

// ResendCode handles POST /api/auth/resend-code
func (h *AuthHandlers) ResendCode(c *gin.Context) {
	h.sendCode(c, h.authSvc.ResendCode, "Verification code sent to your email")
}

// SendCode handles POST /api/auth/send-code. The code is always generated server side.
func (h *AuthHandlers) SendCode(c *gin.Context) {
	h.sendCode(c, h.authSvc.SendCode, "Verification code sent successfully")
}

func (h *AuthHandlers) sendCode(c *gin.Context, send func(ctx context.Context, email string) error, message string) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Email) {
		respondError(c, http.StatusBadRequest, "Please provide email")
		return
	}

	if err := send(requestCtx(c), req.Email); err != nil {
		h.logFailure("send-code", req.Email, err)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// Signin handles POST /api/auth/signin
func (h *AuthHandlers) Signin(c *gin.Context) {
	var req SigninRequest
	if !bindJSON(c, &req) {
		return
	}
	if blank(req.Email, req.Password) {
		respondError(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	result, err := h.authSvc.Signin(requestCtx(c), req.Email, req.Password)
	if err != nil {
		h.logFailure("signin", req.Email, err)
		respondServiceError(c, err)
		return
	}

	h.respondAuth(c, "Signed in successfully", result)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.authSvc.GetProfile(requestCtx(c), c.GetString(ctxUserID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(user, true),
	})
}

// Signout handles POST /api/auth/signout
func (h *AuthHandlers) Signout(c *gin.Context) {
	if sessionID := c.GetString(ctxSessionID); sessionID != "" {
		if err := h.authSvc.Signout(requestCtx(c), sessionID); err != nil {
			h.logger.Error("failed to revoke session", zap.String("session_id", sessionID), zap.Error(err))
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out successfully",
	})
}

// UpdateProfile handles PUT /api/auth/update-profile
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authSvc.UpdateProfile(requestCtx(c), c.GetString(ctxUserID), strings.TrimSpace(req.Name))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    toUserResponse(user, false),
	})
}

// ChangePassword handles PUT /api/auth/change-password
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(c, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	err := h.authSvc.ChangePassword(requestCtx(c), c.GetString(ctxUserID), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

func (h *AuthHandlers) respondAuth(c *gin.Context, message string, result *domain.AuthResult) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"token":     result.Token,
		"expiresIn": result.ExpiresIn,
		"user":      toUserResponse(result.User, false),
	})
}

func (h *AuthHandlers) logFailure(op, email string, err error) {
	h.logger.Info("auth request rejected",
		zap.String("op", op),
		zap.String("email", email),
		zap.Error(err),
	)
}
