package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/leadsvc/domain"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// AuthMiddleware requires a Bearer access token backed by a live session
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || strings.TrimSpace(tokenParts[1]) == "" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(strings.TrimSpace(tokenParts[1]))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				abort(c, http.StatusUnauthorized, "Token expired")
			default:
				abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			}
			return
		}

		// Signed-out tokens stay cryptographically valid until exp, the session is the revocation list
		if claims.SessionID == "" {
			abort(c, http.StatusUnauthorized, "Session invalid or expired")
			return
		}
		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil || session == nil {
			abort(c, http.StatusUnauthorized, "Session invalid or expired")
			return
		}
		if session.UserID != claims.UserID {
			abort(c, http.StatusUnauthorized, "Session user mismatch")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}
