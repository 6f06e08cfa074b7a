package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/leadsvc/domain"
)

// CasbinMiddleware is implemented by authorization middlewares
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// CasbinMW checks the caller's role against casbin policies for the request path and method
type CasbinMW struct {
	policySvc domain.PolicyService
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policySvc domain.PolicyService) *CasbinMW {
	return &CasbinMW{policySvc: policySvc}
}

// Enforce returns the casbin authorization middleware. It must run after AuthMiddleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if c.GetString(UserIDKey) == "" || role == "" {
			_ = c.Error(domain.ErrUnauthorized)
			abort(c, http.StatusUnauthorized, "User ID or role not found in token")
			return
		}

		allowed, err := mw.policySvc.CheckPermission("role_"+role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "Authorization check failed")
			return
		}
		if !allowed {
			_ = c.Error(domain.ErrInsufficientRole)
			abort(c, http.StatusForbidden, "Not authorized to access this route")
			return
		}

		c.Next()
	}
}
