package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/leadsvc/internal/http/handlers"
	"github.com/you/leadsvc/internal/http/middleware"
	"github.com/you/leadsvc/internal/metrics"
)

// RouterDeps groups what BuildRouter wires together
type RouterDeps struct {
	Auth      *handlers.AuthHandlers
	Bookings  *handlers.BookingHandlers
	Policies  *handlers.PolicyHandlers
	JWT       *middleware.AuthMW
	Casbin    middleware.CasbinMiddleware
	RateLimit *middleware.RateLimiter
	ClientURL string
	Logger    *zap.Logger
}

func BuildRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.CORS(d.ClientURL))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	public := api.Group("/auth")
	if d.RateLimit != nil {
		public.Use(d.RateLimit.ByClientIP())
	}
	public.POST("/signup", d.Auth.Signup)
	public.POST("/signin", d.Auth.Signin)
	public.POST("/verify", d.Auth.Verify)
	public.POST("/resend-code", d.Auth.ResendCode)
	public.POST("/send-code", d.Auth.SendCode)

	protected := api.Group("/", d.JWT.WithJWT())
	protected.GET("/auth/me", d.Auth.Me)
	protected.POST("/auth/signout", d.Auth.Signout)
	protected.PUT("/auth/update-profile", d.Auth.UpdateProfile)
	protected.PUT("/auth/change-password", d.Auth.ChangePassword)
	protected.POST("/booking/create", d.Bookings.Create)

	adm := api.Group("/admin", d.JWT.WithJWT(), d.Casbin.Enforce())
	adm.GET("/bookings", d.Bookings.List)
	adm.GET("/bookings/export", d.Bookings.Export)
	adm.GET("/policies", d.Policies.List)
	adm.POST("/policies", d.Policies.Add)
	adm.DELETE("/policies", d.Policies.Remove)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	return r
}
