package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"propertycare/backend/config"
	"propertycare/backend/internal/api/handler"
	"propertycare/backend/internal/api/middleware"
	"propertycare/backend/internal/model"
	"propertycare/backend/pkg/jwt"
	"propertycare/backend/pkg/redis"
)

// New builds the gin engine with all routes and middleware.
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── public ──
	// The credential endpoints carry a tight per-IP limit against
	// brute forcing; everything behind JWTAuth gets a loose one.
	auth := v1.Group("/auth", middleware.RateLimit(rdb, 10, time.Minute))
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// ── authenticated ──
	authed := v1.Group("")
	authed.Use(middleware.RateLimit(rdb, 300, time.Minute))
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.Me)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)
		authed.PUT("/profiles/me", h.Tenancy.UpdateProfile)

		requests := authed.Group("/requests")
		{
			requests.GET("", h.Maintenance.List)
			requests.GET("/:id", h.Maintenance.Get)

			requests.POST("", middleware.RoleAuth(model.RoleTenant), h.Maintenance.Submit)
			requests.POST("/:id/rate",
				middleware.RoleAuth(model.RoleTenant, model.RoleLandlord), h.Maintenance.Rate)

			agentOnly := middleware.RoleAuth(model.RoleAgent)
			requests.POST("/:id/claim", agentOnly, h.Maintenance.Claim)
			requests.POST("/:id/assign", agentOnly, h.Maintenance.AssignWorker)
			requests.POST("/:id/quick-assign", agentOnly, h.Maintenance.QuickAssign)
			requests.POST("/:id/quote", agentOnly, h.Maintenance.SubmitQuote)
			requests.POST("/:id/complete", agentOnly, h.Maintenance.Complete)

			landlordOnly := middleware.RoleAuth(model.RoleLandlord)
			requests.POST("/:id/approve", landlordOnly, h.Maintenance.Approve)
			requests.POST("/:id/reject", landlordOnly, h.Maintenance.Reject)
		}

		invoices := authed.Group("/invoices",
			middleware.RoleAuth(model.RoleLandlord, model.RoleAgent))
		{
			invoices.GET("", h.Maintenance.ListInvoices)
			invoices.GET("/export", h.Export.InvoicesXLSX)
		}

		workers := authed.Group("/workers", middleware.RoleAuth(model.RoleAgent))
		{
			workers.POST("", h.Worker.Create)
			workers.GET("", h.Worker.List)
			workers.GET("/:id", h.Worker.Get)
			workers.PUT("/:id", h.Worker.Update)
			workers.PUT("/:id/favorite", h.Worker.SetFavorite)
			workers.GET("/:id/calendar", h.Export.WorkerCalendar)
			workers.DELETE("/:id", h.Worker.Delete)
		}

		properties := authed.Group("/properties", middleware.RoleAuth(model.RoleAgent))
		{
			properties.POST("", h.Property.Create)
			properties.GET("", h.Property.List)
			properties.GET("/:id", h.Property.Get)
			properties.PUT("/:id", h.Property.Update)
			properties.DELETE("/:id", h.Property.Delete)
		}

		tenants := authed.Group("/tenants", middleware.RoleAuth(model.RoleAgent))
		{
			tenants.GET("", h.Tenancy.List)
			tenants.GET("/:id", h.Tenancy.Get)
			tenants.POST("/:id/assign", h.Tenancy.Assign)
			tenants.POST("/:id/move-out", h.Tenancy.MoveOut)
			tenants.DELETE("/:id", h.Tenancy.Delete)
		}
	}

	return r
}
