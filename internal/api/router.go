package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"squarepg-backend/config"
	"squarepg-backend/internal/events"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/notification"
	"squarepg-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, hub *events.Hub, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(cfg, s, hub, pool, webpushOptions)

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		mw.HeaderUserID, mw.HeaderUserEmail, mw.HeaderUserRole)
	r.Use(cors.New(corsConfig))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public endpoints: no session required.
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
		api.GET("/invitations/:token", handler.GetInvitation)

		authed := api.Group("", mw.SessionFromHeaders())
		{
			authed.POST("/invitations/:token/accept", handler.AcceptInvitation)
			authed.GET("/events", handler.Events)

			owner := authed.Group("", mw.RequireRole(mw.RoleOwner))
			{
				owner.GET("/rooms", caching, handler.ListRooms)
				owner.POST("/rooms", handler.CreateRoom)
				owner.GET("/rooms/assignable", handler.AssignableRooms)
				owner.PUT("/rooms/:id/status", handler.SetRoomStatus)
				owner.DELETE("/rooms/:id", handler.DeleteRoom)

				owner.GET("/tenants", handler.ListTenants)
				owner.POST("/tenants", handler.CreateTenant)
				owner.PUT("/tenants/:id", handler.UpdateTenant)
				owner.DELETE("/tenants/:id", handler.DeleteTenant)
				owner.PUT("/tenants/:id/rent", handler.SetRentStatus)
				owner.POST("/tenants/:id/invitations", handler.CreateInvitation)

				owner.GET("/payments", handler.ListPayments)
				owner.POST("/payments", handler.CreatePayment)

				owner.GET("/expenses", handler.ListExpenses)
				owner.POST("/expenses", handler.CreateExpense)
				owner.DELETE("/expenses/:id", handler.DeleteExpense)

				owner.GET("/complaints", handler.ListComplaints)
				owner.PUT("/complaints/:id/status", handler.SetComplaintStatus)

				owner.GET("/dashboard", caching, handler.Dashboard)

				owner.GET("/settings", handler.GetSettings)
				owner.PUT("/settings", handler.PutSettings)

				owner.GET("/export", handler.Export)
				owner.POST("/import", handler.Import)

				owner.GET("/subscriptions", handler.GetSubscriptions)
				owner.PUT("/subscriptions", handler.PutSubscription)
				owner.DELETE("/subscriptions", handler.DeleteSubscription)
			}

			me := authed.Group("/me", mw.RequireRole(mw.RoleTenant))
			{
				me.GET("", handler.MyProfile)
				me.GET("/payments", handler.MyPayments)
				me.GET("/complaints", handler.MyComplaints)
				me.POST("/complaints", handler.CreateMyComplaint)
			}
		}
	}

	return r
}
