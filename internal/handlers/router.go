package handlers

import (
	"net/http"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Auth     services.AuthService
	Public   *PublicHandler
	Session  *AuthHandler
	Admin    *AdminHandler
	WhatsApp *WhatsAppHandler

	// LiveFeed upgrades admin dashboards to the event websocket.
	LiveFeed http.HandlerFunc
	Limiter  Limiter
	// RateLimit is the per-minute budget for login and self-service endpoints.
	RateLimit int
	UploadDir string
	Logger    *logrus.Logger
}

// Register mounts every route on router.
func Register(router *gin.Engine, deps RouterDeps) {
	logger := deps.Logger
	limit := func(bucket string) gin.HandlerFunc {
		return RateLimit(deps.Limiter, logger, bucket, deps.RateLimit, time.Minute)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	if deps.WhatsApp != nil {
		router.POST("/api/whatsapp/webhook", deps.WhatsApp.HandleWebhook)
	}

	api := router.Group("/api")
	api.Use(Authenticate(deps.Auth))
	{
		api.POST("/orders", limit("orders"), deps.Public.CreateOrder)
		api.GET("/orders/track/:reference", limit("track"), deps.Public.TrackOrder)
		api.POST("/orders/cancel", limit("cancel"), deps.Public.CancelOrder)

		api.POST("/reservations", limit("reservations"), deps.Public.CreateReservation)
		api.GET("/reservations/track/:reference", limit("track"), deps.Public.TrackReservation)
		api.POST("/reservations/cancel", limit("cancel"), deps.Public.CancelReservation)

		api.GET("/menu", deps.Public.Menu)
		api.GET("/menu/items/:id", deps.Public.MenuItem)
		api.GET("/gallery", deps.Public.Gallery)
		api.POST("/contact", limit("contact"), deps.Public.Contact)
		api.GET("/settings/public", deps.Public.Settings)
		api.GET("/announcement", deps.Public.Announcement)

		auth := api.Group("/auth")
		auth.POST("/login", limit("login"), deps.Session.Login)
		auth.POST("/logout", deps.Session.Logout)
		auth.GET("/me", RequireRole(logger), deps.Session.Me)
	}

	staff := api.Group("/admin")
	staff.Use(RequireRole(logger, models.RoleAdmin, models.RoleStaff))
	adminOnly := RequireRole(logger, models.RoleAdmin)
	admin := deps.Admin
	{
		staff.GET("/dashboard", admin.Dashboard)
		if deps.LiveFeed != nil {
			staff.GET("/live", gin.WrapF(deps.LiveFeed))
		}

		staff.GET("/orders", admin.ListOrders)
		staff.GET("/orders/export", admin.ExportOrders)
		staff.GET("/orders/:id", admin.GetOrder)
		staff.PATCH("/orders/:id/status", admin.UpdateOrderStatus)
		staff.DELETE("/orders/:id", adminOnly, admin.DeleteOrder)

		staff.GET("/reservations", admin.ListReservations)
		staff.GET("/reservations/:id", admin.GetReservation)
		staff.PATCH("/reservations/:id/status", admin.UpdateReservationStatus)
		staff.DELETE("/reservations/:id", adminOnly, admin.DeleteReservation)

		staff.GET("/menu/categories", admin.ListCategories)
		staff.POST("/menu/categories", admin.CreateCategory)
		staff.PUT("/menu/categories/:id", admin.UpdateCategory)
		staff.DELETE("/menu/categories/:id", adminOnly, admin.DeleteCategory)
		staff.GET("/menu/items", admin.ListMenuItems)
		staff.POST("/menu/items", admin.CreateMenuItem)
		staff.POST("/menu/items/import", admin.ImportMenuItems)
		staff.PUT("/menu/items/:id", admin.UpdateMenuItem)
		staff.DELETE("/menu/items/:id", adminOnly, admin.DeleteMenuItem)

		staff.GET("/gallery", admin.ListGallery)
		staff.POST("/gallery", admin.CreateGalleryImage)
		staff.PUT("/gallery/:id", admin.UpdateGalleryImage)
		staff.DELETE("/gallery/:id", admin.DeleteGalleryImage)

		staff.GET("/messages", admin.ListMessages)
		staff.PATCH("/messages/:id/read", admin.MarkMessageRead)
		staff.DELETE("/messages/:id", admin.DeleteMessage)

		staff.GET("/settings", admin.GetSettings)
		staff.PUT("/settings", adminOnly, admin.UpdateSettings)

		staff.GET("/announcement", admin.GetAnnouncement)
		staff.PUT("/announcement", adminOnly, admin.SaveAnnouncement)
		staff.GET("/announcements", admin.ListAnnouncements)
		staff.POST("/announcements", adminOnly, admin.CreateAnnouncement)
		staff.POST("/announcements/:id/activate", adminOnly, admin.ActivateAnnouncement)

		staff.GET("/users", adminOnly, admin.ListUsers)
		staff.POST("/users", adminOnly, admin.CreateUser)
		staff.PUT("/users/:id", adminOnly, admin.UpdateUser)
		staff.DELETE("/users/:id", adminOnly, admin.DeleteUser)

		if deps.WhatsApp != nil {
			staff.POST("/whatsapp/send", deps.WhatsApp.SendMessage)
		}
	}
}
