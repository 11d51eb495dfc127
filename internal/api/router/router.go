package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"harbor-control/config"
	"harbor-control/internal/api/handler"
	"harbor-control/internal/api/middleware"
)

// Setup builds the gin engine. limiter may be nil; db may be nil in tests,
// in which case /health only reports the process.
func Setup(cfg *config.Config, h *handler.Handler, tmpl *template.Template, limiter middleware.RateLimiter, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	limit := middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── pages ──
	r.GET("/", h.Page.Index)
	r.POST("/", limit, h.Page.CreateBoat)
	r.GET("/update/:id", h.Page.EditBoat)
	r.POST("/update/:id", limit, h.Page.UpdateBoat)
	r.POST("/delete_boat/:id", limit, h.Page.DeleteBoat)

	r.GET("/traffic/", h.Page.Traffic)
	r.POST("/traffic/create/", limit, h.Page.CreateTraffic)
	r.GET("/traffic/export/", h.Export.ExportTraffic)

	r.GET("/pending_deletions/", h.Page.Pending)
	r.POST("/boats/:id/delete/", limit, h.Page.SoftDelete)
	r.POST("/pending_deletions/:id/archive/", limit, h.Page.Archive)
	r.POST("/pending_deletions/:id/cancel/", limit, h.Page.CancelDelete)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		boats := v1.Group("/boats")
		{
			boats.GET("", h.Boat.ListBoats)
			boats.GET("/selectable", h.Boat.SelectableBoats)
			boats.GET("/:id", h.Boat.GetBoat)
			boats.POST("", limit, h.Boat.CreateBoat)
			boats.PUT("/:id", limit, h.Boat.UpdateBoat)
			boats.DELETE("/:id", limit, h.Boat.DeleteBoat)
			boats.POST("/:id/soft-delete", limit, h.Lifecycle.SoftDelete)
			boats.POST("/:id/archive", limit, h.Lifecycle.Archive)
			boats.POST("/:id/cancel-delete", limit, h.Lifecycle.CancelDelete)
		}

		pending := v1.Group("/pending-deletions")
		{
			pending.GET("", h.Lifecycle.ListPending)
			pending.POST("/archive-expired", limit, h.Lifecycle.ArchiveExpired)
		}

		traffic := v1.Group("/traffic")
		{
			traffic.GET("", h.Traffic.ListTraffic)
			traffic.GET("/:id", h.Traffic.GetTraffic)
			traffic.POST("", limit, h.Traffic.CreateTraffic)
		}

		v1.GET("/export/traffic", h.Export.ExportTraffic)
	}

	return r
}
