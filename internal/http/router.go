package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "github.com/ces0491/fleet-manager/internal/config"
	h "github.com/ces0491/fleet-manager/internal/http/handlers"
	"github.com/ces0491/fleet-manager/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.JWTSecret = []byte(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)

		// Vehicles (master data)
		vehicles := api.Group("/vehicles", auth)
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", middleware.RequireRoles("owner", "admin"), h.DeleteVehicle)

		// Weekly ledger
		ledger := api.Group("/ledger", auth)
		ledger.POST("/weekly", h.UpsertWeeklyEntry)
		ledger.GET("/weekly", h.GetWeeklyEntries)
		ledger.DELETE("/weekly/:id", middleware.RequireRoles("owner", "admin"), h.DeleteWeeklyEntry)

		// Dashboard stats
		stats := api.Group("/stats", auth)
		stats.GET("/fleet", h.GetFleetStats)
		stats.GET("/trend", h.GetTrend)

		// Reports (download; the caller is responsible for access logging)
		reports := api.Group("/reports", auth)
		reports.GET("/weekly", h.GetWeeklyReport)
		reports.GET("/weekly/pdf", h.GetWeeklySummaryPDF)
		reports.GET("/vehicle/:id", h.GetVehicleReport)
	}

	return r
}
