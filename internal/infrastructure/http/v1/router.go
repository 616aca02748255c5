// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"marketops/internal/domain/dashboard"
	"marketops/internal/infrastructure/http/v1/handlers"
	"marketops/internal/infrastructure/http/v1/middleware"
	"marketops/internal/infrastructure/storage/postgres"
	"marketops/internal/metadata"
	"marketops/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation; when nil the API runs without auth
	JWTValidator middleware.JWTValidator

	// DashboardService executes dashboard queries and manages saved configs
	DashboardService *dashboard.Service

	// MetadataRegistry stores entity definitions
	MetadataRegistry *metadata.Registry
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		v1.Use(middleware.Auth(cfg.JWTValidator))
	}
	{
		registerDashboardRoutes(v1, cfg)
		registerMetaRoutes(v1, cfg)
	}

	return router
}

// registerDashboardRoutes registers the reporting endpoints.
func registerDashboardRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewDashboardHandler(cfg.DashboardService)

	dash := rg.Group("/dashboard")
	{
		dash.POST("/execute", handler.Execute)
		dash.POST("/generate-sql", handler.GenerateSQL)

		dash.GET("/schemas", handler.ListSchemas)
		dash.GET("/schemas/:id", handler.GetSchema)
		dash.GET("/schemas/:id/fields/:fieldId/values", handler.DistinctValues)
		dash.POST("/schemas/validate", handler.ValidateSchemas)

		dash.GET("/date-presets", handler.ListDatePresets)

		dash.POST("/configs", handler.SaveConfig)
		dash.GET("/configs", handler.ListConfigs)
		dash.GET("/configs/:id", handler.GetConfig)
		dash.PUT("/configs/:id", handler.UpdateConfig)
		dash.DELETE("/configs/:id", handler.DeleteConfig)
	}
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.MetadataRegistry == nil {
		return
	}

	handler := handlers.NewMetadataHandler(cfg.MetadataRegistry)
	meta := rg.Group("/meta")
	{
		meta.GET("", handler.ListEntities)
		meta.GET("/:name", handler.GetEntity)
	}
}
