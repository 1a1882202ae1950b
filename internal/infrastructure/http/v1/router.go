// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stocktrail/internal/domain/audit"
	"stocktrail/internal/domain/catalogs/product"
	"stocktrail/internal/domain/delivery"
	"stocktrail/internal/domain/workflow"
	"stocktrail/internal/infrastructure/http/v1/handlers"
	"stocktrail/internal/infrastructure/http/v1/middleware"
	"stocktrail/internal/infrastructure/storage/postgres"
	"stocktrail/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the connection pool, used by health checks.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// TokenValidator validates bearer tokens on protected routes.
	TokenValidator middleware.TokenValidator

	DeliveryService *delivery.Service
	WorkflowService *workflow.Service
	ProductService  *product.Service
	AuditTrail      audit.Reader
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

	base := handlers.NewBaseHandler()
	snapshotHandler := handlers.NewSnapshotHandler(base, cfg.DeliveryService, cfg.AuditTrail)
	compareHandler := handlers.NewCompareHandler(base, cfg.DeliveryService, cfg.ProductService)
	workflowHandler := handlers.NewWorkflowHandler(base, cfg.WorkflowService, cfg.DeliveryService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)

	// API v1, all routes behind bearer auth
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.TokenValidator))
	{
		deliveries := apiV1.Group("/deliveries")
		{
			deliveries.GET("/snapshots", snapshotHandler.List)
			deliveries.GET("/snapshots/:id", snapshotHandler.Get)
			deliveries.GET("/snapshots/:id/audit", snapshotHandler.AuditTrail)
			deliveries.POST("/advance", snapshotHandler.Advance)
			deliveries.GET("/compare", compareHandler.Compare)
			deliveries.GET("/compare/export", compareHandler.ExportCSV)
		}

		wf := apiV1.Group("/workflow")
		{
			wf.GET("/state", workflowHandler.GetState)
			wf.GET("/steps", workflowHandler.GetSteps)
		}

		catalogs := apiV1.Group("/catalogs")
		{
			catalogs.GET("/products", productHandler.List)
			catalogs.GET("/products/:id", productHandler.Get)
		}
	}

	return router
}
