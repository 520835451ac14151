package router

import (
	"github.com/gin-gonic/gin"

	"pimflow/internal/config"
	"pimflow/internal/handler"
	"pimflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	invoiceH *handler.InvoiceHandler,
	batchH *handler.BatchHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice ingestion
	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Upload)
	invoices.POST("/parse", invoiceH.Parse)

	// Batch read model and exports
	batches := v1.Group("/batches")
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.GetByID)
	batches.GET("/:id/products", batchH.Products)
	batches.GET("/:id/download", batchH.Download)
	batches.GET("/:id/export", batchH.Export)

	return r
}
