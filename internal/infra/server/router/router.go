// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycfo/backend/internal/integration/entrypoint/controller"
	"github.com/mycfo/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	reconciliationController *controller.ReconciliationController
	importController         *controller.ImportController
	documentController       *controller.DocumentController
	authMiddleware           *middleware.AuthMiddleware
	importRateLimiter        *middleware.RateLimiter
	metricsPath              string
	metricsHandler           http.Handler
}

// NewRouter creates a new router instance with all dependencies.
// A nil metricsHandler leaves the metrics endpoint unregistered.
func NewRouter(
	healthController *controller.HealthController,
	reconciliationController *controller.ReconciliationController,
	importController *controller.ImportController,
	documentController *controller.DocumentController,
	authMiddleware *middleware.AuthMiddleware,
	importRateLimiter *middleware.RateLimiter,
	metricsPath string,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		healthController:         healthController,
		reconciliationController: reconciliationController,
		importController:         importController,
		documentController:       documentController,
		authMiddleware:           authMiddleware,
		importRateLimiter:        importRateLimiter,
		metricsPath:              metricsPath,
		metricsHandler:           metricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	if environment != "test" {
		r.engine.Use(gin.Logger())
	}

	r.setupOperationalRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupOperationalRoutes configures health and metrics endpoints.
func (r *Router) setupOperationalRoutes() {
	r.engine.GET("/health", r.healthController.Check)

	if r.metricsHandler != nil && r.metricsPath != "" {
		r.engine.GET(r.metricsPath, gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes. Every route is tenant-scoped.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		movements := v1.Group("/movements")
		{
			movements.GET("/:id/suggestions", r.reconciliationController.Suggest)
		}

		rec := v1.Group("/reconciliation")
		{
			rec.POST("/link", r.reconciliationController.Link)
			rec.POST("/unlink", r.reconciliationController.Unlink)
			rec.GET("/summary", r.reconciliationController.GetSummary)
			rec.GET("/pending", r.reconciliationController.GetPending)
			rec.GET("/linked", r.reconciliationController.GetLinked)
			rec.POST("/trigger", r.reconciliationController.Trigger)
		}

		imports := v1.Group("/imports/payments")
		if r.importRateLimiter != nil {
			imports.Use(r.importRateLimiter.Middleware())
		}
		{
			imports.POST("", r.importController.Import)
			imports.POST("/check", r.importController.Check)
		}

		documents := v1.Group("/documents")
		{
			documents.POST("", r.documentController.Create)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
