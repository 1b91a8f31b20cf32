package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/handlers"
	"github.com/section3-pro/compliance-backend/middleware"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	HealthHandler     *handlers.HealthHandler
	DeploymentHandler *handlers.DeploymentHandler
	DashboardHandler  *handlers.DashboardHandler
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	metrics := deps.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	// Health and Metrics Routes
	health := r.Group("/health")
	{
		health.GET("", deps.HealthHandler.DetailedHealth)
		health.GET("/liveness", deps.HealthHandler.LivenessCheck)
		health.GET("/readiness", deps.HealthHandler.ReadinessCheck)
		health.GET("/database", deps.HealthHandler.DatabaseHealth)
		health.GET("/ai", deps.HealthHandler.AIHealth)
	}
	r.GET("/metrics", gin.WrapH(metrics))

	deployment := r.Group("/deployment")
	{
		deployment.GET("/status", deps.DeploymentHandler.GetStatus)
		deployment.POST("/status", deps.DeploymentHandler.RunAction)
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/dashboard/kpis", deps.DashboardHandler.GetKPIs)
	}

	return r
}
